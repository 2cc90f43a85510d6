package config

import (
	"fmt"
	"strconv"

	"github.com/kmahoney/netforge/internal/naming"
	"github.com/kmahoney/netforge/internal/netxml"
)

// Build assembles a netxml.Network from the configuration, bound to
// the given tool. The config must have passed Validate.
func (c *NetworkConfig) Build(tool netxml.Tool) (*netxml.Network, error) {
	n := netxml.NewNetwork(c.Name, tool)

	if c.UUID != "" {
		if err := n.SetUUID(c.UUID); err != nil {
			return nil, fmt.Errorf("failed to set uuid: %w", err)
		}
	}
	mac := c.MAC
	if mac == "" {
		if gw := c.firstIPv4(); gw != "" {
			derived, err := naming.MACFromIP(gw)
			if err != nil {
				return nil, fmt.Errorf("failed to derive mac: %w", err)
			}
			mac = derived
		}
	}
	if mac != "" {
		if err := n.SetMAC(mac); err != nil {
			return nil, fmt.Errorf("failed to set mac: %w", err)
		}
	}
	if c.MTU > 0 {
		if err := n.SetMTU(strconv.Itoa(c.MTU)); err != nil {
			return nil, fmt.Errorf("failed to set mtu: %w", err)
		}
	}
	if c.Domain != "" {
		if err := n.SetDomainName(c.Domain); err != nil {
			return nil, fmt.Errorf("failed to set domain: %w", err)
		}
	}
	if len(c.Bridge) > 0 {
		bridge := make(map[string]string, len(c.Bridge)+1)
		for k, v := range c.Bridge {
			bridge[k] = v
		}
		if bridge["name"] == "" {
			bridge["name"] = naming.DefaultBridgeName(c.Name)
		}
		if err := n.SetBridge(bridge); err != nil {
			return nil, fmt.Errorf("failed to set bridge: %w", err)
		}
	}

	if c.Forward != nil {
		if err := applyForward(n, c.Forward); err != nil {
			return nil, fmt.Errorf("failed to set forward: %w", err)
		}
	}

	for i, ipCfg := range c.IPs {
		ip, err := buildIP(&ipCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build ips[%d]: %w", i, err)
		}
		if err := n.AddIP(ip); err != nil {
			return nil, fmt.Errorf("failed to add ips[%d]: %w", i, err)
		}
	}

	if len(c.Routes) > 0 {
		routes := make([]map[string]string, len(c.Routes))
		for i, r := range c.Routes {
			routes[i] = routeAttrs(&r)
		}
		if err := n.SetRoutes(routes); err != nil {
			return nil, fmt.Errorf("failed to set routes: %w", err)
		}
	}

	if c.DNS != nil {
		d, err := buildDNS(c.DNS)
		if err != nil {
			return nil, fmt.Errorf("failed to build dns: %w", err)
		}
		if err := n.SetDNS(d); err != nil {
			return nil, fmt.Errorf("failed to set dns: %w", err)
		}
	}

	if len(c.Portgroups) > 0 {
		items := make([]any, len(c.Portgroups))
		for i, pg := range c.Portgroups {
			items[i] = portgroupSpec(&pg)
		}
		if err := n.SetPortgroups(items); err != nil {
			return nil, fmt.Errorf("failed to set portgroups: %w", err)
		}
	}

	return n, nil
}

// firstIPv4 returns the address of the first IPv4 block, or "" when
// the network has none.
func (c *NetworkConfig) firstIPv4() string {
	for _, ip := range c.IPs {
		if ip.Family != "ipv6" {
			return ip.Address
		}
	}
	return ""
}

func applyForward(n *netxml.Network, f *ForwardConfig) error {
	attrs := map[string]string{"mode": f.Mode}
	if f.Dev != "" {
		attrs["dev"] = f.Dev
	}
	if err := n.SetForward(attrs); err != nil {
		return err
	}

	if len(f.Interfaces) > 0 {
		ifaces := make([]map[string]string, len(f.Interfaces))
		for i, dev := range f.Interfaces {
			ifaces[i] = map[string]string{"dev": dev}
		}
		if err := n.SetForwardInterfaces(ifaces); err != nil {
			return err
		}
	}
	if len(f.NATPort) > 0 {
		if err := n.SetNATPort(f.NATPort); err != nil {
			return err
		}
	}
	if len(f.PF) > 0 {
		if err := n.SetPF(f.PF); err != nil {
			return err
		}
	}
	if len(f.Driver) > 0 {
		if err := n.SetDriver(f.Driver); err != nil {
			return err
		}
	}
	if len(f.VFs) > 0 {
		if err := n.SetVFs(f.VFs); err != nil {
			return err
		}
	}
	return nil
}

func buildIP(cfg *IPConfig) (*netxml.IPBlock, error) {
	spec := netxml.IPBlockSpec{
		Address:  cfg.Address,
		Netmask:  cfg.Netmask,
		Family:   cfg.Family,
		TFTPRoot: cfg.TFTPRoot,
	}
	if cfg.Prefix > 0 {
		spec.Prefix = strconv.Itoa(cfg.Prefix)
	}
	if cfg.DHCP != nil {
		spec.BootpFile = cfg.DHCP.BootpFile
		if cfg.DHCP.RangeStart != "" {
			spec.DHCPRange = &netxml.AddressRangeSpec{
				Attrs: map[string]string{
					"start": cfg.DHCP.RangeStart,
					"end":   cfg.DHCP.RangeEnd,
				},
			}
		}
		for _, h := range cfg.DHCP.Hosts {
			attrs := map[string]string{"ip": h.IP}
			if h.MAC != "" {
				attrs["mac"] = h.MAC
			}
			if h.ID != "" {
				attrs["id"] = h.ID
			}
			if h.Name != "" {
				attrs["name"] = h.Name
			}
			spec.Hosts = append(spec.Hosts, netxml.DhcpHostSpec{Attrs: attrs})
		}
	}
	return netxml.NewIPBlockFromSpec(spec)
}

func routeAttrs(r *RouteConfig) map[string]string {
	attrs := map[string]string{
		"address": r.Address,
		"gateway": r.Gateway,
	}
	if r.Family != "" {
		attrs["family"] = r.Family
	}
	if r.Prefix > 0 {
		attrs["prefix"] = strconv.Itoa(r.Prefix)
	}
	if r.Netmask != "" {
		attrs["netmask"] = r.Netmask
	}
	if r.Metric > 0 {
		attrs["metric"] = strconv.Itoa(r.Metric)
	}
	return attrs
}

func buildDNS(cfg *DNSConfig) (*netxml.DNS, error) {
	spec := netxml.DNSSpec{
		Enable:            cfg.Enable,
		ForwardPlainNames: cfg.ForwardPlainNames,
		TXT:               cfg.TXT,
		SRV:               cfg.SRV,
		Forwarders:        cfg.Forwarders,
	}
	if cfg.Host != nil {
		spec.Host = &netxml.DnsHostSpec{
			IP:        cfg.Host.IP,
			Hostnames: cfg.Host.Hostnames,
		}
	}
	return netxml.NewDNSFromSpec(spec)
}

func portgroupSpec(pg *PortgroupConfig) netxml.PortgroupSpec {
	spec := netxml.PortgroupSpec{
		Name:              pg.Name,
		VirtualportType:   pg.VirtualportType,
		BandwidthInbound:  pg.BandwidthInbound,
		BandwidthOutbound: pg.BandwidthOutbound,
	}
	if pg.Default {
		spec.Default = "yes"
	}
	if pg.VlanID > 0 {
		spec.VlanTag = map[string]string{"id": strconv.Itoa(pg.VlanID)}
	}
	return spec
}
