package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kmahoney/netforge/internal/naming"
	"github.com/kmahoney/netforge/internal/netxml"
)

// NetworkConfig represents a complete network definition as read from
// a YAML file. It mirrors the structure of the libvirt network XML
// without requiring users to write XML.
type NetworkConfig struct {
	Name    string            `yaml:"name"`
	UUID    string            `yaml:"uuid,omitempty"`
	MAC     string            `yaml:"mac,omitempty"`
	MTU     int               `yaml:"mtu,omitempty"`
	Domain  string            `yaml:"domain,omitempty"`
	Bridge  map[string]string `yaml:"bridge,omitempty"`
	Forward *ForwardConfig    `yaml:"forward,omitempty"`
	IPs     []IPConfig        `yaml:"ips,omitempty"`
	Routes  []RouteConfig     `yaml:"routes,omitempty"`
	DNS     *DNSConfig        `yaml:"dns,omitempty"`

	Portgroups []PortgroupConfig `yaml:"portgroups,omitempty"`

	// State is the lifecycle target applied by sync. Defaults to
	// active, persistent, autostarted.
	State *netxml.DesiredState `yaml:"state,omitempty"`
}

// ForwardConfig defines the <forward> block: the connectivity mode
// between the virtual network and the physical LAN.
type ForwardConfig struct {
	Mode       string              `yaml:"mode"`
	Dev        string              `yaml:"dev,omitempty"`
	Interfaces []string            `yaml:"interfaces,omitempty"`
	NATPort    map[string]string   `yaml:"nat_port,omitempty"`
	PF         map[string]string   `yaml:"pf,omitempty"`
	Driver     map[string]string   `yaml:"driver,omitempty"`
	VFs        []map[string]string `yaml:"vfs,omitempty"`
}

// IPConfig defines one address block of the network.
type IPConfig struct {
	Address  string `yaml:"address"`
	Netmask  string `yaml:"netmask,omitempty"`
	Family   string `yaml:"family,omitempty"`
	Prefix   int    `yaml:"prefix,omitempty"`
	TFTPRoot string `yaml:"tftp_root,omitempty"`

	DHCP *DHCPConfig `yaml:"dhcp,omitempty"`
}

// DHCPConfig defines the dhcp block under an ip element.
type DHCPConfig struct {
	RangeStart string           `yaml:"range_start,omitempty"`
	RangeEnd   string           `yaml:"range_end,omitempty"`
	Hosts      []DHCPHostConfig `yaml:"hosts,omitempty"`
	BootpFile  string           `yaml:"bootp_file,omitempty"`
}

// DHCPHostConfig is one static dhcp assignment.
type DHCPHostConfig struct {
	MAC  string `yaml:"mac,omitempty"`
	ID   string `yaml:"id,omitempty"`
	Name string `yaml:"name,omitempty"`
	IP   string `yaml:"ip"`
}

// RouteConfig defines one static route announced by the network.
type RouteConfig struct {
	Family  string `yaml:"family,omitempty"`
	Address string `yaml:"address"`
	Prefix  int    `yaml:"prefix,omitempty"`
	Netmask string `yaml:"netmask,omitempty"`
	Gateway string `yaml:"gateway"`
	Metric  int    `yaml:"metric,omitempty"`
}

// DNSConfig defines the dns block.
type DNSConfig struct {
	Enable            string              `yaml:"enable,omitempty"`
	ForwardPlainNames string              `yaml:"forward_plain_names,omitempty"`
	Forwarders        []map[string]string `yaml:"forwarders,omitempty"`
	TXT               map[string]string   `yaml:"txt,omitempty"`
	SRV               map[string]string   `yaml:"srv,omitempty"`
	Host              *DNSHostConfig      `yaml:"host,omitempty"`
}

// DNSHostConfig maps one IP to its hostnames.
type DNSHostConfig struct {
	IP        string   `yaml:"ip"`
	Hostnames []string `yaml:"hostnames"`
}

// PortgroupConfig defines one portgroup of the network.
type PortgroupConfig struct {
	Name             string            `yaml:"name"`
	Default          bool              `yaml:"default,omitempty"`
	VlanID           int               `yaml:"vlan_id,omitempty"`
	VirtualportType  string            `yaml:"virtualport_type,omitempty"`
	BandwidthInbound map[string]string `yaml:"bandwidth_inbound,omitempty"`

	BandwidthOutbound map[string]string `yaml:"bandwidth_outbound,omitempty"`
}

var forwardModes = map[string]bool{
	"nat":         true,
	"route":       true,
	"open":        true,
	"bridge":      true,
	"private":     true,
	"vepa":        true,
	"passthrough": true,
	"hostdev":     true,
}

// Validate checks the configuration for errors.
// Does not probe the hypervisor - only config structure.
func (c *NetworkConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := naming.ValidateNetworkName(c.Name); err != nil {
		return err
	}

	if c.UUID != "" {
		if _, err := uuid.Parse(c.UUID); err != nil {
			return fmt.Errorf("invalid uuid %q: %w", c.UUID, err)
		}
	}
	if c.MAC != "" {
		if _, err := net.ParseMAC(c.MAC); err != nil {
			return fmt.Errorf("invalid mac %q: %w", c.MAC, err)
		}
	}
	if c.MTU < 0 {
		return fmt.Errorf("mtu must be >= 0, got %d", c.MTU)
	}

	if c.Forward != nil {
		if err := c.Forward.Validate(); err != nil {
			return fmt.Errorf("forward: %w", err)
		}
	}

	addressesSeen := make(map[string]bool)
	for i, ip := range c.IPs {
		if err := ip.Validate(); err != nil {
			return fmt.Errorf("ips[%d]: %w", i, err)
		}
		if addressesSeen[ip.Address] {
			return fmt.Errorf("ips[%d]: duplicate address %q", i, ip.Address)
		}
		addressesSeen[ip.Address] = true
	}

	for i, route := range c.Routes {
		if err := route.Validate(); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
	}

	if c.DNS != nil {
		if err := c.DNS.Validate(); err != nil {
			return fmt.Errorf("dns: %w", err)
		}
	}

	defaultsSeen := 0
	namesSeen := make(map[string]bool)
	for i, pg := range c.Portgroups {
		if pg.Name == "" {
			return fmt.Errorf("portgroups[%d]: name is required", i)
		}
		if namesSeen[pg.Name] {
			return fmt.Errorf("portgroups[%d]: duplicate name %q", i, pg.Name)
		}
		namesSeen[pg.Name] = true
		if pg.Default {
			defaultsSeen++
		}
	}
	if defaultsSeen > 1 {
		return fmt.Errorf("portgroups: at most one may be default, got %d", defaultsSeen)
	}

	return nil
}

// Validate checks the forward block.
func (f *ForwardConfig) Validate() error {
	if f.Mode == "" {
		return fmt.Errorf("mode is required")
	}
	if !forwardModes[f.Mode] {
		return fmt.Errorf("unknown mode %q", f.Mode)
	}
	if len(f.NATPort) > 0 && f.Mode != "nat" {
		return fmt.Errorf("nat_port requires mode nat, got %q", f.Mode)
	}
	for _, key := range []string{"start", "end"} {
		if v, ok := f.NATPort[key]; ok {
			port, err := strconv.Atoi(v)
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("nat_port %s must be a port number, got %q", key, v)
			}
		}
	}
	return nil
}

// Validate checks one ip block.
func (ip *IPConfig) Validate() error {
	if ip.Address == "" {
		return fmt.Errorf("address is required")
	}
	parsed := net.ParseIP(ip.Address)
	if parsed == nil {
		return fmt.Errorf("invalid address %q", ip.Address)
	}

	isV6 := parsed.To4() == nil
	if ip.Family == "" && isV6 {
		return fmt.Errorf("address %q is IPv6, family: ipv6 must be set explicitly", ip.Address)
	}
	if ip.Family != "" && ip.Family != "ipv4" && ip.Family != "ipv6" {
		return fmt.Errorf("family must be ipv4 or ipv6, got %q", ip.Family)
	}
	if ip.Family == "ipv6" {
		if ip.Netmask != "" {
			return fmt.Errorf("netmask is not valid for ipv6, use prefix")
		}
		if ip.Prefix < 0 || ip.Prefix > 128 {
			return fmt.Errorf("prefix must be 0-128, got %d", ip.Prefix)
		}
	} else {
		if ip.Netmask != "" && net.ParseIP(ip.Netmask) == nil {
			return fmt.Errorf("invalid netmask %q", ip.Netmask)
		}
		if ip.Prefix < 0 || ip.Prefix > 32 {
			return fmt.Errorf("prefix must be 0-32, got %d", ip.Prefix)
		}
		if ip.Netmask != "" && ip.Prefix != 0 {
			return fmt.Errorf("netmask and prefix are mutually exclusive")
		}
	}

	if ip.DHCP != nil {
		if err := ip.DHCP.Validate(); err != nil {
			return fmt.Errorf("dhcp: %w", err)
		}
	}
	return nil
}

// Validate checks the dhcp block.
func (d *DHCPConfig) Validate() error {
	if (d.RangeStart == "") != (d.RangeEnd == "") {
		return fmt.Errorf("range_start and range_end must be set together")
	}
	if d.RangeStart != "" && net.ParseIP(d.RangeStart) == nil {
		return fmt.Errorf("invalid range_start %q", d.RangeStart)
	}
	if d.RangeEnd != "" && net.ParseIP(d.RangeEnd) == nil {
		return fmt.Errorf("invalid range_end %q", d.RangeEnd)
	}
	for i, h := range d.Hosts {
		if h.IP == "" {
			return fmt.Errorf("hosts[%d]: ip is required", i)
		}
		if net.ParseIP(h.IP) == nil {
			return fmt.Errorf("hosts[%d]: invalid ip %q", i, h.IP)
		}
		if h.MAC == "" && h.ID == "" && h.Name == "" {
			return fmt.Errorf("hosts[%d]: one of mac, id, or name is required", i)
		}
		if h.MAC != "" {
			if _, err := net.ParseMAC(h.MAC); err != nil {
				return fmt.Errorf("hosts[%d]: invalid mac %q: %w", i, h.MAC, err)
			}
		}
	}
	return nil
}

// Validate checks one route.
func (r *RouteConfig) Validate() error {
	if r.Address == "" {
		return fmt.Errorf("address is required")
	}
	if net.ParseIP(r.Address) == nil {
		return fmt.Errorf("invalid address %q", r.Address)
	}
	if r.Gateway == "" {
		return fmt.Errorf("gateway is required")
	}
	if net.ParseIP(r.Gateway) == nil {
		return fmt.Errorf("invalid gateway %q", r.Gateway)
	}
	if r.Netmask != "" && net.ParseIP(r.Netmask) == nil {
		return fmt.Errorf("invalid netmask %q", r.Netmask)
	}
	return nil
}

// Validate checks the dns block.
func (d *DNSConfig) Validate() error {
	for _, v := range []string{d.Enable, d.ForwardPlainNames} {
		if v != "" && v != "yes" && v != "no" {
			return fmt.Errorf("flags must be yes or no, got %q", v)
		}
	}
	for i, f := range d.Forwarders {
		if addr, ok := f["addr"]; ok && net.ParseIP(addr) == nil {
			return fmt.Errorf("forwarders[%d]: invalid addr %q", i, addr)
		}
	}
	if d.Host != nil {
		if d.Host.IP == "" {
			return fmt.Errorf("host: ip is required")
		}
		if net.ParseIP(d.Host.IP) == nil {
			return fmt.Errorf("host: invalid ip %q", d.Host.IP)
		}
		if len(d.Host.Hostnames) == 0 {
			return fmt.Errorf("host: at least one hostname is required")
		}
	}
	return nil
}

// Normalize sanitizes user input to consistent formats.
// It is called automatically by LoadFromFile before validation.
func (c *NetworkConfig) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.UUID = strings.ToLower(strings.TrimSpace(c.UUID))
	c.MAC = strings.ToLower(strings.TrimSpace(c.MAC))

	for i := range c.IPs {
		if c.IPs[i].Family == "" && c.IPs[i].Address != "" {
			parsed := net.ParseIP(c.IPs[i].Address)
			if parsed != nil && parsed.To4() == nil {
				c.IPs[i].Family = "ipv6"
			}
		}
	}
}

// LoadFromFile loads a network configuration from a YAML file.
func LoadFromFile(path string) (*NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config NetworkConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadStateFile loads a standalone desired-state YAML file.
func LoadStateFile(path string) (*netxml.DesiredState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state netxml.DesiredState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &state, nil
}
