package config

import (
	"strings"
	"testing"
)

func TestBuild_FullConfig(t *testing.T) {
	c := &NetworkConfig{
		Name:   "labnet",
		UUID:   "004b96e1-2d78-c30f-5aa5-f03c87d21e69",
		MTU:    9000,
		Domain: "lab.example.com",
		Bridge: map[string]string{"name": "virbr8", "stp": "on", "delay": "0"},
		Forward: &ForwardConfig{
			Mode:    "nat",
			NATPort: map[string]string{"start": "1024", "end": "65535"},
		},
		IPs: []IPConfig{
			{
				Address: "192.168.150.1",
				Netmask: "255.255.255.0",
				DHCP: &DHCPConfig{
					RangeStart: "192.168.150.2",
					RangeEnd:   "192.168.150.254",
					Hosts: []DHCPHostConfig{
						{MAC: "00:16:3e:77:e2:ed", Name: "jupiter", IP: "192.168.150.10"},
					},
				},
			},
			{Address: "2001:db8:ca2:2::1", Family: "ipv6", Prefix: 64},
		},
		Routes: []RouteConfig{
			{Address: "192.168.222.0", Prefix: 24, Gateway: "192.168.150.10"},
		},
		DNS: &DNSConfig{
			Enable:     "yes",
			Forwarders: []map[string]string{{"addr": "8.8.8.8"}},
			Host:       &DNSHostConfig{IP: "192.168.150.2", Hostnames: []string{"gateway"}},
		},
		Portgroups: []PortgroupConfig{
			{Name: "engineering", Default: true, VlanID: 42},
		},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}

	n, err := c.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	name, err := n.Name()
	if err != nil || name != "labnet" {
		t.Errorf("name wrong: %q, %v", name, err)
	}
	mtu, err := n.MTU()
	if err != nil || mtu != "9000" {
		t.Errorf("mtu wrong: %q, %v", mtu, err)
	}
	forward, err := n.Forward()
	if err != nil || forward["mode"] != "nat" {
		t.Errorf("forward wrong: %v, %v", forward, err)
	}

	ips, err := n.IPs()
	if err != nil {
		t.Fatalf("IPs failed: %v", err)
	}
	if len(ips) != 2 {
		t.Fatalf("expected 2 ip blocks, got %d", len(ips))
	}
	r, err := ips[0].DHCPRange()
	if err != nil {
		t.Fatalf("DHCPRange failed: %v", err)
	}
	attrs, err := r.Attrs()
	if err != nil || attrs["start"] != "192.168.150.2" {
		t.Errorf("dhcp range wrong: %v, %v", attrs, err)
	}
	hosts, err := ips[0].Hosts()
	if err != nil || len(hosts) != 1 {
		t.Fatalf("dhcp hosts wrong: %d, %v", len(hosts), err)
	}

	out, err := n.XML()
	if err != nil {
		t.Fatalf("XML failed: %v", err)
	}
	// An IPv6 block gets prefix, never a netmask of its own.
	if strings.Count(out, "netmask") != 1 {
		t.Errorf("expected exactly one netmask attribute, got %s", out)
	}
	if !strings.Contains(out, `<vlan><tag id="42"/></vlan>`) {
		t.Errorf("expected vlan tag in portgroup, got %s", out)
	}

	pgs, err := n.Portgroups()
	if err != nil || len(pgs) != 1 {
		t.Fatalf("portgroups wrong: %d, %v", len(pgs), err)
	}
	def, err := pgs[0].Default()
	if err != nil || def != "yes" {
		t.Errorf("default portgroup flag wrong: %q, %v", def, err)
	}

	d, err := n.DNS()
	if err != nil {
		t.Fatalf("DNS failed: %v", err)
	}
	if enable, err := d.Enable(); err != nil || enable != "yes" {
		t.Errorf("dns enable wrong: %q, %v", enable, err)
	}
}

func TestBuild_MinimalConfig(t *testing.T) {
	c := &NetworkConfig{Name: "bare"}
	if err := c.Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}

	n, err := c.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	out, err := n.XML()
	if err != nil {
		t.Fatalf("XML failed: %v", err)
	}
	if !strings.Contains(out, "<name>bare</name>") {
		t.Errorf("unexpected document %s", out)
	}
	if strings.Contains(out, "<forward") || strings.Contains(out, "<ip") {
		t.Errorf("minimal config should not emit optional blocks: %s", out)
	}
}

func TestBuild_DerivedMACAndBridgeName(t *testing.T) {
	c := &NetworkConfig{
		Name:   "labnet",
		Bridge: map[string]string{"stp": "on"},
		IPs:    []IPConfig{{Address: "192.168.150.1", Netmask: "255.255.255.0"}},
	}
	n, err := c.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	mac, err := n.MAC()
	if err != nil || mac != "be:ef:c0:a8:96:01" {
		t.Errorf("derived mac wrong: %q, %v", mac, err)
	}
	bridge, err := n.Bridge()
	if err != nil {
		t.Fatalf("Bridge failed: %v", err)
	}
	if !strings.HasPrefix(bridge["name"], "nfbr-") {
		t.Errorf("expected generated bridge name, got %q", bridge["name"])
	}
	if bridge["stp"] != "on" {
		t.Errorf("expected stp preserved, got %v", bridge)
	}
	// Caller's map stays untouched.
	if _, ok := c.Bridge["name"]; ok {
		t.Errorf("Build mutated the config bridge map: %v", c.Bridge)
	}
}

func TestBuild_ForwardInterfaces(t *testing.T) {
	c := &NetworkConfig{
		Name:    "passthru",
		Forward: &ForwardConfig{Mode: "passthrough", Interfaces: []string{"eth3", "eth4"}},
	}
	n, err := c.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ifaces, err := n.ForwardInterfaces()
	if err != nil {
		t.Fatalf("ForwardInterfaces failed: %v", err)
	}
	if len(ifaces) != 2 || ifaces[0]["dev"] != "eth3" || ifaces[1]["dev"] != "eth4" {
		t.Errorf("unexpected interfaces %v", ifaces)
	}
}
