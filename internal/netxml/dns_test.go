package netxml

import (
	"errors"
	"strings"
	"testing"

	"github.com/kmahoney/netforge/internal/xmlmap"
)

func TestDNS_AttrsAndRecords(t *testing.T) {
	d := NewDNS()

	if err := d.SetEnable("yes"); err != nil {
		t.Fatalf("SetEnable failed: %v", err)
	}
	if err := d.SetForwardPlainNames("no"); err != nil {
		t.Fatalf("SetForwardPlainNames failed: %v", err)
	}
	if err := d.SetTXT(map[string]string{"name": "example", "value": "example value"}); err != nil {
		t.Fatalf("SetTXT failed: %v", err)
	}
	if err := d.SetSRV(map[string]string{"service": "name", "protocol": "tcp"}); err != nil {
		t.Fatalf("SetSRV failed: %v", err)
	}

	enable, err := d.Enable()
	if err != nil || enable != "yes" {
		t.Errorf("Enable round-trip failed: %q, %v", enable, err)
	}
	txt, err := d.TXT()
	if err != nil || txt["name"] != "example" {
		t.Errorf("TXT round-trip failed: %v, %v", txt, err)
	}
	srv, err := d.SRV()
	if err != nil || srv["protocol"] != "tcp" {
		t.Errorf("SRV round-trip failed: %v, %v", srv, err)
	}
}

func TestDNS_Forwarders(t *testing.T) {
	d := NewDNS()
	fwds := []map[string]string{
		{"addr": "8.8.8.8"},
		{"domain": "example.com", "addr": "8.8.4.4"},
	}
	if err := d.SetForwarders(fwds); err != nil {
		t.Fatalf("SetForwarders failed: %v", err)
	}

	got, err := d.Forwarders()
	if err != nil {
		t.Fatalf("Forwarders failed: %v", err)
	}
	if len(got) != 2 || got[0]["addr"] != "8.8.8.8" || got[1]["domain"] != "example.com" {
		t.Errorf("forwarders round-trip failed: %v", got)
	}
}

func TestDNS_HostSplice(t *testing.T) {
	d := NewDNS()
	h, err := NewDnsHostFromSpec(DnsHostSpec{
		IP:        "192.168.122.2",
		Hostnames: []string{"myhost", "myhostalias"},
	})
	if err != nil {
		t.Fatalf("NewDnsHostFromSpec failed: %v", err)
	}
	if err := d.SetHost(h); err != nil {
		t.Fatalf("SetHost failed: %v", err)
	}

	got, err := d.Host()
	if err != nil {
		t.Fatalf("Host failed: %v", err)
	}
	ip, err := got.IP()
	if err != nil || ip != "192.168.122.2" {
		t.Errorf("host ip wrong: %q, %v", ip, err)
	}
	names, err := got.Hostnames()
	if err != nil {
		t.Fatalf("Hostnames failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 hostnames, got %d", len(names))
	}
	first, err := names[0].Hostname()
	if err != nil || first != "myhost" {
		t.Errorf("first hostname wrong: %q, %v", first, err)
	}

	// The returned host is a view: mutating it writes through.
	if err := got.SetIP("192.168.122.3"); err != nil {
		t.Fatalf("SetIP failed: %v", err)
	}
	out, _ := d.XML()
	if !strings.Contains(out, `ip="192.168.122.3"`) {
		t.Errorf("host mutation should write through to the dns block, got %s", out)
	}
}

func TestDNS_HostAbsent(t *testing.T) {
	d := NewDNS()
	if _, err := d.Host(); !errors.Is(err, xmlmap.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDnsHost_HostnameItems(t *testing.T) {
	h := NewDnsHost()

	// Strings and prebuilt instances mix freely.
	hn := NewHostname()
	if err := hn.SetHostname("built"); err != nil {
		t.Fatalf("SetHostname failed: %v", err)
	}
	if err := h.SetHostnames([]any{"plain", hn}); err != nil {
		t.Fatalf("SetHostnames failed: %v", err)
	}
	if err := h.AppendHostname("appended"); err != nil {
		t.Fatalf("AppendHostname failed: %v", err)
	}

	names, err := h.Hostnames()
	if err != nil {
		t.Fatalf("Hostnames failed: %v", err)
	}
	want := []string{"plain", "built", "appended"}
	if len(names) != len(want) {
		t.Fatalf("expected %d hostnames, got %d", len(want), len(names))
	}
	for i, w := range want {
		got, err := names[i].Hostname()
		if err != nil || got != w {
			t.Errorf("hostname %d: expected %q, got %q, %v", i, w, got, err)
		}
	}

	// Anything else is a type conflict.
	if err := h.SetHostnames([]any{42}); !errors.Is(err, xmlmap.ErrTypeConflict) {
		t.Errorf("expected ErrTypeConflict, got %v", err)
	}
}

func TestNetwork_DNSNest(t *testing.T) {
	n := NewNetwork("net0", nil)
	d, err := NewDNSFromSpec(DNSSpec{
		Enable:     "yes",
		Forwarders: []map[string]string{{"addr": "1.1.1.1"}},
		Host:       &DnsHostSpec{IP: "192.168.122.2", Hostnames: []string{"gateway"}},
	})
	if err != nil {
		t.Fatalf("NewDNSFromSpec failed: %v", err)
	}
	if err := n.SetDNS(d); err != nil {
		t.Fatalf("SetDNS failed: %v", err)
	}

	got, err := n.DNS()
	if err != nil {
		t.Fatalf("DNS failed: %v", err)
	}
	enable, err := got.Enable()
	if err != nil || enable != "yes" {
		t.Errorf("dns enable wrong: %q, %v", enable, err)
	}
	host, err := got.Host()
	if err != nil {
		t.Fatalf("Host failed: %v", err)
	}
	if ip, err := host.IP(); err != nil || ip != "192.168.122.2" {
		t.Errorf("dns host ip wrong: %q, %v", ip, err)
	}
}
