package naming

import (
	"strings"
	"testing"
)

func TestValidateNetworkName(t *testing.T) {
	valid := []string{"a", "default", "lab-net", "lab_net_2", "Net0"}
	for _, name := range valid {
		if err := ValidateNetworkName(name); err != nil {
			t.Errorf("expected %q to be valid: %v", name, err)
		}
	}

	invalid := []string{"", "-leading", "trailing-", "has space", "dots.not.ok",
		strings.Repeat("x", MaxNameLength+1)}
	for _, name := range invalid {
		if err := ValidateNetworkName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestDefaultBridgeName(t *testing.T) {
	a := DefaultBridgeName("engineering-lab")
	b := DefaultBridgeName("engineering-lab")
	if a != b {
		t.Errorf("bridge name not deterministic: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "nfbr-") {
		t.Errorf("unexpected prefix in %q", a)
	}
	// Linux limits interface names to 15 characters.
	if len(a) > 15 {
		t.Errorf("bridge name %q exceeds interface name limit", a)
	}

	if DefaultBridgeName("other-net") == a {
		t.Error("distinct networks should get distinct bridges")
	}
}

func TestMACFromIP(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"10.55.22.22", "be:ef:0a:37:16:16"},
		{"192.168.150.1", "be:ef:c0:a8:96:01"},
		{"192.168.150.1/24", "be:ef:c0:a8:96:01"},
	}
	for _, tt := range tests {
		got, err := MACFromIP(tt.ip)
		if err != nil {
			t.Errorf("MACFromIP(%s) failed: %v", tt.ip, err)
			continue
		}
		if got != tt.want {
			t.Errorf("MACFromIP(%s) = %q, want %q", tt.ip, got, tt.want)
		}
	}

	for _, bad := range []string{"", "not-an-ip", "2001:db8::1"} {
		if _, err := MACFromIP(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
