// Package naming provides infrastructure-level naming conventions for
// libvirt networks. This includes name validation, deterministic
// bridge naming, and MAC address derivation for the network itself.
package naming

import (
	"fmt"
	"hash/fnv"
	"net"
	"regexp"
	"strings"
)

// MaxNameLength bounds network names. virsh truncates longer names in
// listings and some tools reject them outright.
const MaxNameLength = 63

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]*[a-zA-Z0-9])?$`)

// ValidateNetworkName checks a network name against libvirt's rules:
// alphanumeric start and end, hyphens and underscores inside, at most
// MaxNameLength characters.
func ValidateNetworkName(name string) error {
	if name == "" {
		return fmt.Errorf("network name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("network name must be at most %d characters, got %d", MaxNameLength, len(name))
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("network name must start and end with alphanumeric characters and contain only alphanumeric, hyphens, or underscores, got %q", name)
	}
	return nil
}

// DefaultBridgeName derives a deterministic bridge name from a
// network name. The name is hashed so renames of long network names
// never collide on the truncated prefix.
//
// Example: "engineering-lab" → "nfbr-967870b6"
func DefaultBridgeName(networkName string) string {
	h := fnv.New32a()
	h.Write([]byte(networkName))
	return fmt.Sprintf("nfbr-%08x", h.Sum32())
}

// MACFromIP calculates a deterministic MAC address for the network's
// own interface from its gateway IP. Uses the local assignment prefix
// be:ef:.
//
// Example: IP 192.168.150.1 → MAC be:ef:c0:a8:96:01
func MACFromIP(ip string) (string, error) {
	ipStr := ip
	if strings.Contains(ip, "/") {
		ipAddr, _, err := net.ParseCIDR(ip)
		if err != nil {
			return "", fmt.Errorf("invalid IP/CIDR: %w", err)
		}
		ipStr = ipAddr.String()
	}

	parsedIP := net.ParseIP(ipStr)
	if parsedIP == nil {
		return "", fmt.Errorf("invalid IP address: %s", ipStr)
	}

	ipv4 := parsedIP.To4()
	if ipv4 == nil {
		return "", fmt.Errorf("not an IPv4 address: %s", ipStr)
	}

	return fmt.Sprintf("be:ef:%02x:%02x:%02x:%02x",
		ipv4[0], ipv4[1], ipv4[2], ipv4[3]), nil
}
