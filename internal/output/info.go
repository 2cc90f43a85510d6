package output

import (
	"fmt"

	"libvirt.org/go/libvirtxml"

	"github.com/kmahoney/netforge/internal/netxml"
)

// NetworkInfo is the display form of one network: the interesting
// parts of its XML document plus its lifecycle flags.
type NetworkInfo struct {
	Name       string   `yaml:"name" json:"name"`
	UUID       string   `yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Active     bool     `yaml:"active" json:"active"`
	Autostart  bool     `yaml:"autostart" json:"autostart"`
	Persistent bool     `yaml:"persistent" json:"persistent"`
	Bridge     string   `yaml:"bridge,omitempty" json:"bridge,omitempty"`
	Forward    string   `yaml:"forward,omitempty" json:"forward,omitempty"`
	Addresses  []string `yaml:"addresses,omitempty" json:"addresses,omitempty"`
}

// BuildNetworkInfo parses a network XML document into a NetworkInfo.
// state may be nil when the lifecycle flags are unknown.
func BuildNetworkInfo(xmlDesc string, state *netxml.NetState) (*NetworkInfo, error) {
	var doc libvirtxml.Network
	if err := doc.Unmarshal(xmlDesc); err != nil {
		return nil, fmt.Errorf("failed to parse network XML: %w", err)
	}

	info := &NetworkInfo{
		Name: doc.Name,
		UUID: doc.UUID,
	}
	if doc.Bridge != nil {
		info.Bridge = doc.Bridge.Name
	}
	if doc.Forward != nil {
		info.Forward = doc.Forward.Mode
	}
	for _, ip := range doc.IPs {
		addr := ip.Address
		if ip.Prefix > 0 {
			addr = fmt.Sprintf("%s/%d", ip.Address, ip.Prefix)
		} else if ip.Netmask != "" {
			addr = fmt.Sprintf("%s/%s", ip.Address, ip.Netmask)
		}
		info.Addresses = append(info.Addresses, addr)
	}

	if state != nil {
		info.Active = state.Active
		info.Autostart = state.Autostart
		info.Persistent = state.Persistent
	}
	return info, nil
}
