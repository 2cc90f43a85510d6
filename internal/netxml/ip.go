package netxml

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/kmahoney/netforge/internal/xmlmap"
)

// Default address block for new IP fragments, matching the libvirt
// default network.
const (
	DefaultIPAddress = "192.168.122.1"
	DefaultNetmask   = "255.255.255.0"
)

// IPBlock is the <ip> element of a network: one address block,
// optionally containing DHCP configuration.
type IPBlock struct {
	xmlmap.Base
}

var (
	ipAddress   = xmlmap.Attr{ParentPath: "/", Tag: "ip", Name: "address"}
	ipNetmask   = xmlmap.Attr{ParentPath: "/", Tag: "ip", Name: "netmask"}
	ipFamily    = xmlmap.Attr{ParentPath: "/", Tag: "ip", Name: "family"}
	ipPrefix    = xmlmap.Attr{ParentPath: "/", Tag: "ip", Name: "prefix"}
	ipTFTPRoot  = xmlmap.Attr{ParentPath: "/", Tag: "tftp", Name: "root"}
	ipDHCPBootp = xmlmap.Attr{ParentPath: "/dhcp", Tag: "bootp", Name: "file"}

	ipDHCPRange = xmlmap.Nest{
		ParentPath: "/dhcp",
		Tag:        "range",
		New:        func() xmlmap.Object { return NewAddressRange() },
	}

	ipHosts = xmlmap.List{
		ParentPath: "/dhcp",
		Tag:        "host",
		From:       marshalFromDhcpHost,
		To:         marshalToDhcpHost,
	}
)

// IPBlockSpec is the attribute-bag form of an IPBlock. Zero-valued
// fields are left at the fragment defaults.
type IPBlockSpec struct {
	Address   string
	Netmask   string
	Family    string
	Prefix    string
	TFTPRoot  string
	BootpFile string
	DHCPRange *AddressRangeSpec
	Hosts     []DhcpHostSpec
}

// NewIPBlock creates an IPv4 <ip> fragment. Empty arguments fall back
// to the libvirt default network block.
func NewIPBlock(address, netmask string) *IPBlock {
	if address == "" {
		address = DefaultIPAddress
	}
	if netmask == "" {
		netmask = DefaultNetmask
	}
	seed := fmt.Sprintf("<ip address='%s' netmask='%s'></ip>", address, netmask)
	return &IPBlock{Base: xmlmap.MustParse(seed)}
}

// NewIPv6Block creates an IPv6 <ip> fragment. IPv6 blocks carry a
// prefix instead of a netmask, so none is seeded.
func NewIPv6Block(address string) *IPBlock {
	ip := &IPBlock{Base: xmlmap.MustParse(fmt.Sprintf("<ip address='%s'></ip>", address))}
	return ip
}

// NewIPBlockFromSpec builds an IPBlock from its spec. A spec with
// Family "ipv6" seeds an IPv6 fragment, so it never yields a netmask
// attribute.
func NewIPBlockFromSpec(spec IPBlockSpec) (*IPBlock, error) {
	var ip *IPBlock
	if spec.Family == "ipv6" {
		ip = NewIPv6Block(spec.Address)
	} else {
		ip = NewIPBlock(spec.Address, spec.Netmask)
	}
	if spec.Family != "" {
		if err := ip.SetFamily(spec.Family); err != nil {
			return nil, err
		}
	}
	if spec.Prefix != "" {
		if err := ip.SetPrefix(spec.Prefix); err != nil {
			return nil, err
		}
	}
	if spec.TFTPRoot != "" {
		if err := ip.SetTFTPRoot(spec.TFTPRoot); err != nil {
			return nil, err
		}
	}
	if spec.BootpFile != "" {
		if err := ip.SetBootpFile(spec.BootpFile); err != nil {
			return nil, err
		}
	}
	if spec.DHCPRange != nil {
		r, err := NewAddressRangeFromSpec(*spec.DHCPRange)
		if err != nil {
			return nil, err
		}
		if err := ip.SetDHCPRange(r); err != nil {
			return nil, err
		}
	}
	if len(spec.Hosts) > 0 {
		items := make([]any, len(spec.Hosts))
		for i, h := range spec.Hosts {
			items[i] = h
		}
		if err := ip.SetHosts(items); err != nil {
			return nil, err
		}
	}
	return ip, nil
}

func (x *IPBlock) Address() (string, error)  { return x.GetAttr(ipAddress) }
func (x *IPBlock) SetAddress(v string) error { return x.SetAttr(ipAddress, v) }

func (x *IPBlock) Netmask() (string, error)  { return x.GetAttr(ipNetmask) }
func (x *IPBlock) SetNetmask(v string) error { return x.SetAttr(ipNetmask, v) }
func (x *IPBlock) DelNetmask() error         { return x.DelAttr(ipNetmask) }

func (x *IPBlock) Family() (string, error)  { return x.GetAttr(ipFamily) }
func (x *IPBlock) SetFamily(v string) error { return x.SetAttr(ipFamily, v) }

func (x *IPBlock) Prefix() (string, error)  { return x.GetAttr(ipPrefix) }
func (x *IPBlock) SetPrefix(v string) error { return x.SetAttr(ipPrefix, v) }

func (x *IPBlock) TFTPRoot() (string, error)  { return x.GetAttr(ipTFTPRoot) }
func (x *IPBlock) SetTFTPRoot(v string) error { return x.SetAttr(ipTFTPRoot, v) }

func (x *IPBlock) BootpFile() (string, error)  { return x.GetAttr(ipDHCPBootp) }
func (x *IPBlock) SetBootpFile(v string) error { return x.SetAttr(ipDHCPBootp, v) }

// DHCPRange returns the ip/dhcp/range element bound as an
// AddressRange view.
func (x *IPBlock) DHCPRange() (*AddressRange, error) {
	obj, err := x.GetNest(ipDHCPRange)
	if err != nil {
		return nil, err
	}
	return obj.(*AddressRange), nil
}

// SetDHCPRange splices a range into ip/dhcp.
func (x *IPBlock) SetDHCPRange(r *AddressRange) error {
	return x.SetNest(ipDHCPRange, r)
}

// AddDHCPRange appends one start/end range to ip/dhcp without
// touching existing ranges.
func (x *IPBlock) AddDHCPRange(start, end string) error {
	el := etree.NewElement("range")
	el.CreateAttr("start", start)
	el.CreateAttr("end", end)
	return x.AppendAt("/dhcp", el)
}

// Hosts returns the DHCP host reservations in document order.
func (x *IPBlock) Hosts() ([]*DhcpHost, error) {
	items, err := x.GetList(ipHosts)
	if err != nil {
		return nil, err
	}
	hosts := make([]*DhcpHost, len(items))
	for i, item := range items {
		hosts[i] = item.(*DhcpHost)
	}
	return hosts, nil
}

// SetHosts replaces all DHCP host reservations. Items may be
// *DhcpHost instances or DhcpHostSpec attribute bags.
func (x *IPBlock) SetHosts(items []any) error {
	return x.SetList(ipHosts, items)
}

// AppendHost adds one reservation without disturbing existing ones.
func (x *IPBlock) AppendHost(item any) error {
	return x.AppendToList(ipHosts, item)
}

func marshalFromDhcpHost(item any, _ int) (*etree.Element, error) {
	switch v := item.(type) {
	case *DhcpHost:
		return v.Release(), nil
	case DhcpHostSpec:
		h, err := NewDhcpHostFromSpec(v)
		if err != nil {
			return nil, err
		}
		return h.Release(), nil
	default:
		return nil, fmt.Errorf("%w: expected a dhcp host instance or spec, not %T",
			xmlmap.ErrTypeConflict, item)
	}
}

func marshalToDhcpHost(tag string, el *etree.Element, _ int) (any, bool, error) {
	if tag != "host" {
		return nil, false, nil
	}
	h := NewDhcpHost()
	h.Rebind(el)
	return h, true, nil
}
