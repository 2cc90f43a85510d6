package netxml

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/kmahoney/netforge/internal/xmlmap"
)

// DNS is the <dns> block: configuration for the DNS server libvirt
// runs for the network. Setting enable="no" suppresses it entirely.
type DNS struct {
	xmlmap.Base
}

var (
	dnsEnable            = xmlmap.Attr{ParentPath: "/", Tag: "dns", Name: "enable"}
	dnsForwardPlainNames = xmlmap.Attr{ParentPath: "/", Tag: "dns", Name: "forwardPlainNames"}
	dnsTXT               = xmlmap.AttrMap{ParentPath: "/", Tag: "txt"}
	dnsSRV               = xmlmap.AttrMap{ParentPath: "/", Tag: "srv"}
	dnsForwarders        = xmlmap.DictList("/", "forwarder")

	dnsHost = xmlmap.Nest{
		ParentPath: "/",
		Tag:        "host",
		New:        func() xmlmap.Object { return NewDnsHost() },
	}
)

// DNSSpec is the attribute-bag form of a DNS block.
type DNSSpec struct {
	Enable            string
	ForwardPlainNames string
	TXT               map[string]string
	SRV               map[string]string
	Forwarders        []map[string]string
	Host              *DnsHostSpec
}

// NewDNS creates an empty <dns> fragment.
func NewDNS() *DNS {
	return &DNS{Base: xmlmap.MustParse("<dns></dns>")}
}

// NewDNSFromSpec builds a DNS block from its spec.
func NewDNSFromSpec(spec DNSSpec) (*DNS, error) {
	d := NewDNS()
	if spec.Enable != "" {
		if err := d.SetEnable(spec.Enable); err != nil {
			return nil, err
		}
	}
	if spec.ForwardPlainNames != "" {
		if err := d.SetForwardPlainNames(spec.ForwardPlainNames); err != nil {
			return nil, err
		}
	}
	if spec.TXT != nil {
		if err := d.SetTXT(spec.TXT); err != nil {
			return nil, err
		}
	}
	if spec.SRV != nil {
		if err := d.SetSRV(spec.SRV); err != nil {
			return nil, err
		}
	}
	if len(spec.Forwarders) > 0 {
		if err := d.SetForwarders(spec.Forwarders); err != nil {
			return nil, err
		}
	}
	if spec.Host != nil {
		h, err := NewDnsHostFromSpec(*spec.Host)
		if err != nil {
			return nil, err
		}
		if err := d.SetHost(h); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *DNS) Enable() (string, error)  { return d.GetAttr(dnsEnable) }
func (d *DNS) SetEnable(v string) error { return d.SetAttr(dnsEnable, v) }

func (d *DNS) ForwardPlainNames() (string, error)  { return d.GetAttr(dnsForwardPlainNames) }
func (d *DNS) SetForwardPlainNames(v string) error { return d.SetAttr(dnsForwardPlainNames, v) }

func (d *DNS) TXT() (map[string]string, error)  { return d.GetAttrMap(dnsTXT) }
func (d *DNS) SetTXT(v map[string]string) error { return d.SetAttrMap(dnsTXT, v) }

func (d *DNS) SRV() (map[string]string, error)  { return d.GetAttrMap(dnsSRV) }
func (d *DNS) SetSRV(v map[string]string) error { return d.SetAttrMap(dnsSRV, v) }

// Forwarders returns the <forwarder> attribute maps in document order.
func (d *DNS) Forwarders() ([]map[string]string, error) {
	items, err := d.GetList(dnsForwarders)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]string, len(items))
	for i, item := range items {
		out[i] = item.(map[string]string)
	}
	return out, nil
}

// SetForwarders replaces all <forwarder> elements.
func (d *DNS) SetForwarders(fwds []map[string]string) error {
	items := make([]any, len(fwds))
	for i, f := range fwds {
		items[i] = f
	}
	return d.SetList(dnsForwarders, items)
}

// Host returns the dns/host element bound as a DnsHost view.
func (d *DNS) Host() (*DnsHost, error) {
	obj, err := d.GetNest(dnsHost)
	if err != nil {
		return nil, err
	}
	return obj.(*DnsHost), nil
}

// SetHost splices a host record into the dns block.
func (d *DNS) SetHost(h *DnsHost) error { return d.SetNest(dnsHost, h) }

// DnsHost is the <host> element of dns: one IP with its hostnames.
type DnsHost struct {
	xmlmap.Base
}

var (
	dnsHostIP = xmlmap.Attr{ParentPath: "/", Tag: "host", Name: "ip"}

	dnsHostnames = xmlmap.List{
		ParentPath: "/",
		Tag:        "hostname",
		From:       marshalFromHostname,
		To:         marshalToHostname,
	}
)

// DnsHostSpec is the attribute-bag form of a DnsHost.
type DnsHostSpec struct {
	IP        string
	Hostnames []string
}

// NewDnsHost creates an empty <host/> fragment.
func NewDnsHost() *DnsHost {
	return &DnsHost{Base: xmlmap.MustParse("<host/>")}
}

// NewDnsHostFromSpec builds a DnsHost from its spec.
func NewDnsHostFromSpec(spec DnsHostSpec) (*DnsHost, error) {
	h := NewDnsHost()
	if spec.IP != "" {
		if err := h.SetIP(spec.IP); err != nil {
			return nil, err
		}
	}
	if len(spec.Hostnames) > 0 {
		items := make([]any, len(spec.Hostnames))
		for i, name := range spec.Hostnames {
			items[i] = name
		}
		if err := h.SetHostnames(items); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *DnsHost) IP() (string, error)  { return h.GetAttr(dnsHostIP) }
func (h *DnsHost) SetIP(v string) error { return h.SetAttr(dnsHostIP, v) }

// Hostnames returns the <hostname> entries in document order.
func (h *DnsHost) Hostnames() ([]*Hostname, error) {
	items, err := h.GetList(dnsHostnames)
	if err != nil {
		return nil, err
	}
	out := make([]*Hostname, len(items))
	for i, item := range items {
		out[i] = item.(*Hostname)
	}
	return out, nil
}

// SetHostnames replaces all hostname entries. Items may be *Hostname
// instances or plain strings.
func (h *DnsHost) SetHostnames(items []any) error {
	return h.SetList(dnsHostnames, items)
}

// AppendHostname adds one hostname entry.
func (h *DnsHost) AppendHostname(item any) error {
	return h.AppendToList(dnsHostnames, item)
}

func marshalFromHostname(item any, _ int) (*etree.Element, error) {
	switch v := item.(type) {
	case *Hostname:
		return v.Release(), nil
	case string:
		hn := NewHostname()
		if err := hn.SetHostname(v); err != nil {
			return nil, err
		}
		return hn.Release(), nil
	default:
		return nil, fmt.Errorf("%w: expected a hostname instance or string, not %T",
			xmlmap.ErrTypeConflict, item)
	}
}

func marshalToHostname(tag string, el *etree.Element, _ int) (any, bool, error) {
	if tag != "hostname" {
		return nil, false, nil
	}
	hn := NewHostname()
	hn.Rebind(el)
	return hn, true, nil
}

// Hostname is the <hostname> element of dns/host.
type Hostname struct {
	xmlmap.Base
}

var hostnameText = xmlmap.Text{ParentPath: "/", Tag: "hostname"}

// NewHostname creates an empty <hostname/> fragment.
func NewHostname() *Hostname {
	return &Hostname{Base: xmlmap.MustParse("<hostname/>")}
}

func (h *Hostname) Hostname() (string, error)  { return h.GetText(hostnameText) }
func (h *Hostname) SetHostname(v string) error { return h.SetText(hostnameText, v) }
