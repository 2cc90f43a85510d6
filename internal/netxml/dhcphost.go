package netxml

import "github.com/kmahoney/netforge/internal/xmlmap"

// DhcpHost is the <host> element of ip/dhcp: a static MAC/name/IP
// reservation, optionally with lease information.
type DhcpHost struct {
	xmlmap.Base
}

var (
	dhcpHostAttrs      = xmlmap.AttrMap{ParentPath: "/", Tag: "host"}
	dhcpHostLeaseAttrs = xmlmap.AttrMap{ParentPath: "/", Tag: "lease"}
)

// DhcpHostSpec is the attribute-bag form of a DhcpHost.
type DhcpHostSpec struct {
	Attrs      map[string]string
	LeaseAttrs map[string]string
}

// NewDhcpHost creates an empty <host/> fragment.
func NewDhcpHost() *DhcpHost {
	return &DhcpHost{Base: xmlmap.MustParse("<host/>")}
}

// NewDhcpHostFromSpec builds a DhcpHost from its spec.
func NewDhcpHostFromSpec(spec DhcpHostSpec) (*DhcpHost, error) {
	h := NewDhcpHost()
	if spec.Attrs != nil {
		if err := h.SetAttrs(spec.Attrs); err != nil {
			return nil, err
		}
	}
	if spec.LeaseAttrs != nil {
		if err := h.SetLeaseAttrs(spec.LeaseAttrs); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *DhcpHost) Attrs() (map[string]string, error)  { return h.GetAttrMap(dhcpHostAttrs) }
func (h *DhcpHost) SetAttrs(v map[string]string) error { return h.SetAttrMap(dhcpHostAttrs, v) }

func (h *DhcpHost) LeaseAttrs() (map[string]string, error) {
	return h.GetAttrMap(dhcpHostLeaseAttrs)
}

func (h *DhcpHost) SetLeaseAttrs(v map[string]string) error {
	return h.SetAttrMap(dhcpHostLeaseAttrs, v)
}
