package netxml

import "github.com/kmahoney/netforge/internal/xmlmap"

// Portgroup is the <portgroup> element of a network: a named bundle of
// interface configuration guests can reference at attach time.
type Portgroup struct {
	xmlmap.Base
}

var (
	pgName             = xmlmap.Attr{ParentPath: "/", Tag: "portgroup", Name: "name"}
	pgDefault          = xmlmap.Attr{ParentPath: "/", Tag: "portgroup", Name: "default"}
	pgVirtualportType  = xmlmap.Attr{ParentPath: "/", Tag: "virtualport", Name: "type"}
	pgBandwidthInbound = xmlmap.AttrMap{ParentPath: "/bandwidth", Tag: "inbound"}
	pgBandwidthOutbnd  = xmlmap.AttrMap{ParentPath: "/bandwidth", Tag: "outbound"}
	pgVlanTag          = xmlmap.AttrMap{ParentPath: "/vlan", Tag: "tag"}
)

// PortgroupSpec is the attribute-bag form of a Portgroup.
type PortgroupSpec struct {
	Name              string
	Default           string
	VirtualportType   string
	BandwidthInbound  map[string]string
	BandwidthOutbound map[string]string
	VlanTag           map[string]string
}

// NewPortgroup creates an empty <portgroup> fragment.
func NewPortgroup() *Portgroup {
	return &Portgroup{Base: xmlmap.MustParse("<portgroup></portgroup>")}
}

// NewPortgroupFromSpec builds a Portgroup from its spec.
func NewPortgroupFromSpec(spec PortgroupSpec) (*Portgroup, error) {
	pg := NewPortgroup()
	if spec.Name != "" {
		if err := pg.SetName(spec.Name); err != nil {
			return nil, err
		}
	}
	if spec.Default != "" {
		if err := pg.SetDefault(spec.Default); err != nil {
			return nil, err
		}
	}
	if spec.VirtualportType != "" {
		if err := pg.SetVirtualportType(spec.VirtualportType); err != nil {
			return nil, err
		}
	}
	if spec.BandwidthInbound != nil {
		if err := pg.SetBandwidthInbound(spec.BandwidthInbound); err != nil {
			return nil, err
		}
	}
	if spec.BandwidthOutbound != nil {
		if err := pg.SetBandwidthOutbound(spec.BandwidthOutbound); err != nil {
			return nil, err
		}
	}
	if spec.VlanTag != nil {
		if err := pg.SetVlanTag(spec.VlanTag); err != nil {
			return nil, err
		}
	}
	return pg, nil
}

func (p *Portgroup) Name() (string, error)  { return p.GetAttr(pgName) }
func (p *Portgroup) SetName(v string) error { return p.SetAttr(pgName, v) }

func (p *Portgroup) Default() (string, error)  { return p.GetAttr(pgDefault) }
func (p *Portgroup) SetDefault(v string) error { return p.SetAttr(pgDefault, v) }

func (p *Portgroup) VirtualportType() (string, error)  { return p.GetAttr(pgVirtualportType) }
func (p *Portgroup) SetVirtualportType(v string) error { return p.SetAttr(pgVirtualportType, v) }

func (p *Portgroup) BandwidthInbound() (map[string]string, error) {
	return p.GetAttrMap(pgBandwidthInbound)
}

func (p *Portgroup) SetBandwidthInbound(v map[string]string) error {
	return p.SetAttrMap(pgBandwidthInbound, v)
}

func (p *Portgroup) BandwidthOutbound() (map[string]string, error) {
	return p.GetAttrMap(pgBandwidthOutbnd)
}

func (p *Portgroup) SetBandwidthOutbound(v map[string]string) error {
	return p.SetAttrMap(pgBandwidthOutbnd, v)
}

func (p *Portgroup) VlanTag() (map[string]string, error)  { return p.GetAttrMap(pgVlanTag) }
func (p *Portgroup) SetVlanTag(v map[string]string) error { return p.SetAttrMap(pgVlanTag, v) }
