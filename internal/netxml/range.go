package netxml

import "github.com/kmahoney/netforge/internal/xmlmap"

// AddressRange is the <range> element of ip/dhcp, optionally carrying
// lease information.
type AddressRange struct {
	xmlmap.Base
}

var (
	rangeAttrs      = xmlmap.AttrMap{ParentPath: "/", Tag: "range"}
	rangeLeaseAttrs = xmlmap.AttrMap{ParentPath: "/", Tag: "lease"}
)

// AddressRangeSpec is the attribute-bag form of an AddressRange,
// accepted by dhcp setters in place of a built instance.
type AddressRangeSpec struct {
	Attrs      map[string]string
	LeaseAttrs map[string]string
}

// NewAddressRange creates an empty <range/> fragment.
func NewAddressRange() *AddressRange {
	return &AddressRange{Base: xmlmap.MustParse("<range/>")}
}

// NewAddressRangeFromSpec builds an AddressRange from its spec.
func NewAddressRangeFromSpec(spec AddressRangeSpec) (*AddressRange, error) {
	r := NewAddressRange()
	if spec.Attrs != nil {
		if err := r.SetAttrs(spec.Attrs); err != nil {
			return nil, err
		}
	}
	if spec.LeaseAttrs != nil {
		if err := r.SetLeaseAttrs(spec.LeaseAttrs); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *AddressRange) Attrs() (map[string]string, error)  { return r.GetAttrMap(rangeAttrs) }
func (r *AddressRange) SetAttrs(v map[string]string) error { return r.SetAttrMap(rangeAttrs, v) }

func (r *AddressRange) LeaseAttrs() (map[string]string, error) {
	return r.GetAttrMap(rangeLeaseAttrs)
}

func (r *AddressRange) SetLeaseAttrs(v map[string]string) error {
	return r.SetAttrMap(rangeLeaseAttrs, v)
}

func (r *AddressRange) DelLeaseAttrs() error { return r.DelAttrMap(rangeLeaseAttrs) }
