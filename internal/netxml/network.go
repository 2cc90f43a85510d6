package netxml

import (
	"fmt"
	"log"
	"strings"

	"github.com/beevik/etree"

	"github.com/kmahoney/netforge/internal/xmlmap"
)

// Network is the document half of a virtual network: the <network>
// root with all its bindings. Lifecycle queries and commands live in
// lifecycle.go and call out through the attached Tool.
type Network struct {
	xmlmap.Base

	tool Tool
}

var (
	netConnection      = xmlmap.Attr{ParentPath: "/", Tag: "network", Name: "connections"}
	netName            = xmlmap.Text{ParentPath: "/", Tag: "name"}
	netUUID            = xmlmap.Text{ParentPath: "/", Tag: "uuid"}
	netMAC             = xmlmap.Attr{ParentPath: "/", Tag: "mac", Name: "address"}
	netMTU             = xmlmap.Attr{ParentPath: "/", Tag: "mtu", Name: "size"}
	netDomainName      = xmlmap.Attr{ParentPath: "/", Tag: "domain", Name: "name"}
	netVirtualportType = xmlmap.Attr{ParentPath: "/", Tag: "virtualport", Name: "type"}

	netForward           = xmlmap.AttrMap{ParentPath: "/", Tag: "forward"}
	netNATAttrs          = xmlmap.AttrMap{ParentPath: "/forward", Tag: "nat"}
	netNATPort           = xmlmap.AttrMap{ParentPath: "/forward/nat", Tag: "port"}
	netPF                = xmlmap.AttrMap{ParentPath: "/forward", Tag: "pf"}
	netDriver            = xmlmap.AttrMap{ParentPath: "/", Tag: "driver"}
	netBridge            = xmlmap.AttrMap{ParentPath: "/", Tag: "bridge"}
	netDomain            = xmlmap.AttrMap{ParentPath: "/", Tag: "domain"}
	netPort              = xmlmap.AttrMap{ParentPath: "/", Tag: "port"}
	netBandwidthInbound  = xmlmap.AttrMap{ParentPath: "/bandwidth", Tag: "inbound"}
	netBandwidthOutbound = xmlmap.AttrMap{ParentPath: "/bandwidth", Tag: "outbound"}

	netForwardInterfaces = xmlmap.DictList("/forward", "interface")
	netVFs               = xmlmap.DictList("/forward", "address")
	netRoutes            = xmlmap.DictList("/", "route")

	netIPs = xmlmap.List{
		ParentPath: "/",
		Tag:        "ip",
		From:       marshalFromIP,
		To:         marshalToIP,
	}

	netPortgroups = xmlmap.List{
		ParentPath: "/",
		Tag:        "portgroup",
		From:       marshalFromPortgroup,
		To:         marshalToPortgroup,
	}

	netDNS = xmlmap.Nest{
		ParentPath: "/",
		Tag:        "dns",
		New:        func() xmlmap.Object { return NewDNS() },
	}
)

// NewNetwork creates a network document seeded with a name. An empty
// name falls back to "default". The tool handles lifecycle callouts
// and may be nil for pure document work.
func NewNetwork(name string, tool Tool) *Network {
	if name == "" {
		name = "default"
	}
	seed := fmt.Sprintf("<network><name>%s</name></network>", name)
	return &Network{Base: xmlmap.MustParse(seed), tool: tool}
}

// Tool returns the attached lifecycle tool.
func (n *Network) Tool() Tool { return n.tool }

// SetTool attaches a lifecycle tool.
func (n *Network) SetTool(tool Tool) { n.tool = tool }

// Clone returns a deep copy with an independent document. The tool
// attachment is shared; the documents are not.
func (n *Network) Clone() *Network {
	return &Network{Base: n.Base.Copy(), tool: n.tool}
}

func (n *Network) Name() (string, error)  { return n.GetText(netName) }
func (n *Network) SetName(v string) error { return n.SetText(netName, v) }

func (n *Network) UUID() (string, error)  { return n.GetText(netUUID) }
func (n *Network) SetUUID(v string) error { return n.SetText(netUUID, v) }

func (n *Network) MAC() (string, error)  { return n.GetAttr(netMAC) }
func (n *Network) SetMAC(v string) error { return n.SetAttr(netMAC, v) }

// Connection returns the "connections" counter libvirt reports on the
// root element of an active network.
func (n *Network) Connection() (string, error) { return n.GetAttr(netConnection) }

func (n *Network) MTU() (string, error)  { return n.GetAttr(netMTU) }
func (n *Network) SetMTU(v string) error { return n.SetAttr(netMTU, v) }

func (n *Network) DomainName() (string, error)  { return n.GetAttr(netDomainName) }
func (n *Network) SetDomainName(v string) error { return n.SetAttr(netDomainName, v) }

func (n *Network) VirtualportType() (string, error)  { return n.GetAttr(netVirtualportType) }
func (n *Network) SetVirtualportType(v string) error { return n.SetAttr(netVirtualportType, v) }

func (n *Network) Forward() (map[string]string, error)  { return n.GetAttrMap(netForward) }
func (n *Network) SetForward(v map[string]string) error { return n.SetAttrMap(netForward, v) }
func (n *Network) DelForward() error                    { return n.DelAttrMap(netForward) }

func (n *Network) NATAttrs() (map[string]string, error)  { return n.GetAttrMap(netNATAttrs) }
func (n *Network) SetNATAttrs(v map[string]string) error { return n.SetAttrMap(netNATAttrs, v) }

func (n *Network) NATPort() (map[string]string, error)  { return n.GetAttrMap(netNATPort) }
func (n *Network) SetNATPort(v map[string]string) error { return n.SetAttrMap(netNATPort, v) }

func (n *Network) PF() (map[string]string, error)  { return n.GetAttrMap(netPF) }
func (n *Network) SetPF(v map[string]string) error { return n.SetAttrMap(netPF, v) }

func (n *Network) Driver() (map[string]string, error)  { return n.GetAttrMap(netDriver) }
func (n *Network) SetDriver(v map[string]string) error { return n.SetAttrMap(netDriver, v) }

func (n *Network) Bridge() (map[string]string, error)  { return n.GetAttrMap(netBridge) }
func (n *Network) SetBridge(v map[string]string) error { return n.SetAttrMap(netBridge, v) }

func (n *Network) Domain() (map[string]string, error)  { return n.GetAttrMap(netDomain) }
func (n *Network) SetDomain(v map[string]string) error { return n.SetAttrMap(netDomain, v) }

func (n *Network) Port() (map[string]string, error)  { return n.GetAttrMap(netPort) }
func (n *Network) SetPort(v map[string]string) error { return n.SetAttrMap(netPort, v) }

func (n *Network) BandwidthInbound() (map[string]string, error) {
	return n.GetAttrMap(netBandwidthInbound)
}

func (n *Network) SetBandwidthInbound(v map[string]string) error {
	return n.SetAttrMap(netBandwidthInbound, v)
}

func (n *Network) BandwidthOutbound() (map[string]string, error) {
	return n.GetAttrMap(netBandwidthOutbound)
}

func (n *Network) SetBandwidthOutbound(v map[string]string) error {
	return n.SetAttrMap(netBandwidthOutbound, v)
}

// ForwardInterfaces returns forward/interface attribute maps in
// document order.
func (n *Network) ForwardInterfaces() ([]map[string]string, error) {
	return n.dictList(netForwardInterfaces)
}

func (n *Network) SetForwardInterfaces(v []map[string]string) error {
	return n.setDictList(netForwardInterfaces, v)
}

// VFs returns the forward/address entries (SR-IOV virtual functions)
// as attribute maps in document order.
func (n *Network) VFs() ([]map[string]string, error) { return n.dictList(netVFs) }

func (n *Network) SetVFs(v []map[string]string) error { return n.setDictList(netVFs, v) }

// Routes returns the static <route> entries in document order.
func (n *Network) Routes() ([]map[string]string, error) { return n.dictList(netRoutes) }

func (n *Network) SetRoutes(v []map[string]string) error { return n.setDictList(netRoutes, v) }

func (n *Network) dictList(l xmlmap.List) ([]map[string]string, error) {
	items, err := n.GetList(l)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]string, len(items))
	for i, item := range items {
		out[i] = item.(map[string]string)
	}
	return out, nil
}

func (n *Network) setDictList(l xmlmap.List, v []map[string]string) error {
	items := make([]any, len(v))
	for i, m := range v {
		items[i] = m
	}
	return n.SetList(l, items)
}

// IPs returns the <ip> blocks in document order, bound as live views.
func (n *Network) IPs() ([]*IPBlock, error) {
	items, err := n.GetList(netIPs)
	if err != nil {
		return nil, err
	}
	ips := make([]*IPBlock, len(items))
	for i, item := range items {
		ips[i] = item.(*IPBlock)
	}
	return ips, nil
}

// SetIPs replaces all <ip> blocks. Items may be *IPBlock instances or
// IPBlockSpec attribute bags.
func (n *Network) SetIPs(items []any) error { return n.SetList(netIPs, items) }

// AddIP splices one IP block to the end of the document without
// touching existing children.
func (n *Network) AddIP(ip *IPBlock) error {
	return n.AppendAt("/", ip.Detach())
}

// Portgroups returns the <portgroup> entries in document order.
func (n *Network) Portgroups() ([]*Portgroup, error) {
	items, err := n.GetList(netPortgroups)
	if err != nil {
		return nil, err
	}
	pgs := make([]*Portgroup, len(items))
	for i, item := range items {
		pgs[i] = item.(*Portgroup)
	}
	return pgs, nil
}

// SetPortgroups replaces all portgroups. Items may be *Portgroup
// instances or PortgroupSpec attribute bags.
func (n *Network) SetPortgroups(items []any) error { return n.SetList(netPortgroups, items) }

// DNS returns the <dns> block bound as a live view.
func (n *Network) DNS() (*DNS, error) {
	obj, err := n.GetNest(netDNS)
	if err != nil {
		return nil, err
	}
	return obj.(*DNS), nil
}

// SetDNS splices a DNS block into the document.
func (n *Network) SetDNS(d *DNS) error { return n.SetNest(netDNS, d) }

// RemoveElement deletes the index-th element at a path like
// "/ip/dhcp". Missing elements are logged and ignored.
func (n *Network) RemoveElement(path string, index int) error {
	return n.RemoveAt(path, index)
}

// ForwardInterfaceConnections returns the "connections" attribute of
// each forward/interface element, in document order. Interfaces
// without the attribute contribute an empty string.
func (n *Network) ForwardInterfaceConnections() ([]string, error) {
	els, err := n.FindAll("/forward/interface")
	if err != nil {
		return nil, err
	}
	conns := make([]string, len(els))
	for i, el := range els {
		conns[i] = el.SelectAttrValue("connections", "")
	}
	return conns, nil
}

// DebugXML dumps the document to the log, one line per line of XML.
func (n *Network) DebugXML() {
	text, err := n.XML()
	if err != nil {
		log.Printf("Warning: failed to serialize network XML: %v", err)
		return
	}
	for _, line := range strings.Split(text, "\n") {
		log.Printf("Network XML: %s", line)
	}
}

func marshalFromIP(item any, _ int) (*etree.Element, error) {
	switch v := item.(type) {
	case *IPBlock:
		return v.Release(), nil
	case IPBlockSpec:
		ip, err := NewIPBlockFromSpec(v)
		if err != nil {
			return nil, err
		}
		return ip.Release(), nil
	default:
		return nil, fmt.Errorf("%w: expected an ip block instance or spec, not %T",
			xmlmap.ErrTypeConflict, item)
	}
}

func marshalToIP(tag string, el *etree.Element, _ int) (any, bool, error) {
	if tag != "ip" {
		return nil, false, nil
	}
	ip := NewIPBlock("", "")
	ip.Rebind(el)
	return ip, true, nil
}

func marshalFromPortgroup(item any, _ int) (*etree.Element, error) {
	switch v := item.(type) {
	case *Portgroup:
		return v.Release(), nil
	case PortgroupSpec:
		pg, err := NewPortgroupFromSpec(v)
		if err != nil {
			return nil, err
		}
		return pg.Release(), nil
	default:
		return nil, fmt.Errorf("%w: expected a portgroup instance or spec, not %T",
			xmlmap.ErrTypeConflict, item)
	}
}

func marshalToPortgroup(tag string, el *etree.Element, _ int) (any, bool, error) {
	if tag != "portgroup" {
		return nil, false, nil
	}
	pg := NewPortgroup()
	pg.Rebind(el)
	return pg, true, nil
}
