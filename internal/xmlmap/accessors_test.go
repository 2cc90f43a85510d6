package xmlmap

import (
	"errors"
	"strings"
	"testing"
)

func TestAttr_RoundTrip(t *testing.T) {
	b := MustParse("<network/>")
	mac := Attr{ParentPath: "/", Tag: "mac", Name: "address"}

	if err := b.SetAttr(mac, "52:54:00:12:34:56"); err != nil {
		t.Fatalf("SetAttr failed: %v", err)
	}
	got, err := b.GetAttr(mac)
	if err != nil {
		t.Fatalf("GetAttr failed: %v", err)
	}
	if got != "52:54:00:12:34:56" {
		t.Errorf("expected mac round-trip, got %q", got)
	}
}

func TestAttr_OnFragmentRoot(t *testing.T) {
	// Binding tag equal to the root tag addresses the root element.
	b := MustParse("<ip address='192.168.122.1' netmask='255.255.255.0'/>")
	netmask := Attr{ParentPath: "/", Tag: "ip", Name: "netmask"}

	got, err := b.GetAttr(netmask)
	if err != nil {
		t.Fatalf("GetAttr failed: %v", err)
	}
	if got != "255.255.255.0" {
		t.Errorf("expected netmask, got %q", got)
	}

	if err := b.DelAttr(netmask); err != nil {
		t.Fatalf("DelAttr failed: %v", err)
	}
	out, _ := b.XML()
	if strings.Contains(out, "netmask") {
		t.Errorf("netmask attribute should be gone, got %s", out)
	}
	if !strings.Contains(out, "address") {
		t.Errorf("address attribute should survive, got %s", out)
	}
}

func TestAttr_GetAbsent(t *testing.T) {
	b := MustParse("<network/>")
	a := Attr{ParentPath: "/", Tag: "mtu", Name: "size"}

	_, err := b.GetAttr(a)
	if !errors.Is(err, ErrNotSet) {
		t.Errorf("expected ErrNotSet for absent element, got %v", err)
	}

	if err := b.DelAttr(a); !errors.Is(err, ErrNotSet) {
		t.Errorf("expected ErrNotSet deleting absent attribute, got %v", err)
	}
}

func TestAttr_DeleteLeavesElement(t *testing.T) {
	b := MustParse("<network><mtu size='1500'/></network>")
	a := Attr{ParentPath: "/", Tag: "mtu", Name: "size"}

	if err := b.DelAttr(a); err != nil {
		t.Fatalf("DelAttr failed: %v", err)
	}
	out, _ := b.XML()
	if !strings.Contains(out, "<mtu/>") && !strings.Contains(out, "<mtu>") {
		t.Errorf("mtu element should remain after attribute delete, got %s", out)
	}
	if _, err := b.GetAttr(a); !errors.Is(err, ErrNotSet) {
		t.Errorf("expected ErrNotSet after delete, got %v", err)
	}
}

func TestAttr_SetCreatesIntermediates(t *testing.T) {
	b := MustParse("<ip/>")
	a := Attr{ParentPath: "/dhcp", Tag: "bootp", Name: "file"}

	if err := b.SetAttr(a, "pxelinux.0"); err != nil {
		t.Fatalf("SetAttr failed: %v", err)
	}
	got, err := b.GetAttr(a)
	if err != nil {
		t.Fatalf("GetAttr failed: %v", err)
	}
	if got != "pxelinux.0" {
		t.Errorf("expected bootp file, got %q", got)
	}
}

func TestText_RoundTrip(t *testing.T) {
	b := MustParse("<network/>")
	name := Text{ParentPath: "/", Tag: "name"}

	if err := b.SetText(name, "default"); err != nil {
		t.Fatalf("SetText failed: %v", err)
	}
	got, err := b.GetText(name)
	if err != nil {
		t.Fatalf("GetText failed: %v", err)
	}
	if got != "default" {
		t.Errorf("expected 'default', got %q", got)
	}

	if err := b.DelText(name); err != nil {
		t.Fatalf("DelText failed: %v", err)
	}
	if _, err := b.GetText(name); !errors.Is(err, ErrNotSet) {
		t.Errorf("expected ErrNotSet after delete, got %v", err)
	}
}

func TestText_Delete(t *testing.T) {
	b := MustParse("<network><name>net0</name><uuid>abc</uuid></network>")
	name := Text{ParentPath: "/", Tag: "name"}

	// Deleting a child binding removes the element itself.
	if err := b.DelText(name); err != nil {
		t.Fatalf("DelText failed: %v", err)
	}
	out, _ := b.XML()
	if strings.Contains(out, "<name") {
		t.Errorf("name element should be removed, got %s", out)
	}
	if !strings.Contains(out, "<uuid>abc</uuid>") {
		t.Errorf("uuid sibling should survive, got %s", out)
	}
	if _, err := b.GetText(name); !errors.Is(err, ErrNotSet) {
		t.Errorf("expected ErrNotSet after delete, got %v", err)
	}
	if err := b.DelText(name); !errors.Is(err, ErrNotSet) {
		t.Errorf("expected ErrNotSet deleting twice, got %v", err)
	}
}

func TestText_DeleteAtRootClearsText(t *testing.T) {
	b := MustParse("<hostname>myhost</hostname>")
	hn := Text{ParentPath: "/", Tag: "hostname"}

	// A binding on the fragment root cannot remove it, the text is
	// cleared instead.
	if err := b.DelText(hn); err != nil {
		t.Fatalf("DelText failed: %v", err)
	}
	got, err := b.GetText(hn)
	if err != nil {
		t.Fatalf("GetText failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected cleared text, got %q", got)
	}
	out, _ := b.XML()
	if !strings.Contains(out, "hostname") {
		t.Errorf("root element must survive its own delete, got %s", out)
	}
}

func TestText_GetAbsent(t *testing.T) {
	b := MustParse("<network/>")
	if _, err := b.GetText(Text{ParentPath: "/", Tag: "uuid"}); !errors.Is(err, ErrNotSet) {
		t.Errorf("expected ErrNotSet, got %v", err)
	}
}

func TestAttrMap_RoundTrip(t *testing.T) {
	b := MustParse("<network/>")
	bridge := AttrMap{ParentPath: "/", Tag: "bridge"}

	want := map[string]string{"name": "virbr0", "stp": "on", "delay": "0"}
	if err := b.SetAttrMap(bridge, want); err != nil {
		t.Fatalf("SetAttrMap failed: %v", err)
	}
	got, err := b.GetAttrMap(bridge)
	if err != nil {
		t.Fatalf("GetAttrMap failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d attrs, got %d", len(want), len(got))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("attr %s: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestAttrMap_GetReturnsCopy(t *testing.T) {
	b := MustParse("<network><bridge name='virbr0'/></network>")
	bridge := AttrMap{ParentPath: "/", Tag: "bridge"}

	got, err := b.GetAttrMap(bridge)
	if err != nil {
		t.Fatalf("GetAttrMap failed: %v", err)
	}
	got["name"] = "tampered"

	again, err := b.GetAttrMap(bridge)
	if err != nil {
		t.Fatalf("GetAttrMap failed: %v", err)
	}
	if again["name"] != "virbr0" {
		t.Errorf("mutating the returned map must not affect the document, got %q", again["name"])
	}
}

func TestAttrMap_SetReplacesWholeMap(t *testing.T) {
	b := MustParse("<network><bridge name='virbr0' stp='on'/></network>")
	bridge := AttrMap{ParentPath: "/", Tag: "bridge"}

	if err := b.SetAttrMap(bridge, map[string]string{"name": "virbr1"}); err != nil {
		t.Fatalf("SetAttrMap failed: %v", err)
	}
	got, err := b.GetAttrMap(bridge)
	if err != nil {
		t.Fatalf("GetAttrMap failed: %v", err)
	}
	if _, ok := got["stp"]; ok {
		t.Error("stp should have been dropped by the full replacement")
	}
	if got["name"] != "virbr1" {
		t.Errorf("expected name virbr1, got %q", got["name"])
	}
}

func TestAttrMap_DeleteRemovesElement(t *testing.T) {
	b := MustParse("<network><bridge name='virbr0'/></network>")
	bridge := AttrMap{ParentPath: "/", Tag: "bridge"}

	if err := b.DelAttrMap(bridge); err != nil {
		t.Fatalf("DelAttrMap failed: %v", err)
	}
	if _, err := b.GetAttrMap(bridge); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
