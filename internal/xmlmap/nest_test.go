package xmlmap

import (
	"errors"
	"strings"
	"testing"
)

// fragment is a minimal document-backed type for nest tests.
type fragment struct{ Base }

func newFragment(seed string) *fragment {
	return &fragment{Base: MustParse(seed)}
}

func TestNest_GetAbsent(t *testing.T) {
	b := MustParse("<ip/>")
	n := Nest{ParentPath: "/dhcp", Tag: "range", New: func() Object { return newFragment("<range/>") }}
	if _, err := b.GetNest(n); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNest_SpliceAndWriteThrough(t *testing.T) {
	parent := MustParse("<ip/>")
	n := Nest{ParentPath: "/dhcp", Tag: "range", New: func() Object { return newFragment("<range/>") }}

	child := newFragment("<range start='192.168.122.2' end='192.168.122.254'/>")
	if err := parent.SetNest(n, child); err != nil {
		t.Fatalf("SetNest failed: %v", err)
	}

	out, _ := parent.XML()
	if !strings.Contains(out, "<dhcp><range start=") {
		t.Errorf("expected spliced range under /dhcp, got %s", out)
	}

	// The child is now a live view: writes land in the parent document.
	if err := child.SetAttr(Attr{ParentPath: "/", Tag: "range", Name: "end"}, "192.168.122.100"); err != nil {
		t.Fatalf("SetAttr on spliced child failed: %v", err)
	}
	out, _ = parent.XML()
	if !strings.Contains(out, `end="192.168.122.100"`) {
		t.Errorf("child mutation did not write through, got %s", out)
	}

	// Reading back yields an object bound to the same subtree.
	got, err := parent.GetNest(n)
	if err != nil {
		t.Fatalf("GetNest failed: %v", err)
	}
	if got.XMLBase().Root() != child.Root() {
		t.Error("GetNest should bind to the spliced element")
	}
}

func TestNest_SetReplacesExisting(t *testing.T) {
	parent := MustParse("<ip><dhcp><range start='a' end='b'/></dhcp></ip>")
	n := Nest{ParentPath: "/dhcp", Tag: "range", New: func() Object { return newFragment("<range/>") }}

	repl := newFragment("<range start='c' end='d'/>")
	if err := parent.SetNest(n, repl); err != nil {
		t.Fatalf("SetNest failed: %v", err)
	}
	els, err := parent.FindAll("/dhcp/range")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(els) != 1 {
		t.Fatalf("expected single range after replacement, got %d", len(els))
	}
	if els[0].SelectAttrValue("start", "") != "c" {
		t.Errorf("old range survived replacement: %v", els[0].Attr)
	}
}

func TestNest_SetRejectsWrongRootTag(t *testing.T) {
	parent := MustParse("<ip/>")
	n := Nest{ParentPath: "/dhcp", Tag: "range", New: func() Object { return newFragment("<range/>") }}

	wrong := newFragment("<host/>")
	if err := parent.SetNest(n, wrong); !errors.Is(err, ErrTypeConflict) {
		t.Errorf("expected ErrTypeConflict for mismatched root tag, got %v", err)
	}
}
