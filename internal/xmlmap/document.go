// Package xmlmap maps object attributes onto locations in an in-memory
// XML document. Types embed Base and declare bindings (Attr, Text,
// AttrMap, Nest, List) as package-level descriptors; getters and
// setters route through the bindings so the document is always the
// single source of truth.
package xmlmap

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// Object is implemented by every document-backed type. Embedding Base
// satisfies it.
type Object interface {
	XMLBase() *Base
}

// Base is the document-backed core of a mapped object. A Base either
// owns its document outright or is a bound view whose root element
// lives inside another object's document. Mutations on a bound view
// write through to the owning document.
type Base struct {
	doc  *etree.Document // non-nil only when this object owns the document
	root *etree.Element
}

// Parse builds a Base owning a document parsed from text.
func Parse(text string) (Base, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return Base{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	root := doc.Root()
	if root == nil {
		return Base{}, fmt.Errorf("%w: document has no root element", ErrParse)
	}
	return Base{doc: doc, root: root}, nil
}

// MustParse is Parse for compile-time constant seed documents.
func MustParse(seed string) Base {
	b, err := Parse(seed)
	if err != nil {
		panic(fmt.Sprintf("xmlmap: bad seed document %q: %v", seed, err))
	}
	return b
}

// XMLBase returns the receiver, satisfying Object for embedders.
func (b *Base) XMLBase() *Base { return b }

// Root returns the root element of this object's fragment.
func (b *Base) Root() *etree.Element { return b.root }

// Bound reports whether this object is a view into another document.
func (b *Base) Bound() bool { return b.doc == nil }

// SetXML replaces the document wholesale with a parse of text. On
// parse failure the previous document is left untouched. A bound view
// becomes a standalone object owning the new document.
func (b *Base) SetXML(text string) error {
	nb, err := Parse(text)
	if err != nil {
		return err
	}
	b.doc = nb.doc
	b.root = nb.root
	return nil
}

// XML serializes this object's fragment.
func (b *Base) XML() (string, error) {
	if b.Bound() {
		// Serialize a copy of the subtree, the document belongs to
		// another object.
		doc := etree.NewDocument()
		doc.SetRoot(b.root.Copy())
		return doc.WriteToString()
	}
	return b.doc.WriteToString()
}

// Rebind turns this object into a view rooted at el, which must live
// inside another object's document.
func (b *Base) Rebind(el *etree.Element) {
	b.doc = nil
	b.root = el
}

// Detach removes the root element from its current document or parent
// and returns it for splicing elsewhere. The object stays attached to
// the same element and writes through wherever it lands.
func (b *Base) Detach() *etree.Element {
	if p := b.root.Parent(); p != nil {
		p.RemoveChild(b.root)
	}
	b.doc = nil
	return b.root
}

// Release gives up document ownership without moving the root,
// returning it for a caller-managed splice. Unlike Detach the element
// stays wherever it lives until the caller reparents it, so the
// enclosing document is untouched if the caller never does. The
// object becomes a view that writes through wherever the root ends
// up.
func (b *Base) Release() *etree.Element {
	b.doc = nil
	return b.root
}

// Copy returns a standalone deep clone. Mutating the clone never
// affects the original document.
func (b *Base) Copy() Base {
	doc := etree.NewDocument()
	doc.SetRoot(b.root.Copy())
	return Base{doc: doc, root: doc.Root()}
}

// Equal compares two fragments structurally: element tree, attribute
// sets and text content, ignoring attribute order and inter-element
// whitespace. State held outside the document (lifecycle flags) never
// participates.
func (b *Base) Equal(other *Base) bool {
	if other == nil {
		return false
	}
	var x, y strings.Builder
	canonicalize(&x, b.root)
	canonicalize(&y, other.root)
	return x.String() == y.String()
}

func canonicalize(sb *strings.Builder, el *etree.Element) {
	sb.WriteByte('<')
	sb.WriteString(el.Tag)
	keys := make([]string, 0, len(el.Attr))
	for _, a := range el.Attr {
		keys = append(keys, a.Key)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, el.SelectAttrValue(k, ""))
	}
	sb.WriteByte('>')
	if t := strings.TrimSpace(el.Text()); t != "" {
		sb.WriteString(t)
	}
	for _, child := range el.ChildElements() {
		canonicalize(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(el.Tag)
	sb.WriteByte('>')
}

// FindAll returns all elements matching a restricted slash path. The
// path "/" addresses the root itself.
func (b *Base) FindAll(path string) ([]*etree.Element, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	current := []*etree.Element{b.root}
	for _, seg := range segs {
		var next []*etree.Element
		for _, el := range current {
			next = append(next, el.SelectElements(seg)...)
		}
		current = next
	}
	return current, nil
}

// AppendAt splices el under the element at parentPath, creating the
// path if needed.
func (b *Base) AppendAt(parentPath string, el *etree.Element) error {
	parent, err := b.locateOrCreate(parentPath)
	if err != nil {
		return err
	}
	parent.AddChild(el)
	return nil
}

// RemoveAt deletes the index-th element matching path. An out-of-range
// index is logged and ignored, matching the tolerant delete used when
// pruning optional configuration.
func (b *Base) RemoveAt(path string, index int) error {
	els, err := b.FindAll(path)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(els) {
		log.Printf("Warning: no element %d at %s to remove", index, path)
		return nil
	}
	el := els[index]
	if el == b.root {
		return fmt.Errorf("cannot remove fragment root %s", path)
	}
	el.Parent().RemoveChild(el)
	return nil
}

// attrs returns a copy of el's attribute map.
func attrs(el *etree.Element) map[string]string {
	out := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		out[a.Key] = a.Value
	}
	return out
}
