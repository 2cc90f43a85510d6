package xmlmap

import (
	"fmt"
	"sort"

	"github.com/beevik/etree"
)

// MarshalFromFunc converts one list item into its element form. It
// must fail with ErrTypeConflict (wrapped) for unsupported item types,
// and must not modify any document: the returned element may still be
// attached wherever it lives, the setter splices it during the write
// phase.
type MarshalFromFunc func(item any, index int) (*etree.Element, error)

// MarshalToFunc converts one child element back into a list item.
// Returning ok=false skips the element: it belongs to another binding
// sharing the same parent.
type MarshalToFunc func(tag string, el *etree.Element, index int) (item any, ok bool, err error)

// List binds a slot to the repeated children of ParentPath carrying
// Tag. A list slot is not stored separately: it is the tag-filtered,
// order-preserving projection of the parent's children.
type List struct {
	ParentPath string
	Tag        string
	From       MarshalFromFunc
	To         MarshalToFunc
}

// GetList scans the parent's children in document order, converting
// the ones this binding owns. Fails with ErrNotFound when the parent
// path is absent.
func (b *Base) GetList(l List) ([]any, error) {
	parent, err := b.locate(l.ParentPath)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, l.ParentPath)
	}
	var out []any
	for i, child := range parent.ChildElements() {
		item, ok, err := l.To(child.Tag, child, i)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// SetList replaces all children owned by this binding with items, in
// order. Children of other tags under the same parent are untouched.
// All items are converted before the document is modified, so a
// conversion failure leaves the document as it was. Elements still
// attached elsewhere, live views included, are spliced in during the
// write phase.
func (b *Base) SetList(l List, items []any) error {
	els := make([]*etree.Element, len(items))
	for i, item := range items {
		el, err := l.From(item, i)
		if err != nil {
			return err
		}
		els[i] = el
	}
	parent, err := b.locateOrCreate(l.ParentPath)
	if err != nil {
		return err
	}
	for _, old := range parent.SelectElements(l.Tag) {
		parent.RemoveChild(old)
	}
	for _, el := range els {
		// AddChild reparents an attached element.
		parent.AddChild(el)
	}
	return nil
}

// AppendToList adds one item without disturbing existing children.
func (b *Base) AppendToList(l List, item any) error {
	el, err := l.From(item, 0)
	if err != nil {
		return err
	}
	parent, err := b.locateOrCreate(l.ParentPath)
	if err != nil {
		return err
	}
	parent.AddChild(el)
	return nil
}

// DictList builds a List whose items are plain attribute maps, the
// common case for flat repeated tags like <forwarder> or <route>.
func DictList(parentPath, tag string) List {
	return List{
		ParentPath: parentPath,
		Tag:        tag,
		From: func(item any, _ int) (*etree.Element, error) {
			m, ok := item.(map[string]string)
			if !ok {
				return nil, fmt.Errorf("%w: expected map[string]string for <%s>, not %T",
					ErrTypeConflict, tag, item)
			}
			el := etree.NewElement(tag)
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				el.CreateAttr(k, m[k])
			}
			return el, nil
		},
		To: func(t string, el *etree.Element, _ int) (any, bool, error) {
			if t != tag {
				return nil, false, nil
			}
			return attrs(el), true, nil
		},
	}
}
