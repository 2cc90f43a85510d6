package xmlmap

import (
	"fmt"
	"sort"
)

// Attr binds a slot to one XML attribute at ParentPath/Tag.
type Attr struct {
	ParentPath string
	Tag        string
	Name       string
}

// GetAttr returns the bound attribute value, or ErrNotSet when the
// element or attribute is absent.
func (b *Base) GetAttr(a Attr) (string, error) {
	el, err := b.element(a.ParentPath, a.Tag)
	if err != nil {
		return "", err
	}
	if el == nil {
		return "", fmt.Errorf("%w: %s%s@%s", ErrNotSet, a.ParentPath, a.Tag, a.Name)
	}
	attr := el.SelectAttr(a.Name)
	if attr == nil {
		return "", fmt.Errorf("%w: %s%s@%s", ErrNotSet, a.ParentPath, a.Tag, a.Name)
	}
	return attr.Value, nil
}

// SetAttr writes the bound attribute, creating the element and any
// missing intermediates.
func (b *Base) SetAttr(a Attr, value string) error {
	el, err := b.elementOrCreate(a.ParentPath, a.Tag)
	if err != nil {
		return err
	}
	el.CreateAttr(a.Name, value)
	return nil
}

// DelAttr removes only the attribute, leaving the element in place.
// Fails with ErrNotSet when the element or attribute is absent.
func (b *Base) DelAttr(a Attr) error {
	el, err := b.element(a.ParentPath, a.Tag)
	if err != nil {
		return err
	}
	if el == nil || el.RemoveAttr(a.Name) == nil {
		return fmt.Errorf("%w: %s%s@%s", ErrNotSet, a.ParentPath, a.Tag, a.Name)
	}
	return nil
}

// Text binds a slot to an element's text content.
type Text struct {
	ParentPath string
	Tag        string
}

// GetText returns the bound element's text, or ErrNotSet when the
// element is absent.
func (b *Base) GetText(t Text) (string, error) {
	el, err := b.element(t.ParentPath, t.Tag)
	if err != nil {
		return "", err
	}
	if el == nil {
		return "", fmt.Errorf("%w: %s%s", ErrNotSet, t.ParentPath, t.Tag)
	}
	return el.Text(), nil
}

// SetText writes the bound element's text, creating the element.
func (b *Base) SetText(t Text, value string) error {
	el, err := b.elementOrCreate(t.ParentPath, t.Tag)
	if err != nil {
		return err
	}
	el.SetText(value)
	return nil
}

// DelText removes the bound element. When the binding targets the
// fragment root the text is cleared instead, since an object cannot
// remove its own root.
func (b *Base) DelText(t Text) error {
	el, err := b.element(t.ParentPath, t.Tag)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("%w: %s%s", ErrNotSet, t.ParentPath, t.Tag)
	}
	if el == b.root {
		el.SetText("")
		return nil
	}
	el.Parent().RemoveChild(el)
	return nil
}

// AttrMap binds a slot to an element's full attribute map.
type AttrMap struct {
	ParentPath string
	Tag        string
}

// GetAttrMap returns a copy of the bound element's attributes. Fails
// with ErrNotFound when the element is absent. Mutating the returned
// map does not affect the document.
func (b *Base) GetAttrMap(m AttrMap) (map[string]string, error) {
	el, err := b.element(m.ParentPath, m.Tag)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s%s", ErrNotFound, m.ParentPath, m.Tag)
	}
	return attrs(el), nil
}

// SetAttrMap replaces the bound element's entire attribute set.
// Attributes are written in sorted key order so serialization is
// deterministic.
func (b *Base) SetAttrMap(m AttrMap, values map[string]string) error {
	el, err := b.elementOrCreate(m.ParentPath, m.Tag)
	if err != nil {
		return err
	}
	for k := range attrs(el) {
		el.RemoveAttr(k)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		el.CreateAttr(k, values[k])
	}
	return nil
}

// DelAttrMap removes the bound element. Fails with ErrNotFound when
// absent, and refuses to remove the fragment root.
func (b *Base) DelAttrMap(m AttrMap) error {
	el, err := b.element(m.ParentPath, m.Tag)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("%w: %s%s", ErrNotFound, m.ParentPath, m.Tag)
	}
	if el == b.root {
		return fmt.Errorf("cannot remove fragment root %s", m.Tag)
	}
	el.Parent().RemoveChild(el)
	return nil
}
