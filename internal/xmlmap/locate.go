package xmlmap

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// splitPath validates and splits a restricted slash path. Paths are
// "/"-joined tag names only; "/" alone denotes the fragment root.
func splitPath(path string) ([]string, error) {
	if path == "" || path[0] != '/' {
		return nil, fmt.Errorf("invalid path %q: must start with /", path)
	}
	if path == "/" {
		return nil, nil
	}
	segs := strings.Split(path[1:], "/")
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}
	}
	return segs, nil
}

// locate resolves parentPath relative to the root for reading. Returns
// nil (and no error) when a segment is missing.
func (b *Base) locate(parentPath string) (*etree.Element, error) {
	segs, err := splitPath(parentPath)
	if err != nil {
		return nil, err
	}
	el := b.root
	for _, seg := range segs {
		el = el.SelectElement(seg)
		if el == nil {
			return nil, nil
		}
	}
	return el, nil
}

// locateOrCreate resolves parentPath for writing, creating missing
// intermediate elements. Repeated calls never duplicate a segment.
func (b *Base) locateOrCreate(parentPath string) (*etree.Element, error) {
	segs, err := splitPath(parentPath)
	if err != nil {
		return nil, err
	}
	el := b.root
	for _, seg := range segs {
		next := el.SelectElement(seg)
		if next == nil {
			next = el.CreateElement(seg)
		}
		el = next
	}
	return el, nil
}

// element resolves a (parentPath, tag) binding target for reading.
// When the parent is the fragment root and the tag names the root's
// own tag, the root itself is the target; this is how bindings address
// attributes of the schema root (e.g. tag "ip" on an <ip> fragment).
func (b *Base) element(parentPath, tag string) (*etree.Element, error) {
	parent, err := b.locate(parentPath)
	if err != nil || parent == nil {
		return nil, err
	}
	if parent == b.root && tag == b.root.Tag {
		return b.root, nil
	}
	return parent.SelectElement(tag), nil
}

// elementOrCreate resolves a binding target for writing.
func (b *Base) elementOrCreate(parentPath, tag string) (*etree.Element, error) {
	parent, err := b.locateOrCreate(parentPath)
	if err != nil {
		return nil, err
	}
	if parent == b.root && tag == b.root.Tag {
		return b.root, nil
	}
	el := parent.SelectElement(tag)
	if el == nil {
		el = parent.CreateElement(tag)
	}
	return el, nil
}
