package xmlmap

import "fmt"

// Nest binds a slot to a child object rooted at ParentPath/Tag. New
// constructs an empty instance of the child type; GetNest rebinds it
// onto the subtree so mutations write through to this document.
type Nest struct {
	ParentPath string
	Tag        string
	New        func() Object
}

// GetNest returns a child object bound to the subtree, or ErrNotFound
// when the element is absent.
func (b *Base) GetNest(n Nest) (Object, error) {
	el, err := b.element(n.ParentPath, n.Tag)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s%s", ErrNotFound, n.ParentPath, n.Tag)
	}
	obj := n.New()
	obj.XMLBase().Rebind(el)
	return obj, nil
}

// SetNest splices obj's root into this document at the binding
// location, replacing any existing element of that tag. The splice
// moves the subtree: obj becomes a live view into this document.
func (b *Base) SetNest(n Nest, obj Object) error {
	child := obj.XMLBase()
	if child.Root().Tag != n.Tag {
		return fmt.Errorf("%w: cannot splice <%s> into slot for <%s>",
			ErrTypeConflict, child.Root().Tag, n.Tag)
	}
	parent, err := b.locateOrCreate(n.ParentPath)
	if err != nil {
		return err
	}
	if existing := parent.SelectElement(n.Tag); existing != nil && existing != child.Root() {
		parent.RemoveChild(existing)
	}
	parent.AddChild(child.Detach())
	return nil
}
