package xmlmap

import "errors"

// Error taxonomy for the mapping layer. Callers match with errors.Is.
var (
	// ErrNotFound indicates a read of an element that does not exist.
	ErrNotFound = errors.New("element not found")

	// ErrNotSet indicates a read of an attribute or text value that is
	// not present in the document.
	ErrNotSet = errors.New("value not set")

	// ErrParse indicates malformed XML input.
	ErrParse = errors.New("invalid XML")

	// ErrTypeConflict indicates a value of an unsupported type was
	// passed to a nested-object or list setter.
	ErrTypeConflict = errors.New("unexpected value type")
)
