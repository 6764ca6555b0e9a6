package resource

import (
	"errors"
	"fmt"
)

// ErrInvalidResourceType is returned when an identifier carrying the
// invalid type sentinel is used where a valid type is required.
var ErrInvalidResourceType = errors.New("invalid resource type")

// NotFoundError reports a resource absent at every level attempted.
// Path is the deepest path reached, real and virtual components joined,
// for diagnostics.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Path)
}
