package property

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind indicates an equation tag that is not recognized.
	ErrUnknownKind = errors.New("property: unknown equation kind")

	// ErrNotConst indicates Const was called on a non-constant value.
	ErrNotConst = errors.New("property: value is not a constant")
)

// MissingError reports a property that was requested but cannot be
// evaluated, either because no record carried its name or because the
// record has no usable equation.
type MissingError struct {
	Owner  string
	Name   string
	InFile bool
}

func (e *MissingError) Error() string {
	if e.InFile {
		return fmt.Sprintf("%s: property %q has no usable equation", e.Owner, e.Name)
	}
	return fmt.Sprintf("%s: property %q not found", e.Owner, e.Name)
}
