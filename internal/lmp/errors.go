package lmp

import (
	"errors"
	"fmt"
)

// Domain errors for command building.
var (
	// ErrDuplicateName indicates an identifier or key that must be unique was reused.
	ErrDuplicateName = errors.New("lmp: duplicate name")

	// ErrUnknownName indicates a reference to a name that was never registered.
	ErrUnknownName = errors.New("lmp: unknown name")

	// ErrFrozen indicates arguments were added to a command already emitted.
	ErrFrozen = errors.New("lmp: command already emitted")
)

// NameError wraps a naming failure with the scope it happened in, such as
// "registry", "fix" or "section key".
type NameError struct {
	Scope   string
	Name    string
	Wrapped error
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Scope, e.Name, e.Wrapped)
}

func (e *NameError) Unwrap() error {
	return e.Wrapped
}

// Duplicate returns a NameError wrapping ErrDuplicateName.
func Duplicate(scope, name string) error {
	return &NameError{Scope: scope, Name: name, Wrapped: ErrDuplicateName}
}

// Unknown returns a NameError wrapping ErrUnknownName.
func Unknown(scope, name string) error {
	return &NameError{Scope: scope, Name: name, Wrapped: ErrUnknownName}
}
