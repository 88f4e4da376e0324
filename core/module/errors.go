package module

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no module matches an identifier or capability.
	ErrNotFound = errors.New("module not found")
	// ErrEmptyIdentifier is returned when a module is registered without an identifier.
	ErrEmptyIdentifier = errors.New("module identifier must not be empty")
	// ErrNilModule is returned when a nil module is registered.
	ErrNilModule = errors.New("module must not be nil")
	// ErrLocked is returned when the registry is modified after bootstrap.
	ErrLocked = errors.New("module registry is locked")
	// ErrUnexpectedType is returned by Lookup when a provider has the wrong type.
	ErrUnexpectedType = errors.New("unexpected module type")
)

// DuplicateIdentifierError reports a second module registered under an
// identifier that is already taken.
type DuplicateIdentifierError struct {
	ID string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("a module with the identifier %q already exists in this application", e.ID)
}

// ReservedIdentifierError reports an identifier that collides with an
// application accessor name.
type ReservedIdentifierError struct {
	ID string
}

func (e *ReservedIdentifierError) Error() string {
	return fmt.Sprintf("invalid module identifier %q: the name is reserved by the application", e.ID)
}

// UnmetDependencyError reports a depended-on capability nobody provides.
type UnmetDependencyError struct {
	Module     string
	Capability Capability
}

func (e *UnmetDependencyError) Error() string {
	return fmt.Sprintf("module %q depends on %q but no module provides this capability", e.Module, e.Capability)
}

// DuplicateCapabilityError reports two modules claiming the same capability.
type DuplicateCapabilityError struct {
	Capability Capability
	Existing   string
	New        string
}

func (e *DuplicateCapabilityError) Error() string {
	return fmt.Sprintf("module %q provides %q which is already provided by %q", e.New, e.Capability, e.Existing)
}

// CircularDependencyError reports a dependency cycle. Chain starts and ends
// with the module that was reached twice.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return "circular module dependency detected: " + strings.Join(e.Chain, " => ")
}

// InitializationError wraps the failure of a module's Init.
type InitializationError struct {
	Module string
	Err    error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize module %q: %v", e.Module, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
