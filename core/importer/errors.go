package importer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrRemovalNotAllowed is returned when incoming data has fewer records than the store
	// for a type that does not allow removal.
	ErrRemovalNotAllowed = errors.New("removal not allowed")

	// ErrIdentityChanged is returned when an identity disappears while the record count
	// stays the same for a type that does not allow removal.
	ErrIdentityChanged = errors.New("identity changed")

	// ErrUnresolvedReference is returned when a required cross-reference cannot be found.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrNotFound is returned by repositories when no entity has the requested UUID.
	ErrNotFound = errors.New("not found")

	// ErrDependencyCycle is returned when entity types depend on each other.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrMissingDirectory is returned when a ruleset lacks its data directory.
	ErrMissingDirectory = errors.New("missing directory")
)

// MismatchError describes a structural difference between stored and incoming content.
type MismatchError struct {
	// Type is the entity type being imported.
	Type EntityType

	// Kind is ErrRemovalNotAllowed or ErrIdentityChanged.
	Kind error

	// Existing is the number of persisted entities.
	Existing int

	// Incoming is the number of incoming records.
	Incoming int

	// Missing lists persisted identities absent from the incoming data.
	Missing []uuid.UUID
}

func (e *MismatchError) Error() string {
	if errors.Is(e.Kind, ErrIdentityChanged) {
		return fmt.Sprintf("%s: %d identities changed while the count stayed at %d; was a name changed? removal is not allowed for this type (missing: %v)",
			e.Type, len(e.Missing), e.Existing, e.Missing)
	}
	return fmt.Sprintf("%s: incoming data has %d records but %d are stored; something was removed and removal is not allowed for this type",
		e.Type, e.Incoming, e.Existing)
}

func (e *MismatchError) Unwrap() error {
	return e.Kind
}

// ReferenceError names a cross-reference that could not be resolved.
type ReferenceError struct {
	Type EntityType
	Key  string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Type, e.Key)
}

func (e *ReferenceError) Unwrap() error {
	return ErrUnresolvedReference
}
