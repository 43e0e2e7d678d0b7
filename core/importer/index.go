package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// FinderFunc loads a persisted entity by UUID. It returns ErrNotFound when none exists.
type FinderFunc func(ctx context.Context, id uuid.UUID) (Entity, error)

// Index is the cross-reference registry of one import run.
// Entities are keyed by type and stable id. Lookups fall back to the persisted store
// through the finder registered for the type.
type Index struct {
	entries map[EntityType]map[uuid.UUID]Entity
	removed map[EntityType]map[uuid.UUID]struct{}
	finders map[EntityType]FinderFunc
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[EntityType]map[uuid.UUID]Entity),
		removed: make(map[EntityType]map[uuid.UUID]struct{}),
		finders: make(map[EntityType]FinderFunc),
	}
}

// Register sets the store fallback for a type.
func (i *Index) Register(t EntityType, finder FinderFunc) {
	i.finders[t] = finder
}

// Put records an entity imported in this run.
func (i *Index) Put(t EntityType, e Entity) {
	m, ok := i.entries[t]
	if !ok {
		m = make(map[uuid.UUID]Entity)
		i.entries[t] = m
	}
	m[e.Meta().UUID] = e
}

// MarkRemoved records that an entity was removed in this run. Later lookups treat it as absent.
func (i *Index) MarkRemoved(t EntityType, id uuid.UUID) {
	m, ok := i.removed[t]
	if !ok {
		m = make(map[uuid.UUID]struct{})
		i.removed[t] = m
	}
	m[id] = struct{}{}
	delete(i.entries[t], id)
}

// Len returns the number of entities of a type recorded in this run.
func (i *Index) Len(t EntityType) int {
	return len(i.entries[t])
}

// Lookup resolves an identity key of the given type.
func (i *Index) Lookup(ctx context.Context, t EntityType, key string) (Entity, error) {
	id := StableID(key)

	if _, gone := i.removed[t][id]; gone {
		return nil, &ReferenceError{Type: t, Key: key}
	}
	if e, ok := i.entries[t][id]; ok {
		return e, nil
	}

	finder, ok := i.finders[t]
	if !ok {
		return nil, &ReferenceError{Type: t, Key: key}
	}
	e, err := finder(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, &ReferenceError{Type: t, Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s %q: %w", t, key, err)
	}
	i.Put(t, e)
	return e, nil
}

// Resolve looks up an identity key and returns it as E.
func Resolve[E Entity](ctx context.Context, idx *Index, t EntityType, key string) (E, error) {
	var zero E
	e, err := idx.Lookup(ctx, t, key)
	if err != nil {
		return zero, err
	}
	typed, ok := e.(E)
	if !ok {
		return zero, fmt.Errorf("%s %q has unexpected type %T", t, key, e)
	}
	return typed, nil
}
