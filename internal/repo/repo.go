// Package repo provides typed CRUD over the collection store, one
// repository per entity kind. Repositories own entity-specific validation
// and field defaults; the store owns ids, timestamps and physical I/O.
// Role/identity always arrive as explicit parameters.
package repo

import (
	"errors"

	"teportal/internal/filter"
	"teportal/internal/scope"
	"teportal/internal/store"
)

// ErrNotFound is returned by Update/Delete/GetByID when the id is absent.
var ErrNotFound = errors.New("record not found")

// Entity is the pointer-side contract every array-backed record satisfies.
type Entity[T any] interface {
	*T
	GetID() string
	SetID(string)
	Stamp(now string, isNew bool)
	scope.Owned
}

// Table is a generic repository over one array-backed collection.
type Table[T any, PT Entity[T]] struct {
	Store *store.Store
	Name  string

	// Prepare fills defaults and derived fields before validation. It runs
	// on create and again on every merged update.
	Prepare func(PT)
	// Validate checks entity invariants; all violations are reported
	// together and nothing is written when it fails.
	Validate func(PT) error
}

func (t *Table[T, PT]) load() ([]T, error) {
	var recs []T
	if err := t.Store.Load(t.Name, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// All returns every record in insertion order.
func (t *Table[T, PT]) All() ([]T, error) {
	return t.load()
}

// GetByID returns the record with the given id, or ErrNotFound.
func (t *Table[T, PT]) GetByID(id string) (*T, error) {
	recs, err := t.load()
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if PT(&recs[i]).GetID() == id {
			rec := recs[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// List returns the records matching the filter, in insertion order.
func (t *Table[T, PT]) List(f *filter.Filter) ([]T, error) {
	recs, err := t.load()
	if err != nil {
		return nil, err
	}
	return filter.Apply(recs, f), nil
}

// ScopedList narrows List results to what role/identity may see.
func (t *Table[T, PT]) ScopedList(role, identity string, f *filter.Filter) ([]T, error) {
	recs, err := t.load()
	if err != nil {
		return nil, err
	}
	return filter.Apply(scope.Visible[T, PT](recs, role, identity), f), nil
}

// Create validates rec, assigns its id and timestamps, appends it and
// rewrites the collection. On validation failure nothing is written.
func (t *Table[T, PT]) Create(rec *T) (*T, error) {
	p := PT(rec)
	if t.Prepare != nil {
		t.Prepare(p)
	}
	if t.Validate != nil {
		if err := t.Validate(p); err != nil {
			return nil, err
		}
	}

	unlock := t.Store.Lock(t.Name)
	defer unlock()

	recs, err := t.load()
	if err != nil {
		return nil, err
	}
	p.SetID(t.Store.NextID())
	p.Stamp(t.Store.Timestamp(), true)
	recs = append(recs, *rec)
	if err := t.Store.Save(t.Name, recs); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update merges a partial patch into the record with the given id,
// re-validates the merged record and rewrites the whole collection.
// The id, created_at and created_by fields cannot be patched. identity,
// when non-empty, is stamped as updated_by.
func (t *Table[T, PT]) Update(id string, patch map[string]any, identity string) (*T, error) {
	unlock := t.Store.Lock(t.Name)
	defer unlock()

	recs, err := t.load()
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range recs {
		if PT(&recs[i]).GetID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}

	// The caller's map stays untouched.
	stamped := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		stamped[k] = v
	}
	if identity != "" {
		stamped["updated_by"] = identity
	}
	merged, err := mergePatch(recs[idx], stamped)
	if err != nil {
		return nil, err
	}
	p := PT(&merged)
	if t.Prepare != nil {
		t.Prepare(p)
	}
	if t.Validate != nil {
		if err := t.Validate(p); err != nil {
			return nil, err
		}
	}
	p.Stamp(t.Store.Timestamp(), false)

	recs[idx] = merged
	if err := t.Store.Save(t.Name, recs); err != nil {
		return nil, err
	}
	rec := merged
	return &rec, nil
}

// Delete removes the record with the given id. ErrNotFound when no
// record matched; the collection is not rewritten in that case.
func (t *Table[T, PT]) Delete(id string) error {
	unlock := t.Store.Lock(t.Name)
	defer unlock()

	recs, err := t.load()
	if err != nil {
		return err
	}
	kept := make([]T, 0, len(recs))
	for i := range recs {
		if PT(&recs[i]).GetID() != id {
			kept = append(kept, recs[i])
		}
	}
	if len(kept) == len(recs) {
		return ErrNotFound
	}
	return t.Store.Save(t.Name, kept)
}
