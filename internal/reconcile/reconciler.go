package reconcile

import (
	"context"

	"gorm.io/gorm"
)

// Reconciler synchronises one aggregate type against a desired state. A is
// a pointer to the aggregate's root entity.
//
// Find returns the rows whose natural key equals key with their dependent
// collections loaded. It only needs to return up to two rows. Sync overwrites
// the live aggregate's scalars from desired and applies the collection diffs
// to the change set.
type Reconciler[A any] struct {
	Kind string
	Find func(ctx context.Context, db *gorm.DB, key string) ([]A, error)
	Sync func(cs *ChangeSet, live, desired A) error
}

// Load returns the unique aggregate stored under key.
func (r *Reconciler[A]) Load(ctx context.Context, db *gorm.DB, key string) (A, error) {
	var zero A
	rows, err := r.Find(ctx, db, key)
	if err != nil {
		return zero, newError(r.Kind, key, ErrStore, err)
	}
	switch len(rows) {
	case 0:
		return zero, newError(r.Kind, key, ErrNotFound, nil)
	case 1:
		return rows[0], nil
	default:
		return zero, newError(r.Kind, key, ErrAmbiguousKey, nil)
	}
}

// Run loads the aggregate under key, reconciles it with desired and commits.
// On success the returned aggregate is the persisted state.
func (r *Reconciler[A]) Run(ctx context.Context, db *gorm.DB, key string, desired A) (A, *ChangeSet, error) {
	var zero A
	live, err := r.Load(ctx, db, key)
	if err != nil {
		return zero, nil, err
	}

	cs := NewChangeSet(r.Kind, key, live)
	if err := r.Sync(cs, live, desired); err != nil {
		return zero, cs, err
	}
	if err := cs.Commit(ctx, db); err != nil {
		return zero, cs, err
	}
	return live, cs, nil
}
