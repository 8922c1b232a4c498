package reconcile

import (
	"fmt"
	"slices"
)

// Apply executes plan against the live collection. Removed records are
// detached and staged for deletion; added records are built by build,
// appended and staged for insertion. Records not named by plan keep their
// instance and storage row.
func Apply[T any](cs *ChangeSet, c Collection[T], live *[]T, plan Plan[T], build func(T) T) error {
	for _, target := range plan.Remove {
		key := c.match(target)
		idx := -1
		for i, item := range *live {
			if c.match(item) == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return newError(cs.kind, cs.key, ErrInconsistent,
				fmt.Errorf("%s: no live record for %q", c.Name, key))
		}

		record := (*live)[idx]
		*live = slices.Delete(*live, idx, idx+1)
		cs.Delete(c.Name, record)
	}

	for _, src := range plan.Add {
		record := build(src)
		*live = append(*live, record)
		cs.Insert(c.Name, record)
	}
	return nil
}

// Sync diffs a snapshot of live against desired and applies the result.
func Sync[T any](cs *ChangeSet, c Collection[T], live *[]T, desired []T, build func(T) T) (Plan[T], error) {
	plan := Diff(c, slices.Clone(*live), desired)
	return plan, Apply(cs, c, live, plan, build)
}
