package reconcile

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Collection describes one dependent collection of an aggregate and how its
// child records are compared.
//
// Member decides whether a record is present on a side. Match locates a live
// record for removal and de-duplicates the union; when nil it falls back to
// Member. The two may differ in granularity and are honored as declared.
type Collection[T any] struct {
	Name   string
	Member func(T) string
	Match  func(T) string
}

func (c Collection[T]) match(item T) string {
	if c.Match != nil {
		return c.Match(item)
	}
	return c.Member(item)
}

// Plan is the outcome of Diff for a single collection. Remove holds records
// from the current side, Add holds records from the desired side.
type Plan[T any] struct {
	Add    []T
	Remove []T
}

func (p Plan[T]) Empty() bool {
	return len(p.Add) == 0 && len(p.Remove) == 0
}

// Diff classifies the union of current and desired records. A record whose
// membership key is on both sides produces no action.
func Diff[T any](c Collection[T], current, desired []T) Plan[T] {
	inCurrent := memberKeys(c, current)
	inDesired := memberKeys(c, desired)

	union := make([]T, 0, len(current)+len(desired))
	union = append(union, current...)
	union = append(union, desired...)

	var plan Plan[T]
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, item := range union {
		if !seen.Add(c.match(item)) {
			continue
		}
		key := c.Member(item)
		switch {
		case inCurrent.Contains(key) && !inDesired.Contains(key):
			plan.Remove = append(plan.Remove, item)
		case !inCurrent.Contains(key) && inDesired.Contains(key):
			plan.Add = append(plan.Add, item)
		}
	}
	return plan
}

func memberKeys[T any](c Collection[T], items []T) mapset.Set[string] {
	keys := mapset.NewThreadUnsafeSetWithSize[string](len(items))
	for _, item := range items {
		keys.Add(c.Member(item))
	}
	return keys
}

// Unique drops every record whose lookup key repeats an earlier one, keeping
// the first. Stored collections are sets under their lookup key.
func Unique[T any](c Collection[T], items []T) []T {
	if len(items) < 2 {
		return items
	}
	seen := mapset.NewThreadUnsafeSetWithSize[string](len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if seen.Add(c.match(item)) {
			out = append(out, item)
		}
	}
	return out
}
