package reconcile

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mutation is a staged child-row insert or delete.
type Mutation struct {
	Collection string
	Record     any
}

// Counts summarises the staged mutations of one collection.
type Counts struct {
	Added   int
	Removed int
}

// ChangeSet stages the mutations of a single aggregate until Commit. It is
// owned by one reconcile call and is not safe for concurrent use.
type ChangeSet struct {
	kind string
	key  string
	root any

	added   []Mutation
	removed []Mutation
}

func NewChangeSet(kind, key string, root any) *ChangeSet {
	return &ChangeSet{kind: kind, key: key, root: root}
}

func (cs *ChangeSet) Kind() string { return cs.kind }
func (cs *ChangeSet) Key() string  { return cs.key }

// Insert stages record, a pointer to a new child row.
func (cs *ChangeSet) Insert(collection string, record any) {
	cs.added = append(cs.added, Mutation{Collection: collection, Record: record})
}

// Delete stages record, a pointer to a persisted child row.
func (cs *ChangeSet) Delete(collection string, record any) {
	cs.removed = append(cs.removed, Mutation{Collection: collection, Record: record})
}

func (cs *ChangeSet) Added() []Mutation   { return cs.added }
func (cs *ChangeSet) Removed() []Mutation { return cs.removed }

// Len is the number of staged child mutations. Scalar changes are not counted.
func (cs *ChangeSet) Len() int {
	return len(cs.added) + len(cs.removed)
}

func (cs *ChangeSet) Summary() map[string]Counts {
	out := make(map[string]Counts)
	for _, m := range cs.added {
		c := out[m.Collection]
		c.Added++
		out[m.Collection] = c
	}
	for _, m := range cs.removed {
		c := out[m.Collection]
		c.Removed++
		out[m.Collection] = c
	}
	return out
}

// Commit writes the root's scalar columns and every staged mutation in one
// transaction. Nothing is persisted unless all of it is.
func (cs *ChangeSet) Commit(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(cs.root).Select("*").Omit(clause.Associations).Updates(cs.root)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for _, m := range cs.removed {
			if err := tx.Delete(m.Record).Error; err != nil {
				return err
			}
		}
		for _, m := range cs.added {
			if err := tx.Omit(clause.Associations).Create(m.Record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return newError(cs.kind, cs.key, ErrStore, err)
	}
	return nil
}
