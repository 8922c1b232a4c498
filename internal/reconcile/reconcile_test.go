package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/glebarez/sqlite"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testRoot struct {
	ID    int64 `gorm:"primaryKey"`
	Name  string
	Label string
	Tags  []*testTag `gorm:"foreignKey:RootID"`
}

type testTag struct {
	ID     int64 `gorm:"primaryKey"`
	RootID int64
	Value  string
	Note   string
}

type pair struct {
	Type  string
	Value string
}

var (
	uris = Collection[string]{
		Name:   "uris",
		Member: func(s string) string { return s },
	}
	pairs = Collection[pair]{
		Name:   "claims",
		Member: func(p pair) string { return p.Type },
		Match:  func(p pair) string { return p.Type + "\x00" + p.Value },
	}
	tags = Collection[*testTag]{
		Name:   "tags",
		Member: func(t *testTag) string { return t.Value },
	}
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		desired []string
		want    Plan[string]
	}{
		{
			name:    "replace one uri",
			current: []string{"https://a", "https://b"},
			desired: []string{"https://b", "https://c"},
			want:    Plan[string]{Add: []string{"https://c"}, Remove: []string{"https://a"}},
		},
		{
			name:    "unchanged",
			current: []string{"https://a", "https://b"},
			desired: []string{"https://b", "https://a"},
			want:    Plan[string]{},
		},
		{
			name:    "from empty",
			desired: []string{"https://a"},
			want:    Plan[string]{Add: []string{"https://a"}},
		},
		{
			name:    "to empty",
			current: []string{"https://a", "https://b"},
			want:    Plan[string]{Remove: []string{"https://a", "https://b"}},
		},
		{
			name:    "duplicates collapse",
			current: []string{"https://a"},
			desired: []string{"https://c", "https://c"},
			want:    Plan[string]{Add: []string{"https://c"}, Remove: []string{"https://a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(uris, tt.current, tt.desired)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiff_SplitKeyGranularity(t *testing.T) {
	t.Run("same type new value is not an add", func(t *testing.T) {
		got := Diff(pairs, []pair{{"role", "admin"}}, []pair{{"role", "user"}})
		assert.True(t, got.Empty())
	})

	t.Run("every value of a dropped type is removed", func(t *testing.T) {
		got := Diff(pairs, []pair{{"role", "a"}, {"role", "b"}}, nil)
		assert.Equal(t, []pair{{"role", "a"}, {"role", "b"}}, got.Remove)
		assert.Empty(t, got.Add)
	})

	t.Run("every value of a new type is added", func(t *testing.T) {
		got := Diff(pairs, nil, []pair{{"role", "a"}, {"role", "b"}})
		assert.Equal(t, []pair{{"role", "a"}, {"role", "b"}}, got.Add)
		assert.Empty(t, got.Remove)
	})
}

func TestApply(t *testing.T) {
	kept := &testTag{ID: 2, Value: "b"}
	live := []*testTag{{ID: 1, Value: "a"}, kept}
	desired := []*testTag{{Value: "b"}, {Value: "c", Note: "new"}}

	cs := NewChangeSet("root", "r1", &testRoot{})
	nextID := int64(100)
	plan, err := Sync(cs, tags, &live, desired, func(src *testTag) *testTag {
		nextID++
		return &testTag{ID: nextID, Value: src.Value, Note: src.Note}
	})
	require.NoError(t, err)

	assert.Len(t, plan.Add, 1)
	assert.Len(t, plan.Remove, 1)
	require.Len(t, live, 2)
	assert.Same(t, kept, live[0])
	assert.Equal(t, int64(101), live[1].ID)
	assert.Equal(t, "new", live[1].Note)
	assert.Equal(t, map[string]Counts{"tags": {Added: 1, Removed: 1}}, cs.Summary())
}

func TestApply_MissingRemovalTarget(t *testing.T) {
	live := []*testTag{{ID: 1, Value: "a"}}
	plan := Plan[*testTag]{Remove: []*testTag{{Value: "ghost"}}}

	cs := NewChangeSet("root", "r1", &testRoot{})
	err := Apply(cs, tags, &live, plan, func(t *testTag) *testTag { return t })

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.True(t, errdefs.IsInternal(err))
	assert.Len(t, live, 1)
	assert.Zero(t, cs.Len())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&testRoot{}, &testTag{}))
	return db
}

func newTestReconciler() *Reconciler[*testRoot] {
	nextID := int64(1000)
	return &Reconciler[*testRoot]{
		Kind: "root",
		Find: func(ctx context.Context, db *gorm.DB, key string) ([]*testRoot, error) {
			var rows []*testRoot
			err := db.WithContext(ctx).Preload("Tags").Where("name = ?", key).Limit(2).Find(&rows).Error
			return rows, err
		},
		Sync: func(cs *ChangeSet, live, desired *testRoot) error {
			live.Label = desired.Label
			_, err := Sync(cs, tags, &live.Tags, desired.Tags, func(src *testTag) *testTag {
				nextID++
				return &testTag{ID: nextID, RootID: live.ID, Value: src.Value}
			})
			return err
		},
	}
}

func seedRoot(t *testing.T, db *gorm.DB, values ...string) *testRoot {
	t.Helper()
	root := &testRoot{ID: 1, Name: "r1", Label: "before"}
	for i, v := range values {
		root.Tags = append(root.Tags, &testTag{ID: int64(10 + i), RootID: root.ID, Value: v})
	}
	require.NoError(t, db.Create(root).Error)
	return root
}

func desiredRoot(label string, values ...string) *testRoot {
	out := &testRoot{Label: label}
	for _, v := range values {
		out.Tags = append(out.Tags, &testTag{Value: v})
	}
	return out
}

func loadTags(t *testing.T, db *gorm.DB) map[string]int64 {
	t.Helper()
	var rows []testTag
	require.NoError(t, db.Order("id").Find(&rows).Error)
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Value] = r.ID
	}
	return out
}

func TestReconciler_Run(t *testing.T) {
	db := setupTestDB(t)
	seedRoot(t, db, "https://a", "https://b")
	r := newTestReconciler()

	got, cs, err := r.Run(context.Background(), db, "r1", desiredRoot("after", "https://b", "https://c"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, 2, cs.Len())

	stored := loadTags(t, db)
	assert.Len(t, stored, 2)
	assert.Equal(t, int64(11), stored["https://b"])
	assert.Contains(t, stored, "https://c")

	var root testRoot
	require.NoError(t, db.First(&root, 1).Error)
	assert.Equal(t, "after", root.Label)
}

func TestReconciler_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	seedRoot(t, db, "x", "y")
	r := newTestReconciler()

	_, cs, err := r.Run(context.Background(), db, "r1", desiredRoot("before", "y", "x"))
	require.NoError(t, err)
	assert.Zero(t, cs.Len())
	assert.Equal(t, map[string]int64{"x": 10, "y": 11}, loadTags(t, db))
}

func TestReconciler_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	seedRoot(t, db, "x")
	r := newTestReconciler()
	ctx := context.Background()

	_, _, err := r.Run(ctx, db, "r1", desiredRoot("before", "x", "y"))
	require.NoError(t, err)
	_, _, err = r.Run(ctx, db, "r1", desiredRoot("before", "x"))
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"x": 10}, loadTags(t, db))
}

func TestReconciler_NotFound(t *testing.T) {
	db := setupTestDB(t)
	r := newTestReconciler()

	_, cs, err := r.Run(context.Background(), db, "ghost", desiredRoot("x"))
	require.Error(t, err)
	assert.Nil(t, cs)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, errdefs.IsNotFound(err))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "ghost", rerr.Key)
}

func TestReconciler_AmbiguousKey(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&testRoot{ID: 1, Name: "dup"}).Error)
	require.NoError(t, db.Create(&testRoot{ID: 2, Name: "dup"}).Error)
	r := newTestReconciler()

	_, cs, err := r.Run(context.Background(), db, "dup", desiredRoot("x"))
	assert.ErrorIs(t, err, ErrAmbiguousKey)
	assert.Nil(t, cs)
}

func TestReconciler_CommitIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	seedRoot(t, db, "https://a", "https://b")

	boom := errors.New("disk full")
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_tags", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "test_tags" {
			_ = tx.AddError(boom)
		}
	})
	require.NoError(t, err)

	r := newTestReconciler()
	_, _, err = r.Run(context.Background(), db, "r1", desiredRoot("after", "https://b", "https://c"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, map[string]int64{"https://a": 10, "https://b": 11}, loadTags(t, db))
	var root testRoot
	require.NoError(t, db.First(&root, 1).Error)
	assert.Equal(t, "before", root.Label)
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"https://a", "https://b"}, Unique(uris, []string{"https://a", "https://b", "https://a"}))
	assert.Nil(t, Unique(uris, nil))

	got := Unique(pairs, []pair{{"role", "a"}, {"role", "a"}, {"role", "b"}})
	assert.Equal(t, []pair{{"role", "a"}, {"role", "b"}}, got)
}
