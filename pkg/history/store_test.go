package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interviewrally/pkg/kv"
)

type failingKV struct{ getErr, setErr error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.getErr }
func (f failingKV) Set(context.Context, string, string) error { return f.setErr }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestStore(t *testing.T, backend kv.Store) *Store {
	t.Helper()
	n := 0
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return NewStore(backend,
		WithLogger(quietLogger()),
		WithClock(func() time.Time { return base.Add(time.Duration(n) * time.Second) }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
}

func TestSaveThenList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())

	rec := s.Save(ctx, Draft{Title: "Backend", JobDescription: "Go", Questions: "1. A\n2. B"})
	require.NotNil(t, rec)
	assert.Equal(t, "id-1", rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	list := s.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, *rec, list[0])
}

func TestSaveAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), WithLogger(quietLogger()))

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		rec := s.Save(ctx, Draft{Title: "t", Questions: "1. q"})
		require.NotNil(t, rec)
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
	assert.Len(t, s.List(ctx), 20)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	s.Save(ctx, Draft{Title: "first"})
	s.Save(ctx, Draft{Title: "second"})

	list := s.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
}

func TestDeleteUnknownLeavesCollection(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := newTestStore(t, backend)
	s.Save(ctx, Draft{Title: "keep"})
	before, _, _ := backend.Get(ctx, StorageKey)

	assert.False(t, s.Delete(ctx, "nope"))

	after, _, _ := backend.Get(ctx, StorageKey)
	assert.Equal(t, before, after)
	assert.Len(t, s.List(ctx), 1)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	a := s.Save(ctx, Draft{Title: "a"})
	b := s.Save(ctx, Draft{Title: "b"})

	assert.True(t, s.Delete(ctx, a.ID))
	list := s.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	rec := s.Save(ctx, Draft{Title: "old", JobDescription: "jd", Questions: "1. q"})

	title := "new"
	score := 8.5
	assert.True(t, s.Update(ctx, rec.ID, Patch{Title: &title, Score: &score}))

	got, ok := s.Get(ctx, rec.ID)
	require.True(t, ok)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "jd", got.JobDescription)
	assert.Equal(t, "1. q", got.Questions)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)
	require.NotNil(t, got.Score)
	assert.Equal(t, 8.5, *got.Score)
}

func TestUpdateReplacesQuestionText(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	rec := s.Save(ctx, Draft{Title: "t", Questions: "1. old"})

	text := "1. new\n2. newer"
	assert.True(t, s.Update(ctx, rec.ID, Patch{Questions: &text}))

	got, ok := s.Get(ctx, rec.ID)
	require.True(t, ok)
	assert.Equal(t, text, got.Questions)
	assert.Equal(t, "t", got.Title)
}

func TestSeededDocumentSurvivesSave(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	seeded := `[{"id":"seed","title":"Old","job_description":"jd","questions":"1. A\n2. B","created_at":"2025-05-01T10:00:00Z"}]`
	require.NoError(t, backend.Set(ctx, StorageKey, seeded))
	s := newTestStore(t, backend)

	list := s.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "seed", list[0].ID)
	assert.Equal(t, "1. A\n2. B", list[0].Questions)

	require.NotNil(t, s.Save(ctx, Draft{Title: "new", Questions: "1. C"}))

	list = s.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "seed", list[0].ID)
	assert.Equal(t, "1. A\n2. B", list[0].Questions)
	assert.Equal(t, "1. C", list[1].Questions)

	raw, _, err := backend.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"questions":"1. A\n2. B"`)
}

func TestUpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory())
	title := "x"
	assert.False(t, s.Update(ctx, "missing", Patch{Title: &title}))
	assert.Empty(t, s.List(ctx))
}

func TestMalformedDataIsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, StorageKey, "{not json"))
	s := newTestStore(t, backend)

	assert.Empty(t, s.List(ctx))
	rec := s.Save(ctx, Draft{Title: "fresh"})
	require.NotNil(t, rec)
	assert.Len(t, s.List(ctx), 1)
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	s := newTestStore(t, failingKV{getErr: boom})
	assert.Nil(t, s.Save(ctx, Draft{Title: "t"}))
	assert.Empty(t, s.List(ctx))
	assert.False(t, s.Delete(ctx, "x"))
	_, ok := s.Get(ctx, "x")
	assert.False(t, ok)

	s = newTestStore(t, failingKV{setErr: boom})
	assert.Nil(t, s.Save(ctx, Draft{Title: "t"}))
}

func TestForClientScopesCollection(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := newTestStore(t, backend)

	alice := s.ForClient("alice")
	bob := s.ForClient("bob")
	require.NotNil(t, alice.Save(ctx, Draft{Title: "alice's"}))

	assert.Len(t, alice.List(ctx), 1)
	assert.Empty(t, bob.List(ctx))
	_, ok, _ := backend.Get(ctx, "interview-history:alice")
	assert.True(t, ok)
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	backend, err := kv.NewFile(t.TempDir())
	require.NoError(t, err)
	s := newTestStore(t, backend)

	rec := s.Save(ctx, Draft{Title: "persisted", Questions: "1. Q1"})
	require.NotNil(t, rec)

	reopened := NewStore(backend, WithLogger(quietLogger()))
	got, ok := reopened.Get(ctx, rec.ID)
	require.True(t, ok)
	assert.Equal(t, "persisted", got.Title)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}
