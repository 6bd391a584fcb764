package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/lock"
)

func newGroup(id, title string) *fontgroup.Group {
	return &fontgroup.Group{
		ID:    id,
		Title: title,
		Fonts: []fontgroup.FontEntry{
			{Name: "Body", FontFile: "Body_1700000000.ttf"},
			{Name: "Heading", FontFile: "Heading_1700000000.ttf"},
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func newFileRepo(t *testing.T) *FileRepo {
	t.Helper()
	r, err := NewFileRepo(filepath.Join(t.TempDir(), "data", "font_groups.json"), nil)
	require.NoError(t, err)
	return r
}

func runCRUD(t *testing.T, r Repository) {
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, newGroup("g1", "First")))
	require.NoError(t, r.Create(ctx, newGroup("g2", "Second")))
	require.NoError(t, r.Create(ctx, newGroup("g3", "Third")))
	require.Error(t, r.Create(ctx, newGroup("g1", "Again")))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{"g1", "g2", "g3"}, []string{list[0].ID, list[1].ID, list[2].ID})
	require.Nil(t, list[0].UpdatedAt)

	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	in := fontgroup.Input{Title: "Renamed", Fonts: []fontgroup.FontEntry{
		{Name: "X", FontFile: "x.ttf"}, {Name: "Y", FontFile: "y.ttf"}, {Name: "Z", FontFile: "z.ttf"},
	}}
	upd, err := r.Update(ctx, "g2", in, at)
	require.NoError(t, err)
	require.Equal(t, "g2", upd.ID)
	require.Equal(t, "Renamed", upd.Title)
	require.Len(t, upd.Fonts, 3)
	require.NotNil(t, upd.UpdatedAt)
	require.True(t, at.Equal(*upd.UpdatedAt))

	got, err := r.Get(ctx, "g2")
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Title)
	require.True(t, got.CreatedAt.Equal(newGroup("", "").CreatedAt), "createdAt must survive updates")

	_, err = r.Update(ctx, "missing", in, at)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Delete(ctx, "g1"))
	require.ErrorIs(t, r.Delete(ctx, "g1"), ErrNotFound)
	_, err = r.Get(ctx, "g1")
	require.ErrorIs(t, err, ErrNotFound)

	list, err = r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"g2", "g3"}, []string{list[0].ID, list[1].ID})
}

func TestMemoryRepoCRUD(t *testing.T) {
	runCRUD(t, NewMemoryRepo())
}

func TestFileRepoCRUD(t *testing.T) {
	runCRUD(t, newFileRepo(t))
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, newGroup("g1", "First")))

	got, err := r.Get(ctx, "g1")
	require.NoError(t, err)
	got.Title = "mutated"
	got.Fonts[0].Name = "mutated"

	again, err := r.Get(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, "First", again.Title)
	require.Equal(t, "Body", again.Fonts[0].Name)
}

func TestFileRepoInitCreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "groups.json")
	r, err := NewFileRepo(path, nil)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(b))

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestFileRepoPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")
	r1, err := NewFileRepo(path, nil)
	require.NoError(t, err)
	require.NoError(t, r1.Create(context.Background(), newGroup("g1", "Kept")))

	r2, err := NewFileRepo(path, nil)
	require.NoError(t, err)
	got, err := r2.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, "Kept", got.Title)
}

func TestFileRepoCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	r, err := NewFileRepo(path, nil)
	require.NoError(t, err)

	_, err = r.List(context.Background())
	require.Error(t, err)
	// a failed read must not clobber the document
	require.Error(t, r.Create(context.Background(), newGroup("g1", "x")))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{not json", string(b))
}

// Concurrent creates used to race on the whole-document rewrite; with the
// lock every record must survive.
func TestFileRepoConcurrentCreatesAllPersist(t *testing.T) {
	r := newFileRepo(t)
	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- r.Create(context.Background(), newGroup(fmt.Sprintf("g%02d", i), "concurrent"))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, n)
}

// Two repos over the same file (as two replicas would be) stay consistent
// when they share a Redis lock.
func TestFileRepoSharedRedisLock(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	path := filepath.Join(t.TempDir(), "groups.json")
	a, err := NewFileRepo(path, lock.NewRedis(client, "lock:font_groups", 5*time.Second))
	require.NoError(t, err)
	b, err := NewFileRepo(path, lock.NewRedis(client, "lock:font_groups", 5*time.Second))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			require.NoError(t, a.Create(context.Background(), newGroup(fmt.Sprintf("a%d", i), "a")))
		}(i)
		go func(i int) {
			defer wg.Done()
			require.NoError(t, b.Create(context.Background(), newGroup(fmt.Sprintf("b%d", i), "b")))
		}(i)
	}
	wg.Wait()

	list, err := a.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 20)
}
