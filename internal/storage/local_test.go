package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGetListDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a.ttf", strings.NewReader("AAAA"), 4, "font/ttf"))
	require.NoError(t, s.Put(ctx, "b.ttf", strings.NewReader("BB"), 2, "font/ttf"))
	require.NoError(t, s.Put(ctx, "notes.txt", strings.NewReader("x"), 1, "text/plain"))

	rc, obj, err := s.Get(ctx, "a.ttf")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	require.Equal(t, "AAAA", string(body))
	require.Equal(t, int64(4), obj.Size)
	require.False(t, obj.ModTime.IsZero())

	list, err := s.List(ctx, ".ttf")
	require.NoError(t, err)
	keys := []string{}
	for _, o := range list {
		keys = append(keys, o.Key)
	}
	sort.Strings(keys)
	require.Equal(t, []string{"a.ttf", "b.ttf"}, keys)

	require.NoError(t, s.Delete(ctx, "a.ttf"))
	_, err = s.Stat(ctx, "a.ttf")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, "a.ttf"), ErrNotFound)
}

func TestLocalStorage_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "x.ttf", strings.NewReader("x"), 1, "font/ttf"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "x.ttf", entries[0].Name())
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.Error(t, s.Put(ctx, "../evil.ttf", strings.NewReader("x"), 1, "font/ttf"))
	_, _, err = s.Get(ctx, "../../etc/passwd")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, ".."), ErrNotFound)
}

func TestLocalStorage_PutHonorsCanceledContext(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Put(ctx, "c.ttf", strings.NewReader("data"), 4, "font/ttf"))
	_, err = s.Stat(context.Background(), "c.ttf")
	require.ErrorIs(t, err, ErrNotFound)
}
