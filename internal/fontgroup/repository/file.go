package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/lock"
)

// FileRepo stores every group in a single JSON array document. Each mutation
// reads the whole document, changes it in memory and rewrites it; the
// read-modify-write runs under a lock.Locker so concurrent writers cannot
// lose each other's updates. Writes go through a temp file and a rename, so
// unlocked readers always see a complete document.
type FileRepo struct {
	path string
	lock lock.Locker
}

// NewFileRepo creates the parent directory and an empty "[]" document when missing.
func NewFileRepo(path string, l lock.Locker) (*FileRepo, error) {
	if l == nil {
		l = lock.NewLocal()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("group store mkdir: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("group store init: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("group store stat: %w", err)
	}
	return &FileRepo{path: path, lock: l}, nil
}

func (f *FileRepo) read() ([]*fontgroup.Group, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*fontgroup.Group{}, nil
		}
		return nil, fmt.Errorf("group store read: %w", err)
	}
	groups := []*fontgroup.Group{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return groups, nil
	}
	if err := json.Unmarshal(b, &groups); err != nil {
		return nil, fmt.Errorf("group store decode %s: %w", f.path, err)
	}
	return groups, nil
}

func (f *FileRepo) write(groups []*fontgroup.Group) error {
	if groups == nil {
		groups = []*fontgroup.Group{}
	}
	b, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("group store encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".font_groups-*.json")
	if err != nil {
		return fmt.Errorf("group store temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("group store write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("group store sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("group store close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("group store chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("group store rename: %w", err)
	}
	return nil
}

// mutate runs fn over the current document under the lock and persists the
// slice it returns.
func (f *FileRepo) mutate(ctx context.Context, fn func([]*fontgroup.Group) ([]*fontgroup.Group, error)) error {
	unlock, err := f.lock.Lock(ctx)
	if err != nil {
		return fmt.Errorf("group store lock: %w", err)
	}
	defer unlock()

	groups, err := f.read()
	if err != nil {
		return err
	}
	next, err := fn(groups)
	if err != nil {
		return err
	}
	return f.write(next)
}

func (f *FileRepo) Create(ctx context.Context, g *fontgroup.Group) error {
	return f.mutate(ctx, func(groups []*fontgroup.Group) ([]*fontgroup.Group, error) {
		for _, existing := range groups {
			if existing.ID == g.ID {
				return nil, fmt.Errorf("font group %s already exists", g.ID)
			}
		}
		return append(groups, clone(g)), nil
	})
}

func (f *FileRepo) Get(ctx context.Context, id string) (*fontgroup.Group, error) {
	groups, err := f.read()
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FileRepo) List(ctx context.Context) ([]*fontgroup.Group, error) {
	return f.read()
}

func (f *FileRepo) Update(ctx context.Context, id string, in fontgroup.Input, at time.Time) (*fontgroup.Group, error) {
	var updated *fontgroup.Group
	err := f.mutate(ctx, func(groups []*fontgroup.Group) ([]*fontgroup.Group, error) {
		for _, g := range groups {
			if g.ID == id {
				g.Title = in.Title
				g.Fonts = append([]fontgroup.FontEntry(nil), in.Fonts...)
				g.UpdatedAt = &at
				updated = clone(g)
				return groups, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (f *FileRepo) Delete(ctx context.Context, id string) error {
	return f.mutate(ctx, func(groups []*fontgroup.Group) ([]*fontgroup.Group, error) {
		for i, g := range groups {
			if g.ID == id {
				return append(groups[:i], groups[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}
