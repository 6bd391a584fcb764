package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup"
)

// MemoryRepo is an in-process repository used by tests and throwaway runs.
// Records are copied in and out so callers never share state with the store.
type MemoryRepo struct {
	mu     sync.RWMutex
	groups []*fontgroup.Group
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) indexOf(id string) int {
	for i, g := range m.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryRepo) Create(ctx context.Context, g *fontgroup.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(g.ID) >= 0 {
		return fmt.Errorf("font group %s already exists", g.ID)
	}
	m.groups = append(m.groups, clone(g))
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*fontgroup.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return clone(m.groups[i]), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context) ([]*fontgroup.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*fontgroup.Group, 0, len(m.groups))
	for _, g := range m.groups {
		out = append(out, clone(g))
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, in fontgroup.Input, at time.Time) (*fontgroup.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	g := m.groups[i]
	g.Title = in.Title
	g.Fonts = append([]fontgroup.FontEntry(nil), in.Fonts...)
	g.UpdatedAt = &at
	return clone(g), nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.groups = append(m.groups[:i], m.groups[i+1:]...)
	return nil
}
