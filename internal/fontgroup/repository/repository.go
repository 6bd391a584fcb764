package repository

import (
	"context"
	"errors"
	"time"

	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup"
)

var (
	ErrNotFound = errors.New("font group not found")
)

// Repository persists font groups. List returns groups in insertion order.
// Create expects ID and CreatedAt to be set by the caller.
type Repository interface {
	Create(ctx context.Context, g *fontgroup.Group) error
	Get(ctx context.Context, id string) (*fontgroup.Group, error)
	List(ctx context.Context) ([]*fontgroup.Group, error)
	// Update replaces title and fonts wholesale and stamps UpdatedAt = at.
	Update(ctx context.Context, id string, in fontgroup.Input, at time.Time) (*fontgroup.Group, error)
	Delete(ctx context.Context, id string) error
}

func clone(g *fontgroup.Group) *fontgroup.Group {
	c := *g
	c.Fonts = append([]fontgroup.FontEntry(nil), g.Fonts...)
	if g.UpdatedAt != nil {
		t := *g.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
