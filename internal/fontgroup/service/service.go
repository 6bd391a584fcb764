package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/apperr"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup/repository"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/metrics"
)

var log = logger.Component("groups")

// Service implements the font group operations on top of a Repository:
// validate, then delegate, translating repository errors into apperr kinds.
type Service struct {
	repo  repository.Repository
	now   func() time.Time
	newID func() string
}

func New(repo repository.Repository) *Service {
	return &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID: uuid.NewString,
	}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() *Service {
	return New(repository.NewMemoryRepo())
}

func (s *Service) Create(ctx context.Context, in fontgroup.Input) (*fontgroup.Group, error) {
	if err := fontgroup.Validate(in); err != nil {
		return nil, observe("create", err)
	}
	g := &fontgroup.Group{
		ID:        s.newID(),
		Title:     in.Title,
		Fonts:     append([]fontgroup.FontEntry(nil), in.Fonts...),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, observe("create", apperr.IO("Failed to save font group.", err))
	}
	log.Infof("created %s %q with %d fonts", g.ID, g.Title, len(g.Fonts))
	return g, observe("create", nil)
}

func (s *Service) Get(ctx context.Context, id string) (*fontgroup.Group, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, observe("get", s.mapErr(err, "Failed to load font group."))
	}
	return g, observe("get", nil)
}

func (s *Service) List(ctx context.Context) ([]*fontgroup.Group, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, observe("list", apperr.IO("Failed to load font groups.", err))
	}
	return list, observe("list", nil)
}

// Update re-validates in and replaces title and fonts of group id. ID and
// CreatedAt are preserved; UpdatedAt is stamped.
func (s *Service) Update(ctx context.Context, id string, in fontgroup.Input) (*fontgroup.Group, error) {
	if err := fontgroup.Validate(in); err != nil {
		return nil, observe("update", err)
	}
	g, err := s.repo.Update(ctx, id, in, s.now())
	if err != nil {
		return nil, observe("update", s.mapErr(err, "Failed to update font group."))
	}
	log.Infof("updated %s", id)
	return g, observe("update", nil)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return observe("delete", s.mapErr(err, "Failed to delete font group."))
	}
	log.Infof("deleted %s", id)
	return observe("delete", nil)
}

// Referencing returns the groups that contain fontFile. The font service uses
// it to refuse deleting fonts that are still in use.
func (s *Service) Referencing(ctx context.Context, fontFile string) ([]*fontgroup.Group, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.IO("Failed to load font groups.", err)
	}
	out := []*fontgroup.Group{}
	for _, g := range list {
		if g.References(fontFile) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Service) mapErr(err error, ioMsg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(fontgroup.MsgGroupNotFound)
	}
	return apperr.IO(ioMsg, err)
}

// observe records the outcome of op and passes err through.
func observe(op string, err error) error {
	result := "ok"
	if err != nil {
		result = string(apperr.KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	metrics.GroupOperations.WithLabelValues(op, result).Inc()
	return err
}
