package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/typeshelf/typeshelf/backend/go-services/internal/apperr"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/font"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/lock"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/storage"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/metrics"
)

var log = logger.Component("fonts")

// maxNameAttempts bounds the search for a free "<stem>_<unix>.ttf" name.
const maxNameAttempts = 64

// ReferenceChecker finds font groups that use a stored font file.
type ReferenceChecker interface {
	Referencing(ctx context.Context, fontFile string) ([]*fontgroup.Group, error)
}

// Options tune the font service. Zero values select the defaults.
type Options struct {
	MaxBytes int64
	// RestrictDelete refuses deleting fonts that a group still references.
	// It needs References.
	RestrictDelete bool
	References     ReferenceChecker
	// Locker guards picking a free stored name until the font is written.
	// Defaults to an in-process lock.
	Locker lock.Locker
}

// Upload is one incoming font file.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type Service struct {
	store storage.Backend
	opts  Options
	now   func() time.Time
}

func New(store storage.Backend, opts Options) *Service {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = font.DefaultMaxBytes
	}
	if opts.Locker == nil {
		opts.Locker = lock.NewLocal()
	}
	return &Service{store: store, opts: opts, now: time.Now}
}

func (s *Service) MaxBytes() int64 { return s.opts.MaxBytes }

// Save validates the upload, picks a unique stored filename and writes it to
// the store. The returned Font carries the original client filename as Name.
func (s *Service) Save(ctx context.Context, up *Upload) (*font.Font, error) {
	if up == nil || up.Body == nil || up.Filename == "" {
		metrics.FontUploadsRejected.WithLabelValues("missing").Inc()
		return nil, apperr.Validation(font.MsgNoFile)
	}
	if up.Size > s.opts.MaxBytes {
		metrics.FontUploadsRejected.WithLabelValues("too_large").Inc()
		return nil, apperr.Validation(font.TooLargeMessage(s.opts.MaxBytes))
	}
	if !font.HasFontExtension(up.Filename) {
		metrics.FontUploadsRejected.WithLabelValues("extension").Inc()
		return nil, apperr.Validation(font.MsgOnlyTTF)
	}

	now := s.now().UTC()
	name, n, err := s.place(ctx, up, now.Unix())
	if err != nil {
		return nil, err
	}

	metrics.FontsUploaded.Inc()
	metrics.FontUploadBytes.Observe(float64(n))
	log.Infof("stored %q as %s (%d bytes)", up.Filename, name, n)
	return &font.Font{
		Name:       up.Filename,
		Filename:   name,
		Path:       font.PublicPath(name),
		UploadedAt: now,
	}, nil
}

// place reserves a free name and writes the body under the locker, so two
// uploads can never settle on the same stored name.
func (s *Service) place(ctx context.Context, up *Upload, unix int64) (string, int64, error) {
	unlock, err := s.opts.Locker.Lock(ctx)
	if err != nil {
		return "", 0, apperr.IO(font.MsgSaveFailed, err)
	}
	defer unlock()

	name, err := s.freeName(ctx, up.Filename, unix)
	if err != nil {
		return "", 0, apperr.IO(font.MsgSaveFailed, err)
	}
	// never store more than the limit, even if Size understated the body
	counted := &countingReader{r: io.LimitReader(up.Body, s.opts.MaxBytes+1)}
	if err := s.store.Put(ctx, name, counted, up.Size, font.ContentType); err != nil {
		return "", 0, apperr.IO(font.MsgSaveFailed, err)
	}
	if counted.n > s.opts.MaxBytes {
		_ = s.store.Delete(ctx, name)
		metrics.FontUploadsRejected.WithLabelValues("too_large").Inc()
		return "", 0, apperr.Validation(font.TooLargeMessage(s.opts.MaxBytes))
	}
	return name, counted.n, nil
}

func (s *Service) freeName(ctx context.Context, original string, unix int64) (string, error) {
	for i := int64(0); i < maxNameAttempts; i++ {
		name := font.StoredName(original, unix+i)
		_, err := s.store.Stat(ctx, name)
		if errors.Is(err, storage.ErrNotFound) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free name for %q", original)
}

// Delete removes a stored font. Under RestrictDelete a font used by any group
// is refused with a validation error naming the first such group.
func (s *Service) Delete(ctx context.Context, filename string) error {
	name := font.CleanFilename(filename)
	if name == "" {
		return apperr.Validation(font.MsgFilenameRequired)
	}
	if _, err := s.store.Stat(ctx, name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound(font.MsgNotFound)
		}
		return apperr.IO(font.MsgDeleteFailed, err)
	}
	if s.opts.RestrictDelete && s.opts.References != nil {
		groups, err := s.opts.References.Referencing(ctx, name)
		if err != nil {
			return err
		}
		if len(groups) > 0 {
			return apperr.Validation(fmt.Sprintf("Font is used by font group %q.", groups[0].Title))
		}
	}
	if err := s.store.Delete(ctx, name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound(font.MsgNotFound)
		}
		return apperr.IO(font.MsgDeleteFailed, err)
	}
	metrics.FontsDeleted.Inc()
	log.Infof("deleted %s", name)
	return nil
}

// List returns every stored .ttf, sorted by filename.
func (s *Service) List(ctx context.Context) ([]*font.Font, error) {
	objs, err := s.store.List(ctx, "."+font.Extension)
	if err != nil {
		return nil, apperr.IO("Failed to list fonts.", err)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })
	out := make([]*font.Font, 0, len(objs))
	for _, o := range objs {
		out = append(out, &font.Font{
			Name:       o.Key,
			Path:       font.PublicPath(o.Key),
			UploadedAt: o.ModTime.UTC().Truncate(time.Second),
		})
	}
	return out, nil
}

// Open returns the bytes of a stored font; callers must close the reader.
func (s *Service) Open(ctx context.Context, filename string) (io.ReadCloser, storage.Object, error) {
	name := font.CleanFilename(filename)
	if name == "" || !strings.HasSuffix(name, "."+font.Extension) {
		return nil, storage.Object{}, apperr.NotFound("Font not found")
	}
	rc, obj, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.Object{}, apperr.NotFound("Font not found")
		}
		return nil, storage.Object{}, apperr.IO("Failed to read the font file.", err)
	}
	return rc, obj, nil
}

// Store exposes the backend, e.g. for presigned redirects.
func (s *Service) Store() storage.Backend { return s.store }

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
