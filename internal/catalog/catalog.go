// Package catalog holds the catalog rules: the department-category constraint, the category
// tree, product records with their slugs and soft delete, and product image sequences.
package catalog

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/models"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

// FileStore keeps the bytes of product images.
type FileStore interface {
	Save(id, name string, r io.Reader) (int64, error)
	Delete(id string) error
	URL(id, name string) string
}

// Recorder receives operation outcomes, typically Prometheus counters.
type Recorder interface {
	RecordOperation(resource, operation string, err error)
	RecordUpload(accepted bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string, error) {}
func (nopRecorder) RecordUpload(bool)                     {}

// Service runs every catalog operation. Each write runs in one transaction.
type Service struct {
	store   *store.Store
	files   FileStore
	metrics Recorder
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithFiles(f FileStore) Option {
	return func(s *Service) { s.files = f }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now, used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:   st,
		metrics: nopRecorder{},
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is the current time at the precision both MySQL DATETIME and SQLite keep.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *Service) withURL(m models.Media) models.Media {
	if s.files != nil {
		m.URL = s.files.URL(m.UUID, m.FileName)
	}
	return m
}
