package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/mvps-vip/showcase/internal/models"
)

// SourceName is the tier name reported for values read from the store.
const SourceName = "document"

// Fetcher looks up one record by collection and id.
type Fetcher interface {
	Fetch(ctx context.Context, datasetKind, recordID string, out any) error
}

// RecordSource serves a single record as a resolver tier.
type RecordSource[T any] struct {
	fetcher Fetcher
	kind    string
	id      string
}

// NewRecordSource returns a source for the record kind/id. A nil fetcher
// yields an unavailable source.
func NewRecordSource[T any](f Fetcher, kind, id string) *RecordSource[T] {
	return &RecordSource[T]{fetcher: f, kind: kind, id: id}
}

func (s *RecordSource[T]) Name() string      { return SourceName }
func (s *RecordSource[T]) IsAvailable() bool { return s.fetcher != nil }

// Fetch returns the fetcher's error unchanged.
func (s *RecordSource[T]) Fetch(ctx context.Context) (T, error) {
	var v T
	err := s.fetcher.Fetch(ctx, s.kind, s.id, &v)
	return v, err
}

// CatalogReader is the subset of Repository needed to assemble a catalog.
type CatalogReader interface {
	ListMovies(ctx context.Context) ([]models.Movie, error)
	GetSettings(ctx context.Context) (models.Settings, error)
}

// CatalogSource builds the whole catalog dataset from the movies collection
// and the settings record.
type CatalogSource struct {
	reader CatalogReader
	now    func() time.Time
}

func NewCatalogSource(r CatalogReader) *CatalogSource {
	return &CatalogSource{reader: r, now: time.Now}
}

func (s *CatalogSource) Name() string      { return SourceName }
func (s *CatalogSource) IsAvailable() bool { return s.reader != nil }

func (s *CatalogSource) Fetch(ctx context.Context) (models.Catalog, error) {
	movies, err := s.reader.ListMovies(ctx)
	if err != nil {
		return models.Catalog{}, err
	}
	settings, err := s.reader.GetSettings(ctx)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("catalog settings: %w", err)
	}
	c := models.Catalog{
		Version:   models.CatalogVersion,
		Movies:    movies,
		Settings:  settings,
		UpdatedAt: s.now().UTC(),
	}
	c.SortMovies()
	return c, nil
}
