package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/mvps-vip/showcase/internal/models"
)

// MemoryRepository is a process-local Repository. serve uses it when no
// MongoDB URI is configured so the admin API still works against the mock
// catalog; tests use it as a fake.
type MemoryRepository struct {
	mu       sync.RWMutex
	movies   map[string]models.Movie
	settings *models.Settings
}

// NewMemoryRepository seeds the repository from c.
func NewMemoryRepository(c models.Catalog) *MemoryRepository {
	r := &MemoryRepository{movies: make(map[string]models.Movie)}
	for _, m := range c.Movies {
		r.movies[m.ID] = m
	}
	s := c.Settings
	r.settings = &s
	return r
}

func (r *MemoryRepository) ListMovies(ctx context.Context) ([]models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := models.Catalog{Movies: make([]models.Movie, 0, len(r.movies))}
	for _, m := range r.movies {
		c.Movies = append(c.Movies, m)
	}
	c.SortMovies()
	return c.Movies, nil
}

func (r *MemoryRepository) GetMovie(ctx context.Context, id string) (models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.movies[id]
	if !ok {
		return models.Movie{}, fmt.Errorf("movie %s: %w", id, models.ErrNotFound)
	}
	return m, nil
}

func (r *MemoryRepository) CountMovies(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.movies), nil
}

func (r *MemoryRepository) InsertMovie(ctx context.Context, m models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[m.ID]; ok {
		return fmt.Errorf("movie %s already exists", m.ID)
	}
	r.movies[m.ID] = m
	return nil
}

func (r *MemoryRepository) ReplaceMovie(ctx context.Context, m models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[m.ID]; !ok {
		return fmt.Errorf("movie %s: %w", m.ID, models.ErrNotFound)
	}
	r.movies[m.ID] = m
	return nil
}

func (r *MemoryRepository) UpsertMovie(ctx context.Context, m models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movies[m.ID] = m
	return nil
}

func (r *MemoryRepository) DeleteMovie(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[id]; !ok {
		return fmt.Errorf("movie %s: %w", id, models.ErrNotFound)
	}
	delete(r.movies, id)
	return nil
}

func (r *MemoryRepository) GetSettings(ctx context.Context) (models.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return models.Settings{}, fmt.Errorf("settings: %w", models.ErrNotFound)
	}
	return *r.settings, nil
}

func (r *MemoryRepository) PutSettings(ctx context.Context, s models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = &s
	return nil
}
