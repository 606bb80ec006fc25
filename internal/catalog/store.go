// Package catalog owns the current movie catalog. Readers subscribe to it;
// admin writes go through it to the repository and trigger a debounced
// refresh.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mvps-vip/showcase/internal/docstore"
	"github.com/mvps-vip/showcase/internal/fetch"
	"github.com/mvps-vip/showcase/internal/logging"
	"github.com/mvps-vip/showcase/internal/models"
)

var (
	// ErrNotFound is returned for an unknown movie id.
	ErrNotFound = models.ErrNotFound
	// ErrNoData is returned when no tier could produce a catalog.
	ErrNoData = errors.New("catalog unavailable")
	// ErrReadOnly is returned by mutations when no repository is attached.
	ErrReadOnly = errors.New("catalog is read-only")
)

// Resolver produces the catalog dataset. *fetch.Resolver[models.Catalog]
// satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, key string) fetch.Outcome[models.Catalog]
}

type Options struct {
	// Key is the dataset key the catalog is resolved and cached under.
	Key string
	// Debounce collapses ScheduleRefresh calls made within this window.
	Debounce time.Duration
}

// Store holds the latest catalog and fans changes out to subscribers.
type Store struct {
	resolver Resolver
	repo     docstore.Repository
	opts     Options
	newID    func() string

	mu      sync.RWMutex
	current models.Catalog
	source  string
	loaded  bool
	subs    map[int]chan models.Catalog
	nextSub int

	timerMu sync.Mutex
	timer   *time.Timer

	// writeMu serialises admin mutations so order assignment and featured
	// bookkeeping see a consistent repository.
	writeMu sync.Mutex
}

// New returns an empty store. repo may be nil for a read-only store.
func New(resolver Resolver, repo docstore.Repository, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = "catalog"
	}
	return &Store{
		resolver: resolver,
		repo:     repo,
		opts:     opts,
		newID:    uuid.NewString,
		subs:     make(map[int]chan models.Catalog),
	}
}

// Current returns the latest catalog and whether one has been loaded.
func (s *Store) Current() (models.Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.loaded
}

// Source names the tier the current catalog came from.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Ensure returns the current catalog, refreshing once if none is loaded.
func (s *Store) Ensure(ctx context.Context) (models.Catalog, error) {
	if c, ok := s.Current(); ok {
		return c, nil
	}
	out := s.Refresh(ctx)
	if !out.Found {
		return models.Catalog{}, fmt.Errorf("%w: %w", ErrNoData, out.Err)
	}
	return out.Value, nil
}

// Refresh resolves the catalog and publishes it when a tier produced one.
// A failed refresh leaves the current catalog in place.
func (s *Store) Refresh(ctx context.Context) fetch.Outcome[models.Catalog] {
	out := s.resolver.Resolve(ctx, s.opts.Key)
	if !out.Found {
		logging.FromContext(ctx).Warn("catalog refresh failed", "err", out.Err)
		return out
	}
	c := out.Value
	c.SortMovies()
	s.publish(c, out.Source)
	return out
}

// Watch refreshes every interval until ctx is done. A non-positive interval
// returns immediately.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// ScheduleRefresh refreshes once Debounce has passed without another call.
// The refresh outlives ctx's cancellation but keeps its values.
func (s *Store) ScheduleRefresh(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.opts.Debounce, func() {
		s.Refresh(ctx)
	})
}

// Close stops any pending debounced refresh and closes subscriber channels.
func (s *Store) Close() {
	s.timerMu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// Subscribe returns a channel that receives every published catalog and a
// func to stop receiving. The channel holds at most one pending value; a slow
// reader sees only the newest catalog. The current catalog, if any, is
// delivered immediately.
func (s *Store) Subscribe() (<-chan models.Catalog, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan models.Catalog, 1)
	s.subs[id] = ch
	if s.loaded {
		ch <- s.current
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				close(c)
				delete(s.subs, id)
			}
		})
	}
}

func (s *Store) publish(c models.Catalog, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
	s.source = source
	s.loaded = true
	for _, ch := range s.subs {
		offerLatest(ch, c)
	}
}

// offerLatest replaces any unread value in ch with c without blocking.
func offerLatest(ch chan models.Catalog, c models.Catalog) {
	select {
	case ch <- c:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- c:
	default:
	}
}

// update applies fn to a copy of the current catalog and publishes it, so
// readers see an admin write before the debounced refresh lands.
func (s *Store) update(ctx context.Context, fn func(c *models.Catalog)) {
	s.mu.RLock()
	loaded := s.loaded
	c := s.current
	c.Movies = append([]models.Movie(nil), s.current.Movies...)
	source := s.source
	s.mu.RUnlock()
	if loaded {
		fn(&c)
		c.SortMovies()
		c.UpdatedAt = time.Now().UTC()
		s.publish(c, source)
	}
	s.ScheduleRefresh(ctx)
}

func (s *Store) writable() error {
	if s.repo == nil {
		return ErrReadOnly
	}
	return nil
}

// AddMovie validates m, assigns it a new id and appends it after the
// existing movies.
func (s *Store) AddMovie(ctx context.Context, m models.Movie) (models.Movie, error) {
	if err := s.writable(); err != nil {
		return models.Movie{}, err
	}
	if err := m.Validate(); err != nil {
		return models.Movie{}, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.repo.CountMovies(ctx)
	if err != nil {
		return models.Movie{}, err
	}
	m.ID = s.newID()
	m.Order = n
	if err := s.repo.InsertMovie(ctx, m); err != nil {
		return models.Movie{}, err
	}
	logging.FromContext(ctx).Info("movie added", "id", m.ID, "title", m.Title)
	s.update(ctx, func(c *models.Catalog) { c.Movies = append(c.Movies, m) })
	return m, nil
}

// UpdateMovie replaces an existing movie. The stored order is kept unless m
// sets a non-zero one.
func (s *Store) UpdateMovie(ctx context.Context, m models.Movie) (models.Movie, error) {
	if err := s.writable(); err != nil {
		return models.Movie{}, err
	}
	if strings.TrimSpace(m.ID) == "" {
		return models.Movie{}, fmt.Errorf("movie id is required: %w", models.ErrInvalid)
	}
	if err := m.Validate(); err != nil {
		return models.Movie{}, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.repo.GetMovie(ctx, m.ID)
	if err != nil {
		return models.Movie{}, err
	}
	if m.Order == 0 {
		m.Order = existing.Order
	}
	if err := s.repo.ReplaceMovie(ctx, m); err != nil {
		return models.Movie{}, err
	}
	s.update(ctx, func(c *models.Catalog) {
		for i := range c.Movies {
			if c.Movies[i].ID == m.ID {
				c.Movies[i] = m
			}
		}
	})
	return m, nil
}

// RemoveMovie deletes a movie, clearing the featured movie first when it
// points at it.
func (s *Store) RemoveMovie(ctx context.Context, id string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.repo.GetMovie(ctx, id); err != nil {
		return err
	}
	settings, err := s.repo.GetSettings(ctx)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	clearFeatured := err == nil && settings.FeaturedMovieID == id
	if clearFeatured {
		settings.FeaturedMovieID = ""
		if err := s.repo.PutSettings(ctx, settings); err != nil {
			return err
		}
	}
	if err := s.repo.DeleteMovie(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("movie removed", "id", id, "was_featured", clearFeatured)
	s.update(ctx, func(c *models.Catalog) {
		kept := c.Movies[:0]
		for _, m := range c.Movies {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		c.Movies = kept
		if c.Settings.FeaturedMovieID == id {
			c.Settings.FeaturedMovieID = ""
		}
	})
	return nil
}

// UpdateSettings applies patch to the stored settings. A featured movie id in
// the patch must name an existing movie.
func (s *Store) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	if err := s.writable(); err != nil {
		return models.Settings{}, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.updateSettings(ctx, patch)
}

func (s *Store) updateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	current, err := s.repo.GetSettings(ctx)
	if errors.Is(err, models.ErrNotFound) {
		current, err = models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return models.Settings{}, err
	}
	if next.FeaturedMovieID != "" && next.FeaturedMovieID != current.FeaturedMovieID {
		if _, err := s.repo.GetMovie(ctx, next.FeaturedMovieID); err != nil {
			return models.Settings{}, err
		}
	}
	if err := s.repo.PutSettings(ctx, next); err != nil {
		return models.Settings{}, err
	}
	s.update(ctx, func(c *models.Catalog) { c.Settings = next })
	return next, nil
}

// SetFeatured points the featured banner at id. An empty id clears it.
func (s *Store) SetFeatured(ctx context.Context, id string) (models.Settings, error) {
	if err := s.writable(); err != nil {
		return models.Settings{}, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.updateSettings(ctx, models.SettingsPatch{FeaturedMovieID: &id})
}
