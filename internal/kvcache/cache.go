// Package kvcache persists dataset values as JSON text in a string-keyed
// store. Writes never fail outward; reads report hit, miss or storage error.
package kvcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/mvps-vip/showcase/internal/logging"
)

// ErrCorrupt is returned in a Result when a stored value does not decode.
var ErrCorrupt = errors.New("corrupt cache value")

// Store is a raw string key-value store. Get returns ("", false, nil) on a
// miss and a non-nil error only when the store itself failed.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// ModTimer is implemented by stores that track when a key was last written.
type ModTimer interface {
	ModTime(ctx context.Context, key string) (time.Time, bool)
}

type Status int

const (
	Miss Status = iota
	Hit
	StorageError
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case StorageError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of a Lookup. Err is set only for StorageError.
type Result struct {
	Status Status
	Err    error
}

func (r Result) Found() bool { return r.Status == Hit }

// Observer is told about every cache operation ("get" or "set").
type Observer func(op string, status Status)

type Cache struct {
	store    Store
	observer Observer
}

type Option func(*Cache)

func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{store: store}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup reads key and decodes it into out. out is only written on a Hit.
func (c *Cache) Lookup(ctx context.Context, key string, out any) Result {
	res := c.lookup(ctx, key, out)
	c.observe("get", res.Status)
	if res.Status == StorageError {
		logging.FromContext(ctx).Debug("cache read failed", "key", key, "err", res.Err)
	}
	return res
}

func (c *Cache) lookup(ctx context.Context, key string, out any) Result {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return Result{Status: StorageError, Err: fmt.Errorf("reading %s: %w", key, err)}
	}
	if !ok {
		return Result{Status: Miss}
	}
	if err := decodeInto(raw, out); err != nil {
		return Result{Status: StorageError, Err: fmt.Errorf("decoding %s: %w: %v", key, ErrCorrupt, err)}
	}
	return Result{Status: Hit}
}

// decodeInto unmarshals raw into a fresh value of out's element type and
// copies it into out only when decoding succeeded.
func decodeInto(raw string, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return json.Unmarshal([]byte(raw), out)
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(raw), fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

// Get reports whether key was found and decoded into out. Misses, corrupt
// values and store failures all read as absent.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	return c.Lookup(ctx, key, out).Found()
}

// Set encodes value and stores it under key. Failures are logged and dropped.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	status := Hit
	if err := c.set(ctx, key, value); err != nil {
		status = StorageError
		logging.FromContext(ctx).Debug("cache write failed", "key", key, "err", err)
	}
	c.observe("set", status)
}

func (c *Cache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Entry describes one stored key for operator tooling.
type Entry struct {
	Key       string
	Size      int
	UpdatedAt time.Time
	Valid     bool
}

// Entries lists every stored key with its size and, when the store knows it,
// the last write time.
func (c *Cache) Entries(ctx context.Context) ([]Entry, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cache keys: %w", err)
	}
	mt, _ := c.store.(ModTimer)
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		raw, ok, err := c.store.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		e := Entry{Key: k, Size: len(raw), Valid: json.Valid([]byte(raw))}
		if mt != nil {
			if t, ok := mt.ModTime(ctx, k); ok {
				e.UpdatedAt = t
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Clear deletes every key and returns how many were removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing cache keys: %w", err)
	}
	var errs []error
	n := 0
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

func (c *Cache) Close() error {
	return c.store.Close()
}

func (c *Cache) observe(op string, s Status) {
	if c.observer != nil {
		c.observer(op, s)
	}
}
