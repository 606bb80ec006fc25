// Package fetch resolves datasets through an ordered chain of sources with
// a key-value cache as the last resort.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mvps-vip/showcase/internal/kvcache"
	"github.com/mvps-vip/showcase/internal/logging"
)

// ErrExhausted is set on an Outcome when every source failed and the cache
// had nothing usable.
var ErrExhausted = errors.New("all sources exhausted")

// ErrTimeout is recorded for a tier that did not answer within TierTimeout.
var ErrTimeout = errors.New("fetch timed out")

// SourceCache is the name reported for values served from the cache.
const SourceCache = "cache"

// Resolve results reported to an Observer.
const (
	ResultFresh     = "fresh"
	ResultCached    = "cached"
	ResultExhausted = "exhausted"
	ResultCancelled = "cancelled"
)

// Cache abstracts the key-value cache so the resolver can be tested without
// a real store. *kvcache.Cache satisfies it.
type Cache interface {
	Lookup(ctx context.Context, key string, out any) kvcache.Result
	Set(ctx context.Context, key string, value any)
}

// Observer is told the result of every resolve chain that actually ran.
// Callers that joined an in-flight chain are not reported again.
type Observer func(key, source, result string)

// Config holds the resolver policy.
type Config struct {
	// TierTimeout bounds each source attempt. Zero means no bound.
	TierTimeout time.Duration
	// Coalesce shares one in-flight chain between concurrent callers of the
	// same key.
	Coalesce bool
	// UseCache enables the cache read after every source failed. Successful
	// fetches are written to the cache regardless.
	UseCache bool
	Observer Observer
}

// Outcome is the result of one Resolve call.
type Outcome[T any] struct {
	Key      string
	Value    T
	Found    bool
	Source   string
	Cached   bool
	Shared   bool
	Attempts []Attempt
	Err      error
}

// Resolver runs its sources in order and caches the first success.
type Resolver[T any] struct {
	sources []Source[T]
	cache   Cache
	cfg     Config
	group   singleflight.Group
}

// NewResolver builds a resolver over sources in preference order. cache may
// be nil, in which case nothing is written or read back.
func NewResolver[T any](sources []Source[T], cache Cache, cfg Config) *Resolver[T] {
	return &Resolver[T]{sources: sources, cache: cache, cfg: cfg}
}

// Sources returns the tier names in the order they are tried.
func (r *Resolver[T]) Sources() []string {
	names := make([]string, 0, len(r.sources)+1)
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	if r.cfg.UseCache && r.cache != nil {
		names = append(names, SourceCache)
	}
	return names
}

// Resolve returns the value for key from the first source that succeeds,
// falling back to the cache. It never panics on source failure and reports
// total failure through Outcome.Err.
//
// A coalesced chain is detached from the cancellation of the caller that
// started it, so the other callers still get a value. A caller whose ctx ends
// returns ctx.Err() immediately.
func (r *Resolver[T]) Resolve(ctx context.Context, key string) Outcome[T] {
	if !r.cfg.Coalesce {
		return r.resolve(ctx, key)
	}

	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		return r.resolve(shared, key), nil
	})
	select {
	case <-ctx.Done():
		return Outcome[T]{Key: key, Err: ctx.Err()}
	case res := <-ch:
		out := res.Val.(Outcome[T])
		out.Shared = res.Shared
		out.Attempts = append([]Attempt(nil), out.Attempts...)
		return out
	}
}

func (r *Resolver[T]) resolve(ctx context.Context, key string) Outcome[T] {
	log := logging.FromContext(ctx).With("dataset", key)
	var attempts []Attempt

	for _, src := range r.sources {
		if !src.IsAvailable() {
			attempts = append(attempts, Attempt{Source: src.Name(), Err: ErrUnavailable})
			continue
		}

		v, err := r.attempt(ctx, src)
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.observe(key, src.Name(), ResultCancelled)
			return Outcome[T]{Key: key, Attempts: attempts, Err: ctxErr}
		}
		if err != nil {
			log.Debug("source failed", "source", src.Name(), "err", err)
			attempts = append(attempts, Attempt{Source: src.Name(), Err: err})
			continue
		}

		attempts = append(attempts, Attempt{Source: src.Name()})
		if r.cache != nil {
			r.cache.Set(ctx, key, v)
		}
		r.observe(key, src.Name(), ResultFresh)
		return Outcome[T]{Key: key, Value: v, Found: true, Source: src.Name(), Attempts: attempts}
	}

	if r.cfg.UseCache && r.cache != nil {
		var v T
		res := r.cache.Lookup(ctx, key, &v)
		if res.Found() {
			attempts = append(attempts, Attempt{Source: SourceCache})
			log.Debug("serving cached value")
			r.observe(key, SourceCache, ResultCached)
			return Outcome[T]{Key: key, Value: v, Found: true, Source: SourceCache, Cached: true, Attempts: attempts}
		}
		cacheErr := res.Err
		if cacheErr == nil {
			cacheErr = errors.New("no cached value")
		}
		attempts = append(attempts, Attempt{Source: SourceCache, Err: cacheErr})
	}

	r.observe(key, "", ResultExhausted)
	return Outcome[T]{Key: key, Attempts: attempts, Err: exhausted(attempts)}
}

// attempt runs one source, bounded by TierTimeout when set. The fetch runs in
// its own goroutine so a source that ignores ctx cannot stall the chain past
// the timeout.
func (r *Resolver[T]) attempt(ctx context.Context, src Source[T]) (T, error) {
	if r.cfg.TierTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.TierTimeout)
		defer cancel()
	}

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- result{err: fmt.Errorf("source panicked: %v", p)}
			}
		}()
		v, err := src.Fetch(ctx)
		ch <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	case res := <-ch:
		return res.v, res.err
	}
}

func (r *Resolver[T]) observe(key, source, result string) {
	if r.cfg.Observer != nil {
		r.cfg.Observer(key, source, result)
	}
}

func exhausted(attempts []Attempt) error {
	errs := []error{ErrExhausted}
	for _, a := range attempts {
		if a.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Source, a.Err))
		}
	}
	return errors.Join(errs...)
}
