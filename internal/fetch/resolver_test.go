package fetch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mvps-vip/showcase/internal/kvcache"
	"github.com/mvps-vip/showcase/internal/logging"
)

type dataset struct {
	Version int `json:"version"`
}

// mockSource implements Source for testing.
type mockSource struct {
	name      string
	available bool
	calls     atomic.Int32
	fetchFn   func(ctx context.Context) (dataset, error)
}

func (m *mockSource) Name() string      { return m.name }
func (m *mockSource) IsAvailable() bool { return m.available }
func (m *mockSource) Fetch(ctx context.Context) (dataset, error) {
	m.calls.Add(1)
	return m.fetchFn(ctx)
}

func returns(name string, v int) *mockSource {
	return &mockSource{name: name, available: true, fetchFn: func(context.Context) (dataset, error) {
		return dataset{Version: v}, nil
	}}
}

func fails(name string) *mockSource {
	return &mockSource{name: name, available: true, fetchFn: func(context.Context) (dataset, error) {
		return dataset{}, errors.New(name + " down")
	}}
}

func newCache() *kvcache.Cache {
	return kvcache.New(kvcache.NewMemoryStore())
}

func cached(t *testing.T, c *kvcache.Cache, key string) (dataset, bool) {
	t.Helper()
	var d dataset
	ok := c.Get(context.Background(), key, &d)
	return d, ok
}

func defaultCfg() Config {
	return Config{UseCache: true, Coalesce: true}
}

func TestResolve_PrimarySucceeds(t *testing.T) {
	cache := newCache()
	primary, secondary := returns("api", 3), returns("document", 2)
	r := NewResolver([]Source[dataset]{primary, secondary}, cache, defaultCfg())

	out := r.Resolve(context.Background(), "catalog")

	if !out.Found || out.Value.Version != 3 || out.Source != "api" || out.Cached {
		t.Fatalf("Resolve() = %+v", out)
	}
	if out.Err != nil {
		t.Errorf("unexpected Err: %v", out.Err)
	}
	if secondary.calls.Load() != 0 {
		t.Error("secondary should not be consulted after primary success")
	}
	if d, ok := cached(t, cache, "catalog"); !ok || d.Version != 3 {
		t.Errorf("cache = %+v, %v; want version 3", d, ok)
	}
}

func TestResolve_SecondaryOverwritesCache(t *testing.T) {
	cache := newCache()
	cache.Set(context.Background(), "catalog", dataset{Version: 1})
	r := NewResolver([]Source[dataset]{fails("api"), returns("document", 2)}, cache, defaultCfg())

	out := r.Resolve(context.Background(), "catalog")

	if !out.Found || out.Value.Version != 2 || out.Source != "document" {
		t.Fatalf("Resolve() = %+v", out)
	}
	if d, _ := cached(t, cache, "catalog"); d.Version != 2 {
		t.Errorf("cache version = %d, want 2", d.Version)
	}
	if len(out.Attempts) != 2 || out.Attempts[0].Err == nil || out.Attempts[1].Err != nil {
		t.Errorf("attempts = %+v", out.Attempts)
	}
}

func TestResolve_FallsBackToCache(t *testing.T) {
	cache := newCache()
	cache.Set(context.Background(), "catalog", dataset{Version: 1})
	r := NewResolver([]Source[dataset]{fails("api"), fails("document")}, cache, defaultCfg())

	out := r.Resolve(context.Background(), "catalog")

	if !out.Found || !out.Cached || out.Source != SourceCache || out.Value.Version != 1 {
		t.Fatalf("Resolve() = %+v", out)
	}
	if d, _ := cached(t, cache, "catalog"); d.Version != 1 {
		t.Error("cache fallback must not modify the cached value")
	}
}

func TestResolve_AllMissIsExhausted(t *testing.T) {
	r := NewResolver([]Source[dataset]{fails("api"), fails("document")}, newCache(), defaultCfg())

	out := r.Resolve(context.Background(), "catalog")

	if out.Found {
		t.Fatalf("expected absent, got %+v", out)
	}
	if !errors.Is(out.Err, ErrExhausted) {
		t.Fatalf("Err = %v, want ErrExhausted", out.Err)
	}
	for _, want := range []string{"api: api down", "document: document down", "cache: no cached value"} {
		if !strings.Contains(out.Err.Error(), want) {
			t.Errorf("Err %q missing %q", out.Err, want)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	cache := newCache()
	r := NewResolver([]Source[dataset]{fails("api"), returns("document", 2)}, cache, defaultCfg())

	first := r.Resolve(context.Background(), "catalog")
	second := r.Resolve(context.Background(), "catalog")

	if first.Value != second.Value || !second.Found {
		t.Errorf("first=%+v second=%+v", first, second)
	}
	if d, _ := cached(t, cache, "catalog"); d.Version != 2 {
		t.Errorf("cache version = %d, want 2", d.Version)
	}
	keys, _ := cache.Entries(context.Background())
	if len(keys) != 1 {
		t.Errorf("expected exactly one cache entry, got %d", len(keys))
	}
}

func TestResolve_SkipsUnavailableSources(t *testing.T) {
	off := &mockSource{name: "api", available: false}
	r := NewResolver([]Source[dataset]{off, returns("mock", 7)}, nil, defaultCfg())

	out := r.Resolve(context.Background(), "catalog")

	if out.Source != "mock" || out.Value.Version != 7 {
		t.Fatalf("Resolve() = %+v", out)
	}
	if off.calls.Load() != 0 {
		t.Error("unavailable source was fetched")
	}
	if !out.Attempts[0].Skipped() {
		t.Errorf("first attempt should be skipped: %+v", out.Attempts[0])
	}
}

func TestResolve_NoCacheWhenDisabled(t *testing.T) {
	cache := newCache()
	cache.Set(context.Background(), "catalog", dataset{Version: 1})
	cfg := defaultCfg()
	cfg.UseCache = false
	r := NewResolver([]Source[dataset]{fails("api")}, cache, cfg)

	out := r.Resolve(context.Background(), "catalog")

	if out.Found {
		t.Errorf("expected no cache fallback, got %+v", out)
	}
	if got := r.Sources(); len(got) != 1 || got[0] != "api" {
		t.Errorf("Sources() = %v", got)
	}
}

func TestResolve_StillWritesCacheWhenFallbackDisabled(t *testing.T) {
	cache := newCache()
	cfg := defaultCfg()
	cfg.UseCache = false
	r := NewResolver([]Source[dataset]{returns("api", 4)}, cache, cfg)

	r.Resolve(context.Background(), "catalog")

	if d, ok := cached(t, cache, "catalog"); !ok || d.Version != 4 {
		t.Errorf("cache = %+v, %v", d, ok)
	}
}

func TestResolve_CorruptCacheIsReported(t *testing.T) {
	store := kvcache.NewMemoryStore()
	_ = store.Set(context.Background(), "catalog", "{oops")
	r := NewResolver([]Source[dataset]{fails("api")}, kvcache.New(store), defaultCfg())

	out := r.Resolve(context.Background(), "catalog")

	if out.Found || !errors.Is(out.Err, kvcache.ErrCorrupt) {
		t.Errorf("Resolve() = %+v, want ErrCorrupt in Err", out)
	}
}

func TestResolve_TierTimeout(t *testing.T) {
	slow := &mockSource{name: "api", available: true, fetchFn: func(ctx context.Context) (dataset, error) {
		time.Sleep(time.Second)
		return dataset{Version: 99}, nil
	}}
	cfg := defaultCfg()
	cfg.TierTimeout = 20 * time.Millisecond
	r := NewResolver([]Source[dataset]{slow, returns("document", 2)}, nil, cfg)

	start := time.Now()
	out := r.Resolve(context.Background(), "catalog")

	if out.Source != "document" {
		t.Fatalf("Resolve() = %+v", out)
	}
	if !errors.Is(out.Attempts[0].Err, ErrTimeout) {
		t.Errorf("first attempt err = %v, want ErrTimeout", out.Attempts[0].Err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("tier timeout did not bound the slow source")
	}
}

func TestResolve_ContextCancelled(t *testing.T) {
	cache := newCache()
	cache.Set(context.Background(), "catalog", dataset{Version: 1})
	blocking := &mockSource{name: "api", available: true, fetchFn: func(ctx context.Context) (dataset, error) {
		<-ctx.Done()
		return dataset{}, ctx.Err()
	}}
	cfg := defaultCfg()
	cfg.Coalesce = false
	r := NewResolver([]Source[dataset]{blocking}, cache, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	out := r.Resolve(ctx, "catalog")

	if out.Found || !errors.Is(out.Err, context.Canceled) {
		t.Errorf("Resolve() = %+v, want cancellation", out)
	}
}

func TestResolve_SourcePanicFallsThrough(t *testing.T) {
	bad := &mockSource{name: "api", available: true, fetchFn: func(context.Context) (dataset, error) {
		panic("boom")
	}}
	r := NewResolver([]Source[dataset]{bad, returns("document", 2)}, nil, defaultCfg())

	out := r.Resolve(context.Background(), "catalog")

	if out.Source != "document" {
		t.Errorf("Resolve() = %+v", out)
	}
}

func TestResolve_CoalescesConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	src := &mockSource{name: "api", available: true, fetchFn: func(context.Context) (dataset, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return dataset{Version: 5}, nil
	}}
	r := NewResolver([]Source[dataset]{src}, newCache(), defaultCfg())

	const callers = 8
	var wg sync.WaitGroup
	outs := make([]Outcome[dataset], callers)
	wg.Add(1)
	go func() {
		defer wg.Done()
		outs[0] = r.Resolve(context.Background(), "catalog")
	}()
	<-started
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i] = r.Resolve(context.Background(), "catalog")
		}(i)
	}
	// Give the followers time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
	for i, o := range outs {
		if o.Value.Version != 5 {
			t.Errorf("caller %d got %+v", i, o)
		}
	}
}

func TestResolve_CoalescedChainOutlivesCancelledCaller(t *testing.T) {
	cache := newCache()
	cache.Set(context.Background(), "catalog", dataset{Version: 1})
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	primary := &mockSource{name: "api", available: true, fetchFn: func(context.Context) (dataset, error) {
		started <- struct{}{}
		<-release
		return dataset{}, errors.New("api down")
	}}
	r := NewResolver([]Source[dataset]{primary, fails("document")}, cache, defaultCfg())

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan Outcome[dataset], 1)
	go func() { first <- r.Resolve(ctx, "catalog") }()
	<-started

	second := make(chan Outcome[dataset], 1)
	go func() { second <- r.Resolve(context.Background(), "catalog") }()
	// Give the second caller time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)

	cancel()
	if out := <-first; !errors.Is(out.Err, context.Canceled) {
		t.Errorf("cancelled caller got %+v, want context.Canceled", out)
	}

	close(release)
	out := <-second
	if !out.Found || out.Source != SourceCache || out.Value.Version != 1 {
		t.Errorf("remaining caller got %+v, want cached version 1", out)
	}
	if n := primary.calls.Load(); n != 1 {
		t.Errorf("primary fetched %d times, want 1", n)
	}
}

func TestResolve_NoCoalescing(t *testing.T) {
	src := returns("api", 1)
	cfg := defaultCfg()
	cfg.Coalesce = false
	r := NewResolver([]Source[dataset]{src}, nil, cfg)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Resolve(context.Background(), "catalog")
		}()
	}
	wg.Wait()

	if n := src.calls.Load(); n != 4 {
		t.Errorf("source fetched %d times, want 4", n)
	}
}

func TestResolve_Observer(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	cfg := defaultCfg()
	cfg.Observer = func(key, source, result string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, key+"/"+source+"/"+result)
	}
	cache := newCache()
	ok := NewResolver([]Source[dataset]{returns("api", 1)}, cache, cfg)
	bad := NewResolver([]Source[dataset]{fails("api")}, cache, cfg)

	ok.Resolve(context.Background(), "catalog")
	bad.Resolve(context.Background(), "catalog")
	bad.Resolve(context.Background(), "settings")

	want := []string{"catalog/api/fresh", "catalog/cache/cached", "settings//exhausted"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Errorf("observed %v, want %v", seen, want)
	}
}

func TestResolve_LogsSourceFailures(t *testing.T) {
	ctx, buf := logging.NewTestContext(logging.Flags{Verbose: true})
	r := NewResolver([]Source[dataset]{fails("api"), returns("document", 1)}, nil, defaultCfg())

	r.Resolve(ctx, "catalog")

	if !strings.Contains(buf.String(), "source failed") || !strings.Contains(buf.String(), "api down") {
		t.Errorf("expected debug log of the api failure, got %q", buf.String())
	}
}

func TestStaticAndFuncSources(t *testing.T) {
	s := NewStaticSource("mock", dataset{Version: 8})
	if v, err := s.Fetch(context.Background()); err != nil || v.Version != 8 || !s.IsAvailable() {
		t.Errorf("StaticSource.Fetch() = %+v, %v", v, err)
	}
	f := NewFuncSource[dataset]("fn", nil)
	if f.IsAvailable() {
		t.Error("FuncSource with nil fn should be unavailable")
	}
}
