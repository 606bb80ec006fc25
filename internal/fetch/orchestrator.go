package fetch

import (
	"context"
	"sync"
)

// Report is the type-erased view of an Outcome used when several datasets of
// different types are resolved together.
type Report struct {
	Key      string          `json:"dataset"`
	Found    bool            `json:"found"`
	Source   string          `json:"source,omitempty"`
	Cached   bool            `json:"cached"`
	Value    any             `json:"value,omitempty"`
	Attempts []AttemptReport `json:"attempts,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type AttemptReport struct {
	Source  string `json:"source"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report flattens the outcome for display and JSON output.
func (o Outcome[T]) Report() Report {
	rep := Report{Key: o.Key, Found: o.Found, Source: o.Source, Cached: o.Cached}
	if o.Found {
		rep.Value = o.Value
	}
	if o.Err != nil {
		rep.Error = o.Err.Error()
	}
	for _, a := range o.Attempts {
		ar := AttemptReport{Source: a.Source, Skipped: a.Skipped()}
		if a.Err != nil && !ar.Skipped {
			ar.Error = a.Err.Error()
		}
		rep.Attempts = append(rep.Attempts, ar)
	}
	return rep
}

// Job resolves one dataset and reports the result.
type Job func(ctx context.Context) Report

// Job returns a Job that resolves key with r.
func (r *Resolver[T]) Job(key string) Job {
	return func(ctx context.Context) Report {
		return r.Resolve(ctx, key).Report()
	}
}

// ResolveAll runs jobs concurrently, at most maxConcurrent at a time, and
// returns the reports keyed by dataset. onComplete, when set, is called as
// each job finishes and may be called from several goroutines.
func ResolveAll(ctx context.Context, jobs map[string]Job, maxConcurrent int, onComplete func(Report)) map[string]Report {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	reports := make(map[string]Report, len(jobs))
	var mu sync.Mutex
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for key, job := range jobs {
		wg.Add(1)
		go func(key string, job Job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rep := job(ctx)
			rep.Key = key

			mu.Lock()
			reports[key] = rep
			mu.Unlock()

			if onComplete != nil {
				onComplete(rep)
			}
		}(key, job)
	}

	wg.Wait()
	return reports
}
