package display

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/mvps-vip/showcase/internal/fetch"
)

// OutputJSON writes pretty-printed JSON to the given writer.
func OutputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ResolveJSON is the `resolve --json` document.
type ResolveJSON struct {
	Datasets   []fetch.Report `json:"datasets"`
	ResolvedAt string         `json:"resolved_at"`
	DurationMs int64          `json:"duration_ms"`
}

// OutputResolveJSON writes reports sorted by dataset key.
func OutputResolveJSON(w io.Writer, reports map[string]fetch.Report, duration time.Duration) error {
	return OutputJSON(w, ResolveJSON{
		Datasets:   SortedReports(reports),
		ResolvedAt: time.Now().UTC().Format(time.RFC3339),
		DurationMs: duration.Milliseconds(),
	})
}

// SortedReports flattens reports into key order.
func SortedReports(reports map[string]fetch.Report) []fetch.Report {
	out := make([]fetch.Report, 0, len(reports))
	for _, r := range reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ActionResultJSON reports the outcome of a mutating command.
type ActionResultJSON struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   int    `json:"count,omitempty"`
	Path    string `json:"path,omitempty"`
}

// CacheEntryJSON is one row of `cache show --json`.
type CacheEntryJSON struct {
	Key       string `json:"key"`
	Size      int    `json:"size"`
	Valid     bool   `json:"valid"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
