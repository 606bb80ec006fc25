package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mvps-vip/showcase/internal/fetch"
	"github.com/mvps-vip/showcase/internal/kvcache"
)

// FormatAge renders a duration as a compact age ("just now", "5m", "3h 12m",
// "2d 4h").
func FormatAge(d time.Duration) string {
	total := int(d.Seconds())
	if total < 60 {
		return "just now"
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	switch {
	case days > 0:
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	case hours > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	default:
		return strconv.Itoa(minutes) + "m"
	}
}

// FormatSize renders a byte count.
func FormatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return strconv.Itoa(n) + " B"
	}
}

// SourceLabel names where a report's value came from.
func SourceLabel(r fetch.Report) string {
	switch {
	case !r.Found:
		return "-"
	case r.Cached:
		return r.Source + " (stale)"
	default:
		return r.Source
	}
}

// AttemptsLabel summarizes the tiers tried, e.g. "api ✗, document ✓".
// Skipped tiers are marked "-".
func AttemptsLabel(r fetch.Report) string {
	parts := make([]string, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		mark := "✓"
		switch {
		case a.Skipped:
			mark = "-"
		case a.Error != "":
			mark = "✗"
		}
		parts = append(parts, a.Source+" "+mark)
	}
	return strings.Join(parts, ", ")
}

// RenderReports renders one row per dataset.
func RenderReports(reports map[string]fetch.Report, opts TableOptions) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range SortedReports(reports) {
		status := "ok"
		if !r.Found {
			status = "failed"
		}
		rows = append(rows, []string{r.Key, status, SourceLabel(r), AttemptsLabel(r)})
	}
	return NewTable([]string{"Dataset", "Status", "Source", "Tiers"}, rows, opts)
}

// RenderCacheEntries renders the cache listing relative to now.
func RenderCacheEntries(entries []kvcache.Entry, now time.Time, opts TableOptions) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		age := "-"
		if !e.UpdatedAt.IsZero() {
			age = FormatAge(now.Sub(e.UpdatedAt))
		}
		valid := "yes"
		if !e.Valid {
			valid = "corrupt"
		}
		rows = append(rows, []string{e.Key, FormatSize(e.Size), valid, age})
	}
	return NewTable([]string{"Key", "Size", "Valid", "Age"}, rows, opts)
}
