package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/display"
)

// primeCache resolves every dataset from the mock tier into the file cache.
func primeCache(t *testing.T) {
	t.Helper()
	setFlags(t, flagState{quiet: true})
	captureOutput(t)
	if err := runResolve(context.Background(), config.Get(), nil); err != nil {
		t.Fatalf("priming cache: %v", err)
	}
}

func TestCacheShow_Table(t *testing.T) {
	isolate(t, mockConfig())
	primeCache(t)
	setFlags(t, flagState{noColor: true})
	buf := captureOutput(t)

	if err := runCmd(t, cacheShowCmd); err != nil {
		t.Fatalf("cache show error: %v", err)
	}
	output := buf.String()
	for _, want := range []string{"╭", "Key", "Size", "Age", "catalog", "settings", "Cache directory"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n\nGot:\n%s", want, output)
		}
	}
}

func TestCacheShow_Empty(t *testing.T) {
	isolate(t, mockConfig())
	setFlags(t, flagState{})
	buf := captureOutput(t)

	if err := runCmd(t, cacheShowCmd); err != nil {
		t.Fatalf("cache show error: %v", err)
	}
	if !strings.Contains(buf.String(), "No cached datasets") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestCacheShow_JSON(t *testing.T) {
	isolate(t, mockConfig())
	primeCache(t)
	setFlags(t, flagState{json: true})
	buf := captureOutput(t)

	if err := runCmd(t, cacheShowCmd); err != nil {
		t.Fatalf("cache show error: %v", err)
	}
	var rows []display.CacheEntryJSON
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(rows) != 2 || rows[0].Key != "catalog" || !rows[0].Valid || rows[0].UpdatedAt == "" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestCacheShow_Quiet(t *testing.T) {
	isolate(t, mockConfig())
	primeCache(t)
	setFlags(t, flagState{quiet: true})
	buf := captureOutput(t)

	if err := runCmd(t, cacheShowCmd); err != nil {
		t.Fatalf("cache show error: %v", err)
	}
	if got := buf.String(); got != "catalog\nsettings\n" {
		t.Errorf("output = %q", got)
	}
}

func TestCacheClear_NamedAndAll(t *testing.T) {
	isolate(t, mockConfig())
	primeCache(t)
	setFlags(t, flagState{json: true})

	buf := captureOutput(t)
	if err := runCmd(t, cacheClearCmd, "settings"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	var res display.ActionResultJSON
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !res.Success || res.Count != 1 {
		t.Errorf("result = %+v", res)
	}

	setFlags(t, flagState{quiet: true})
	buf = captureOutput(t)
	_ = runCmd(t, cacheShowCmd)
	if got := buf.String(); got != "catalog\n" {
		t.Errorf("after named clear = %q", got)
	}

	setFlags(t, flagState{})
	buf = captureOutput(t)
	if err := runCmd(t, cacheClearCmd); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(buf.String(), "Cleared 1 cached dataset(s)") {
		t.Errorf("output = %q", buf.String())
	}
}
