package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mvps-vip/showcase/internal/fetch"
)

func TestOutputJSON_PrettyPrints(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputJSON(&buf, map[string]string{"a": "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "  \"a\": \"1\"") {
		t.Errorf("expected indented output, got: %s", buf.String())
	}
}

func TestOutputJSON_ReturnsErrorOnMarshalFailure(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputJSON(&buf, map[string]any{"bad": make(chan int)}); err == nil {
		t.Fatal("expected error for unmarshalable type, got nil")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestOutputJSON_ReturnsErrorOnWriteFailure(t *testing.T) {
	if err := OutputJSON(failWriter{}, map[string]string{"a": "1"}); err == nil {
		t.Fatal("expected error for failed writer, got nil")
	}
}

func TestOutputResolveJSON(t *testing.T) {
	var buf bytes.Buffer
	err := OutputResolveJSON(&buf, map[string]fetch.Report{
		"settings": {Key: "settings", Found: true, Source: "mock", Value: map[string]string{"app_mode": "content"}},
		"catalog":  {Key: "catalog", Error: "all sources failed"},
	}, 1500*time.Millisecond)
	if err != nil {
		t.Fatalf("OutputResolveJSON() error = %v", err)
	}

	var doc struct {
		Datasets []struct {
			Dataset string         `json:"dataset"`
			Found   bool           `json:"found"`
			Value   map[string]any `json:"value"`
			Error   string         `json:"error"`
		} `json:"datasets"`
		ResolvedAt string `json:"resolved_at"`
		DurationMs int64  `json:"duration_ms"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(doc.Datasets) != 2 || doc.Datasets[0].Dataset != "catalog" {
		t.Fatalf("datasets = %+v", doc.Datasets)
	}
	if doc.Datasets[0].Error == "" || doc.Datasets[0].Found {
		t.Error("catalog should report its failure")
	}
	if doc.Datasets[1].Value["app_mode"] != "content" {
		t.Errorf("settings value = %v", doc.Datasets[1].Value)
	}
	if doc.DurationMs != 1500 {
		t.Errorf("duration_ms = %d", doc.DurationMs)
	}
	if _, err := time.Parse(time.RFC3339, doc.ResolvedAt); err != nil {
		t.Errorf("resolved_at %q: %v", doc.ResolvedAt, err)
	}
}
