package runner

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestTimingJSONLWritten(t *testing.T) {
	dir := t.TempDir()
	file := writeStylesheet(t, dir, "theme.scss", themeSCSS)
	cfg := testConfig(filepath.Join(dir, ".cache"), false)

	timingPath := filepath.Join(dir, "timing.jsonl")

	r := New(cfg)
	r.Timing = true
	r.TimingPath = timingPath
	runForTest(t, r, dir)

	raw, err := os.ReadFile(timingPath)
	if err != nil {
		t.Fatalf("read timing file: %v", err)
	}
	lines := bytes.Split(bytes.TrimSpace(raw), []byte("\n"))
	if len(lines) == 0 {
		t.Fatalf("expected timing events, found none")
	}

	var foundScan, foundTotal, foundFile bool
	for _, line := range lines {
		var ev timingEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			t.Fatalf("parse timing event: %v", err)
		}
		if ev.Kind == "stage" && ev.Phase == "scan" {
			foundScan = true
		}
		if ev.Kind == "stage" && ev.Phase == "total" {
			foundTotal = true
		}
		if ev.Kind == "file" && ev.File == file && ev.Status == "linted" {
			foundFile = true
		}
	}
	if !foundScan || !foundTotal || !foundFile {
		t.Fatalf("expected scan, total and per-file timing events")
	}
}

func TestResolveTimingPath(t *testing.T) {
	t.Setenv(TimingEnv, "")
	t.Setenv("PAINT_LINT_TIMING", "")
	dir := t.TempDir()

	r := &Runner{}
	if got := r.resolveTimingPath(dir); got != "" {
		t.Fatalf("expected timing off, got %q", got)
	}

	r.Timing = true
	if got := r.resolveTimingPath(dir); got != filepath.Join(dir, "timing.jsonl") {
		t.Fatalf("unexpected default timing path %q", got)
	}

	file := writeStylesheet(t, dir, "a.scss", "")
	if got := r.resolveTimingPath(file); got != filepath.Join(dir, "timing.jsonl") {
		t.Fatalf("expected timing file next to a single-file root, got %q", got)
	}

	t.Setenv(TimingEnv, "/tmp/explicit.jsonl")
	if got := r.resolveTimingPath(dir); got != "/tmp/explicit.jsonl" {
		t.Fatalf("expected env override, got %q", got)
	}
}
