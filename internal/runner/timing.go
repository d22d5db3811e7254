package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TimingEnv names a JSONL file that receives timing events for every run.
const TimingEnv = "PAINT_LINT_TIMING_JSONL"

type timingEvent struct {
	Phase      string  `json:"phase"`
	Kind       string  `json:"kind"`
	File       string  `json:"file,omitempty"`
	Status     string  `json:"status,omitempty"`
	StartMS    float64 `json:"start_ms"`
	DurationMS float64 `json:"duration_ms"`
	EndMS      float64 `json:"end_ms"`
}

type timingRecorder struct {
	enabled bool
	start   time.Time
	mu      sync.Mutex
	file    *os.File
	enc     *json.Encoder
	err     error
}

func newTimingRecorder(start time.Time, path string) *timingRecorder {
	tr := &timingRecorder{start: start}
	if path == "" {
		return tr
	}
	f, err := os.Create(path)
	if err != nil {
		tr.err = err
		return tr
	}
	tr.enabled = true
	tr.file = f
	tr.enc = json.NewEncoder(f)
	return tr
}

func (tr *timingRecorder) Err() error {
	if tr == nil {
		return nil
	}
	return tr.err
}

func (tr *timingRecorder) Close() {
	if tr == nil || tr.file == nil {
		return
	}
	_ = tr.file.Close()
}

func (tr *timingRecorder) record(phase, kind, file, status string, start time.Time, duration time.Duration) {
	if tr == nil || !tr.enabled {
		return
	}
	startMS := durationToMS(start.Sub(tr.start))
	durationMS := durationToMS(duration)
	event := timingEvent{
		Phase:      phase,
		Kind:       kind,
		File:       file,
		Status:     status,
		StartMS:    startMS,
		DurationMS: durationMS,
		EndMS:      startMS + durationMS,
	}
	tr.mu.Lock()
	_ = tr.enc.Encode(event)
	tr.mu.Unlock()
}

func (tr *timingRecorder) RecordStage(phase string, start time.Time, duration time.Duration, status string) {
	tr.record(phase, "stage", "", status, start, duration)
}

func (tr *timingRecorder) RecordFile(phase, file, status string, start time.Time, duration time.Duration) {
	tr.record(phase, "file", file, status, start, duration)
}

func durationToMS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000_000.0
}

func (r *Runner) resolveTimingPath(rootPath string) string {
	if envPath := os.Getenv(TimingEnv); envPath != "" {
		return envPath
	}
	if !r.Timing && !envBool("PAINT_LINT_TIMING") {
		return ""
	}
	if r.TimingPath != "" {
		return r.TimingPath
	}
	if rootPath == "" {
		return "timing.jsonl"
	}
	if info, err := os.Stat(rootPath); err == nil && !info.IsDir() {
		rootPath = filepath.Dir(rootPath)
	}
	return filepath.Join(rootPath, "timing.jsonl")
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		return fmt.Sprintf("%.2fm", d.Minutes())
	}
}
