package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	doc := `{
  "files": ["styles/**/*.scss"],
  "lint": {"rules": {"paint-units": "error"}, "ignorePatterns": ["*.min.css"]},
  "ruleOptions": {
    "paint-color": {"allowedFunctions": []},
    "paint-units": {"minPixels": 4}
  },
  "analysis": {"maxParallelFiles": 2}
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Source != path {
		t.Fatalf("expected source %s, got %s", path, cfg.Source)
	}
	if len(cfg.Files) != 1 || cfg.Files[0] != "styles/**/*.scss" {
		t.Fatalf("unexpected files: %v", cfg.Files)
	}
	if got := cfg.GetRuleSeverity("paint-units", "warning"); got != "error" {
		t.Fatalf("paint-units severity: expected error, got %q", got)
	}
	if got := cfg.GetRuleSeverity("paint-color", "warning"); got != "warning" {
		t.Fatalf("paint-color severity: expected default warning, got %q", got)
	}
	if cfg.RuleOptions.Color.AllowedFunctions == nil || len(cfg.RuleOptions.Color.AllowedFunctions) != 0 {
		t.Fatalf("expected explicit empty allow list, got %#v", cfg.RuleOptions.Color.AllowedFunctions)
	}
	if cfg.RuleOptions.Units.AllowedFunctions != nil {
		t.Fatalf("expected absent unit allow list, got %#v", cfg.RuleOptions.Units.AllowedFunctions)
	}
	if cfg.RuleOptions.Units.MinPixels != 4 {
		t.Fatalf("expected minPixels 4, got %d", cfg.RuleOptions.Units.MinPixels)
	}
	if cfg.Analysis.MaxParallelFiles != 2 {
		t.Fatalf("expected maxParallelFiles 2, got %d", cfg.Analysis.MaxParallelFiles)
	}
	if !cfg.CacheEnabled() || cfg.Analysis.Cache.Dir != ".paint_lint_cache" {
		t.Fatalf("expected cache defaults, got %+v", cfg.Analysis.Cache)
	}
	if !cfg.ShouldIgnoreFile("dist/site.min.css") {
		t.Fatalf("expected *.min.css to be ignored")
	}
}

func TestLoadFileTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paint_lint.toml")
	doc := `files = ["*.scss"]

[lint.rules]
paint-color = "off"

[ruleOptions.paint-units]
allowedFunctions = ["rem", "spacing"]

[analysis.cache]
enabled = false
dir = "/var/cache/paint"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.IsRuleEnabled("paint-color") {
		t.Fatalf("expected paint-color to be off")
	}
	if !cfg.IsRuleEnabled("paint-units") {
		t.Fatalf("expected paint-units enabled by default")
	}
	if got := strings.Join(cfg.RuleOptions.Units.AllowedFunctions, ","); got != "rem,spacing" {
		t.Fatalf("unexpected unit allow list: %s", got)
	}
	if cfg.CacheEnabled() {
		t.Fatalf("expected cache disabled")
	}
	if got := cfg.CacheDir("/project"); got != "/var/cache/paint" {
		t.Fatalf("expected absolute cache dir to be kept, got %s", got)
	}
}

func TestLoadFileRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		file string
		doc  string
	}{
		{"unknown key", FileName, `{"libraries": {}}`},
		{"bad severity", FileName, `{"lint": {"rules": {"paint-color": "loud"}}}`},
		{"malformed json", FileName, `{"files": [`},
		{"malformed toml", "paint_lint.toml", `files = [`},
		{"unknown toml key", "paint_lint.toml", "standard = \"2008\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadSearchOrder(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != "" {
		t.Fatalf("expected defaults, got config from %s", cfg.Source)
	}

	tomlPath := filepath.Join(root, "paint_lint.toml")
	if err := os.WriteFile(tomlPath, []byte("exclude = [\"legacy/**\"]\n"), 0o644); err != nil {
		t.Fatalf("write toml: %v", err)
	}
	cfg, err = Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != tomlPath {
		t.Fatalf("expected %s, got %s", tomlPath, cfg.Source)
	}

	jsonPath := filepath.Join(root, FileName)
	if err := DefaultConfig().Save(jsonPath); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cfg, err = Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != jsonPath {
		t.Fatalf("expected JSON config to win, got %s", cfg.Source)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{FileName, "paint_lint.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := DefaultConfig()
			want.Lint.Rules["paint-units"] = "error"
			want.Analysis.MaxParallelFiles = 3

			if err := want.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile after Save: %v", err)
			}
			if got.GetRuleSeverity("paint-units", "") != "error" {
				t.Fatalf("severity lost in round trip: %v", got.Lint.Rules)
			}
			if got.Analysis.MaxParallelFiles != 3 {
				t.Fatalf("maxParallelFiles lost in round trip: %d", got.Analysis.MaxParallelFiles)
			}
			if got.RuleOptions.Units.MinPixels != 10 {
				t.Fatalf("minPixels lost in round trip: %d", got.RuleOptions.Units.MinPixels)
			}
			if strings.Join(got.Exclude, ",") != "node_modules/**" {
				t.Fatalf("exclude lost in round trip: %v", got.Exclude)
			}
		})
	}
}

func TestIgnoreRegionsDefaultsToEnabled(t *testing.T) {
	for _, tt := range []struct {
		name string
		doc  string
		want bool
	}{
		{"no lint section", `{"analysis": {"cache": {"enabled": false}}}`, true},
		{"lint without key", `{"lint": {"rules": {"paint-units": "error"}}}`, true},
		{"explicit true", `{"lint": {"ignoreRegions": true}}`, true},
		{"explicit false", `{"lint": {"ignoreRegions": false}}`, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if got := cfg.RegionsEnabled(); got != tt.want {
				t.Fatalf("RegionsEnabled: expected %v, got %v", tt.want, got)
			}
		})
	}
	if !DefaultConfig().RegionsEnabled() {
		t.Fatalf("expected default config to honour inline regions")
	}
}

func TestSaveRoundTripDisabledToggles(t *testing.T) {
	for _, name := range []string{FileName, "paint_lint.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := DefaultConfig()
			off := false
			want.Lint.IgnoreRegions = &off
			cacheOff := false
			want.Analysis.Cache.Enabled = &cacheOff

			if err := want.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile after Save: %v", err)
			}
			if got.RegionsEnabled() {
				t.Fatalf("ignoreRegions=false lost in round trip")
			}
			if got.CacheEnabled() {
				t.Fatalf("cache.enabled=false lost in round trip")
			}
		})
	}
}
