package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("/* "+name+" */"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestResolveFilesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"main.scss",
		"base.css",
		"components/_button.scss",
		"components/deep/card.scss",
		"node_modules/lib/vendor.css",
		"README.md",
		"scripts/app.js",
	)

	files, err := DefaultConfig().ResolveFiles(root)
	if err != nil {
		t.Fatalf("ResolveFiles: %v", err)
	}

	want := []string{
		filepath.Join(root, "base.css"),
		filepath.Join(root, "components/_button.scss"),
		filepath.Join(root, "components/deep/card.scss"),
		filepath.Join(root, "main.scss"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(files), files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("file %d: expected %s, got %s", i, want[i], files[i])
		}
	}
}

func TestResolveFilesPatternsAndExclude(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"src/a.scss",
		"src/b.scss",
		"src/legacy/old.scss",
		"other/c.scss",
	)

	cfg := Config{
		Files:   []string{"src/**/*.scss"},
		Exclude: []string{"src/legacy/*"},
	}

	files, err := cfg.ResolveFiles(root)
	if err != nil {
		t.Fatalf("ResolveFiles: %v", err)
	}
	if !containsPath(files, filepath.Join(root, "src/a.scss")) || !containsPath(files, filepath.Join(root, "src/b.scss")) {
		t.Fatalf("expected src files, got %v", files)
	}
	if containsPath(files, filepath.Join(root, "src/legacy/old.scss")) {
		t.Fatalf("excluded file was resolved: %v", files)
	}
	if containsPath(files, filepath.Join(root, "other/c.scss")) {
		t.Fatalf("file outside pattern was resolved: %v", files)
	}
}

func TestResolveFilesSingleFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "one.scss")
	path := filepath.Join(root, "one.scss")

	files, err := DefaultConfig().ResolveFiles(path)
	if err != nil {
		t.Fatalf("ResolveFiles: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Fatalf("expected [%s], got %v", path, files)
	}

	if _, err := DefaultConfig().ResolveFiles(filepath.Join(root, "missing")); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestMatchSuffix(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"a/b/c.scss", "*.scss", true},
		{"a/b/c.css", "*.scss", false},
		{"a/b/c.scss", "b/*.scss", true},
		{"b/c.scss", "b/*.scss", true},
		{"a/x/c.scss", "b/*.scss", false},
	}
	for _, tt := range tests {
		if got := matchSuffix(filepath.FromSlash(tt.path), filepath.FromSlash(tt.pattern)); got != tt.want {
			t.Fatalf("matchSuffix(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}

func containsPath(paths []string, want string) bool {
	for _, p := range paths {
		if filepath.Clean(p) == filepath.Clean(want) {
			return true
		}
	}
	return false
}
