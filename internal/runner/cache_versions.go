package runner

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/robert-at-pretension-io/paint-lint/internal/config"
	"github.com/robert-at-pretension-io/paint-lint/internal/lint"
)

// engineVersion changes whenever parsing or rule semantics change in a way
// that invalidates previously cached findings.
const engineVersion = "paint-lint/1"

type cacheVersions struct {
	engine string
	rules  string
}

// rulesFingerprint is the effective rule setup that shapes a file's findings.
// Allow-lists come from the constructed rules, so an absent list and the
// defaults hash alike while an explicit empty list does not.
type rulesFingerprint struct {
	Rules         []ruleFingerprint `json:"rules"`
	IgnoreRegions bool              `json:"ignore_regions"`
}

type ruleFingerprint struct {
	Name             string   `json:"name"`
	Severity         string   `json:"severity"`
	AllowedFunctions []string `json:"allowed_functions"`
	MinPixels        int      `json:"min_pixels"`
}

func computeCacheVersions(cfg *config.Config, linter *lint.Linter) cacheVersions {
	fp := rulesFingerprint{
		Rules:         []ruleFingerprint{},
		IgnoreRegions: cfg.RegionsEnabled(),
	}
	for _, rule := range linter.Rules() {
		rf := ruleFingerprint{Name: rule.Name()}
		if sev, ok := linter.Severity(rule.Name()); ok {
			rf.Severity = sev.String()
		}
		switch r := rule.(type) {
		case *lint.ColorRule:
			rf.AllowedFunctions = r.AllowedFunctions()
		case *lint.UnitRule:
			rf.AllowedFunctions = r.AllowedFunctions()
			rf.MinPixels = r.MinPixels()
		}
		fp.Rules = append(fp.Rules, rf)
	}

	rules := "unknown"
	if data, err := json.Marshal(fp); err == nil {
		rules = hashContent(data)
	}
	return cacheVersions{engine: engineVersion, rules: rules}
}

func resolveCacheDir(rootPath string, cfg *config.Config) string {
	baseDir := rootPath
	if info, err := os.Stat(rootPath); err == nil && !info.IsDir() {
		baseDir = filepath.Dir(rootPath)
	}
	return cfg.CacheDir(baseDir)
}
