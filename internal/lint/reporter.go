package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/term"
)

// Format represents the output format for reporting issues.
type Format int

const (
	// FormatText outputs issues in a human-readable text format.
	FormatText Format = iota
	// FormatSARIF outputs issues as SARIF 2.1.0.
	FormatSARIF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatSARIF:
		return "sarif"
	default:
		return "unknown"
	}
}

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

// Reporter handles formatting and outputting linting issues.
type Reporter struct {
	writer io.Writer
	format Format
	color  bool
	rules  []Rule
}

// NewReporter creates a Reporter. Text output is colored when writer is a terminal.
func NewReporter(writer io.Writer, format Format, rules ...Rule) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
		color:  isTerminal(writer),
		rules:  rules,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Report writes the issues sorted by location.
func (r *Reporter) Report(issues []Issue) error {
	sorted := make([]Issue, len(issues))
	copy(sorted, issues)
	SortIssues(sorted)

	switch r.format {
	case FormatText:
		return r.reportText(sorted)
	case FormatSARIF:
		return r.reportSARIF(sorted)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) reportText(issues []Issue) error {
	for _, issue := range issues {
		line := issue.String()
		if r.color {
			line = severityColor(issue.Severity) + line + colorReset
		}
		if _, err := fmt.Fprintln(r.writer, line); err != nil {
			return fmt.Errorf("failed to write text output: %w", err)
		}
	}
	return nil
}

func severityColor(s Severity) string {
	switch s {
	case SeverityError:
		return colorRed
	case SeverityWarning:
		return colorYellow
	default:
		return colorCyan
	}
}

func (r *Reporter) reportSARIF(issues []Issue) error {
	descriptions := make(map[string]string, len(r.rules))
	for _, rule := range r.rules {
		descriptions[rule.Name()] = rule.Description()
	}
	seen := make(map[string]bool)
	var ruleNames []string
	for _, rule := range r.rules {
		if !seen[rule.Name()] {
			seen[rule.Name()] = true
			ruleNames = append(ruleNames, rule.Name())
		}
	}
	for _, issue := range issues {
		if !seen[issue.Rule] {
			seen[issue.Rule] = true
			ruleNames = append(ruleNames, issue.Rule)
		}
	}

	rules := make([]map[string]interface{}, 0, len(ruleNames))
	for _, name := range ruleNames {
		rules = append(rules, map[string]interface{}{
			"id":               name,
			"name":             name,
			"shortDescription": map[string]interface{}{"text": descriptions[name]},
		})
	}

	results := make([]map[string]interface{}, 0, len(issues))
	for _, issue := range issues {
		results = append(results, map[string]interface{}{
			"ruleId":  issue.Rule,
			"level":   sarifLevel(issue.Severity),
			"message": map[string]interface{}{"text": issue.Message},
			"locations": []map[string]interface{}{
				{
					"physicalLocation": map[string]interface{}{
						"artifactLocation": map[string]interface{}{
							"uri": filepath.ToSlash(issue.Location.File),
						},
						"region": map[string]interface{}{
							"startLine":   issue.Location.Line,
							"startColumn": issue.Location.Column,
						},
					},
				},
			},
		})
	}

	sarif := map[string]interface{}{
		"version": "2.1.0",
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"runs": []map[string]interface{}{
			{
				"tool": map[string]interface{}{
					"driver": map[string]interface{}{
						"name":  "paint-lint",
						"rules": rules,
					},
				},
				"results": results,
			},
		},
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(sarif); err != nil {
		return fmt.Errorf("failed to encode SARIF output: %w", err)
	}
	return nil
}

// sarifLevel maps a severity onto SARIF's level vocabulary.
func sarifLevel(s Severity) string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// SortIssues orders issues by file, line, column, then rule and message.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
}
