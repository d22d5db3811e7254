package lint

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a linting issue.
type Severity int

const (
	// SeverityError indicates a critical issue that should fail the run.
	SeverityError Severity = iota
	// SeverityWarning indicates a violation that should be addressed.
	SeverityWarning
	// SeverityInfo indicates a suggestion.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a config value into a Severity. "off" is not a
// severity; callers treat it as "rule disabled" before getting here.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityWarning, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Location is where an issue was found.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Issue is a finding attributed to a rule and a source location.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// String returns a formatted string representation of the issue.
func (i Issue) String() string {
	if i.Location.File != "" {
		return fmt.Sprintf("%s:%d:%d [%s] %s",
			i.Location.File,
			i.Location.Line,
			i.Location.Column,
			i.Rule,
			i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Rule, i.Message)
}
