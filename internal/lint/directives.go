package lint

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// Pattern: // paint-lint:disable paint-color, paint-units
// Pattern: /* paint-lint:enable */
var directivePattern = regexp.MustCompile(`(?://|/\*)\s*paint-lint:(disable|enable)\b([^\n]*)`)

const allRules = "all"

// Directives are the inline disable/enable comments of one source file, in
// line order.
type Directives struct {
	events []directive
}

type directive struct {
	line    int
	disable bool
	rules   []string
}

// ParseDirectives collects paint-lint:disable / paint-lint:enable comments.
// A directive with no rule names applies to every rule. A disable takes effect
// on its own line; an enable takes effect on its own line, so the comment line
// of an enable is already linted. Naming a rule in an enable re-enables just
// that rule, even inside a bare disable.
func ParseDirectives(src []byte) Directives {
	var d Directives

	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		m := directivePattern.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		d.events = append(d.events, directive{
			line:    line,
			disable: m[1] == "disable",
			rules:   parseRuleList(m[2]),
		})
	}
	return d
}

func parseRuleList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "*/")
	var rules []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		rules = append(rules, f)
	}
	if len(rules) == 0 {
		rules = []string{allRules}
	}
	return rules
}

// Disabled reports whether rule is switched off on line.
func (d Directives) Disabled(rule string, line int) bool {
	all := false
	var own *bool
	for _, e := range d.events {
		if e.line > line {
			break
		}
		for _, r := range e.rules {
			switch r {
			case allRules:
				all = e.disable
				own = nil
			case rule:
				v := e.disable
				own = &v
			}
		}
	}
	if own != nil {
		return *own
	}
	return all
}

// Empty reports whether the file had no directives.
func (d Directives) Empty() bool {
	return len(d.events) == 0
}

// Filter drops the issues that fall inside a disabled region of their rule.
func (d Directives) Filter(issues []Issue) []Issue {
	if d.Empty() {
		return issues
	}
	kept := issues[:0:0]
	for _, issue := range issues {
		if d.Disabled(issue.Rule, issue.Location.Line) {
			continue
		}
		kept = append(kept, issue)
	}
	return kept
}
