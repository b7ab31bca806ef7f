// Package rules interprets administrator-authored pickup-location
// rules. A rule is one line of colon-separated clauses:
//
//	lib=A:loc=!STACK,!DEPOT:group=staff,student:pickup=MAIN,EAST
//
// Clause values are comma-separated, optionally quoted, and a value
// prefixed with ! is a negative match; quoting a value keeps a
// leading ! literal. Each value compiles to a
// case-insensitive anchored regular expression. The bare tokens
// "stop", "home" and "work" are actions, not matches.
package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher is one compiled clause value.
type Matcher struct {
	Pattern string
	Negated bool
	re      *regexp.Regexp
}

// Match reports whether the matcher's pattern matches the value.
// Negation is applied by the enclosing clause, not here.
func (m *Matcher) Match(value string) bool {
	return m.re.MatchString(value)
}

// Clause is one key=values condition of a rule.
type Clause struct {
	Key      string
	Matchers []Matcher
}

// Rule is one parsed rule line: its match clauses plus actions.
type Rule struct {
	Clauses []Clause
	// Pickup is the set of location ids this rule allows when it
	// matches. May contain the reserved $$HOME / $$WORK ids.
	Pickup []string
	// Stop halts rule evaluation after this rule when it matches.
	Stop bool
	// Home / Work request a synthetic ship-to-address entry.
	Home bool
	Work bool
}

// RuleSet is an ordered list of rules, immutable after parse.
type RuleSet struct {
	Rules []Rule
}

// Parse parses a rule-text block: one rule per line, blank lines and
// #-comments skipped. An empty (or all-comment) block yields a nil
// RuleSet, which callers treat as "rule engine not configured", as
// opposed to a RuleSet that matches nothing.
func Parse(text string) (*RuleSet, error) {
	var set RuleSet
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := parseRule(line)
		if err != nil {
			return nil, fmt.Errorf("rule line %d: %w", lineNo+1, err)
		}
		set.Rules = append(set.Rules, rule)
	}
	if len(set.Rules) == 0 {
		return nil, nil
	}
	return &set, nil
}

func parseRule(line string) (Rule, error) {
	var rule Rule
	for _, token := range splitQuoted(line, ':') {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		key, rawValues, hasValues := strings.Cut(token, "=")
		key = strings.ToLower(strings.TrimSpace(key))

		if !hasValues {
			switch key {
			case "stop":
				rule.Stop = true
			case "home":
				rule.Home = true
			case "work":
				rule.Work = true
			default:
				return Rule{}, fmt.Errorf("unknown action %q", key)
			}
			continue
		}

		values := splitQuoted(rawValues, ',')
		if key == "pickup" {
			for _, v := range values {
				v = unquote(strings.TrimSpace(v))
				if v != "" {
					rule.Pickup = append(rule.Pickup, v)
				}
			}
			continue
		}

		clause := Clause{Key: key}
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			matcher, err := compileMatcher(v)
			if err != nil {
				return Rule{}, fmt.Errorf("clause %q: %w", key, err)
			}
			clause.Matchers = append(clause.Matchers, matcher)
		}
		if len(clause.Matchers) > 0 {
			rule.Clauses = append(rule.Clauses, clause)
		}
	}
	return rule, nil
}

// compileMatcher compiles one raw clause value. The ! prefix is
// inspected before quotes are stripped, so a quoted value keeps a
// leading ! as a literal character.
func compileMatcher(value string) (Matcher, error) {
	negated := strings.HasPrefix(value, "!")
	pattern := unquote(strings.TrimPrefix(value, "!"))
	re, err := regexp.Compile("(?i)^(?:" + pattern + ")$")
	if err != nil {
		return Matcher{}, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	return Matcher{Pattern: pattern, Negated: negated, re: re}, nil
}

// splitQuoted splits on sep, honoring single and double quotes so a
// quoted value may contain the separator.
func splitQuoted(s string, sep byte) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
