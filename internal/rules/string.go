package rules

import "strings"

// String serializes the rule set back into rule text. Parsing the
// result yields an equivalent RuleSet.
func (s *RuleSet) String() string {
	if s == nil {
		return ""
	}
	lines := make([]string, 0, len(s.Rules))
	for _, rule := range s.Rules {
		lines = append(lines, rule.String())
	}
	return strings.Join(lines, "\n")
}

// String serializes one rule.
func (r Rule) String() string {
	var tokens []string
	for _, clause := range r.Clauses {
		values := make([]string, 0, len(clause.Matchers))
		for _, m := range clause.Matchers {
			values = append(values, m.String())
		}
		tokens = append(tokens, clause.Key+"="+strings.Join(values, ","))
	}
	if len(r.Pickup) > 0 {
		pickup := make([]string, 0, len(r.Pickup))
		for _, id := range r.Pickup {
			pickup = append(pickup, quoteValue(id))
		}
		tokens = append(tokens, "pickup="+strings.Join(pickup, ","))
	}
	if r.Home {
		tokens = append(tokens, "home")
	}
	if r.Work {
		tokens = append(tokens, "work")
	}
	if r.Stop {
		tokens = append(tokens, "stop")
	}
	return strings.Join(tokens, ":")
}

// String serializes one matcher value. A literal leading ! is quoted
// so it does not read back as negation.
func (m Matcher) String() string {
	v := quoteValue(m.Pattern)
	if m.Negated {
		return "!" + v
	}
	if strings.HasPrefix(v, "!") {
		return "'" + v + "'"
	}
	return v
}

// quoteValue quotes a value that would otherwise be split on a
// separator when re-parsed.
func quoteValue(v string) string {
	if strings.ContainsAny(v, ",:") {
		return "'" + v + "'"
	}
	return v
}
