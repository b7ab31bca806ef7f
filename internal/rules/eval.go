package rules

// Attributes are the item and patron attributes a rule matches
// against, e.g. lib, loc, policy, group, avail. A key absent from the
// rule is a wildcard; a key absent from the attributes matches the
// empty string.
type Attributes map[string]string

// satisfied reports whether the clause holds for the attributes.
// Negation wins: if any negated value matches, the clause fails even
// when a positive value also matches. A clause with only negated
// values is otherwise satisfied (the positives are implicit
// wildcards).
func (c Clause) satisfied(attrs Attributes) bool {
	value := attrs[c.Key]

	positives := false
	positiveHit := false
	for _, m := range c.Matchers {
		if m.Negated {
			if m.Match(value) {
				return false
			}
			continue
		}
		positives = true
		if m.Match(value) {
			positiveHit = true
		}
	}
	return !positives || positiveHit
}

// matches reports whether every present clause of the rule holds.
func (r Rule) matches(attrs Attributes) bool {
	for _, clause := range r.Clauses {
		if !clause.satisfied(attrs) {
			return false
		}
	}
	return true
}

// Outcome is the accumulated result of evaluating a rule set.
type Outcome struct {
	// PickupIDs is the union of allowed pickup location ids across
	// all matching rules, in first-seen order.
	PickupIDs []string
	// Home / Work are set when a matching rule requested a synthetic
	// ship-to-address destination.
	Home bool
	Work bool
	// Matched reports whether any rule matched at all. An unmatched
	// item yields an empty allow-set, which is distinct from "rule
	// engine not configured" (a nil RuleSet).
	Matched bool
}

// Evaluate runs the rules in order, accumulating allowed pickup ids
// across every matching rule. A matching rule carrying the stop action
// halts evaluation after contributing its own ids.
func (s *RuleSet) Evaluate(attrs Attributes) Outcome {
	var out Outcome
	if s == nil {
		return out
	}
	seen := make(map[string]struct{})
	for _, rule := range s.Rules {
		if !rule.matches(attrs) {
			continue
		}
		out.Matched = true
		for _, id := range rule.Pickup {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out.PickupIDs = append(out.PickupIDs, id)
		}
		out.Home = out.Home || rule.Home
		out.Work = out.Work || rule.Work
		if rule.Stop {
			break
		}
	}
	return out
}
