package rules

import (
	"strings"
	"testing"

	"github.com/kirjasto/ils/internal/model"
)

func mustParse(t *testing.T, text string) *RuleSet {
	t.Helper()
	set, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return set
}

func TestParseEmptyBlockMeansNotConfigured(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "# just a comment\n\n# another"} {
		set, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", text, err)
		}
		if set != nil {
			t.Errorf("Parse(%q) = %v, want nil rule set", text, set)
		}
	}
}

func TestParseRejectsUnknownAction(t *testing.T) {
	if _, err := Parse("lib=A:pickup=MAIN:halt"); err == nil {
		t.Fatal("expected error for unknown bare token")
	}
}

func TestParseRejectsBadPattern(t *testing.T) {
	if _, err := Parse("lib=[unclosed:pickup=MAIN"); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestParseQuotedValues(t *testing.T) {
	set := mustParse(t, `loc='READING,ROOM':pickup='A:1',B`)
	rule := set.Rules[0]
	if got := rule.Clauses[0].Matchers[0].Pattern; got != "READING,ROOM" {
		t.Errorf("quoted pattern = %q, want %q", got, "READING,ROOM")
	}
	if rule.Pickup[0] != "A:1" || rule.Pickup[1] != "B" {
		t.Errorf("pickup = %v, want [A:1 B]", rule.Pickup)
	}
}

func TestParseQuotedNegationIsLiteral(t *testing.T) {
	set := mustParse(t, "loc='!special':pickup=MAIN")
	m := set.Rules[0].Clauses[0].Matchers[0]
	if m.Negated {
		t.Fatal("quoted value must not act as negation")
	}
	if m.Pattern != "!special" {
		t.Errorf("pattern = %q, want literal !special", m.Pattern)
	}

	out := set.Evaluate(Attributes{"loc": "!special"})
	if !out.Matched || strings.Join(out.PickupIDs, ",") != "MAIN" {
		t.Errorf("outcome = %+v, want match on the literal value", out)
	}
	if out := set.Evaluate(Attributes{"loc": "special"}); out.Matched {
		t.Error("value without the ! prefix must not match")
	}
}

func TestStringRoundTrip(t *testing.T) {
	texts := []string{
		"lib=A:loc=!STACK,!DEPOT:pickup=MAIN,EAST",
		"group=staff,student:pickup=MAIN:stop",
		"policy=normal:pickup=$$HOME,WEST:home:work",
		"loc='READING,ROOM':pickup='A:1'",
		"loc='!special':pickup=MAIN",
	}
	for _, text := range texts {
		first := mustParse(t, text)
		second := mustParse(t, first.String())
		if first.String() != second.String() {
			t.Errorf("round trip diverged:\n first: %s\nsecond: %s", first.String(), second.String())
		}
		if len(first.Rules) != len(second.Rules) {
			t.Errorf("rule count changed: %d -> %d", len(first.Rules), len(second.Rules))
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		rules   string
		attrs   Attributes
		want    []string
		matched bool
		home    bool
		work    bool
	}{
		{
			name:    "simple match",
			rules:   "lib=A:pickup=MAIN",
			attrs:   Attributes{"lib": "A"},
			want:    []string{"MAIN"},
			matched: true,
		},
		{
			name:    "no match yields empty allow set",
			rules:   "lib=A:pickup=MAIN",
			attrs:   Attributes{"lib": "B"},
			want:    nil,
			matched: false,
		},
		{
			name:    "match is case insensitive and anchored",
			rules:   "lib=main:pickup=MAIN",
			attrs:   Attributes{"lib": "MAIN"},
			want:    []string{"MAIN"},
			matched: true,
		},
		{
			name:    "anchoring rejects substring",
			rules:   "lib=MAIN:pickup=MAIN",
			attrs:   Attributes{"lib": "MAINLAND"},
			matched: false,
		},
		{
			name:    "negation wins over positive match",
			rules:   "loc=STACK,!STACK:pickup=MAIN",
			attrs:   Attributes{"loc": "STACK"},
			matched: false,
		},
		{
			name:    "only negated values act as wildcard",
			rules:   "loc=!DEPOT:pickup=MAIN",
			attrs:   Attributes{"loc": "SHELF"},
			want:    []string{"MAIN"},
			matched: true,
		},
		{
			name:    "absent attribute matches empty string",
			rules:   "loc=!DEPOT:pickup=MAIN",
			attrs:   Attributes{},
			want:    []string{"MAIN"},
			matched: true,
		},
		{
			name:    "union across matching rules, first-seen order",
			rules:   "lib=A:pickup=MAIN,EAST\nlib=A:pickup=EAST,WEST",
			attrs:   Attributes{"lib": "A"},
			want:    []string{"MAIN", "EAST", "WEST"},
			matched: true,
		},
		{
			name:    "stop halts after contributing",
			rules:   "lib=A:pickup=MAIN:stop\nlib=A:pickup=WEST",
			attrs:   Attributes{"lib": "A"},
			want:    []string{"MAIN"},
			matched: true,
		},
		{
			name:    "stop on non-matching rule does not halt",
			rules:   "lib=B:pickup=EAST:stop\nlib=A:pickup=WEST",
			attrs:   Attributes{"lib": "A"},
			want:    []string{"WEST"},
			matched: true,
		},
		{
			name:    "home and work actions accumulate",
			rules:   "lib=A:pickup=MAIN:home\nlib=A:work",
			attrs:   Attributes{"lib": "A"},
			want:    []string{"MAIN"},
			matched: true,
			home:    true,
			work:    true,
		},
		{
			name:    "multiple clauses all must hold",
			rules:   "lib=A:group=staff:pickup=MAIN",
			attrs:   Attributes{"lib": "A", "group": "student"},
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := mustParse(t, tt.rules)
			out := set.Evaluate(tt.attrs)
			if out.Matched != tt.matched {
				t.Errorf("Matched = %v, want %v", out.Matched, tt.matched)
			}
			if strings.Join(out.PickupIDs, ",") != strings.Join(tt.want, ",") {
				t.Errorf("PickupIDs = %v, want %v", out.PickupIDs, tt.want)
			}
			if out.Home != tt.home || out.Work != tt.work {
				t.Errorf("Home/Work = %v/%v, want %v/%v", out.Home, out.Work, tt.home, tt.work)
			}
		})
	}
}

func TestEvaluateLevelClause(t *testing.T) {
	// The full attribute vocabulary the adapters hand in for a
	// title-level hold.
	attrs := Attributes{
		"lib":     "MAIN",
		"loc":     "stack",
		"policy":  "normal",
		"avail":   "y",
		"unavail": "n",
		"status":  "Available",
		"group":   "adult",
		"level":   "title",
	}

	set := mustParse(t, "level=title:pickup=MAIN")
	out := set.Evaluate(attrs)
	if !out.Matched || strings.Join(out.PickupIDs, ",") != "MAIN" {
		t.Errorf("outcome = %+v, want match with MAIN", out)
	}

	attrs["level"] = "copy"
	if out := set.Evaluate(attrs); out.Matched {
		t.Error("copy-level hold must not satisfy a title-level rule")
	}

	set = mustParse(t, "unavail=y:pickup=EAST")
	if out := set.Evaluate(attrs); out.Matched {
		t.Error("available item must not satisfy an unavail rule")
	}
	attrs["avail"], attrs["unavail"] = "n", "y"
	out = set.Evaluate(attrs)
	if !out.Matched || strings.Join(out.PickupIDs, ",") != "EAST" {
		t.Errorf("outcome = %+v, want match with EAST", out)
	}
}

func TestEvaluateNilRuleSet(t *testing.T) {
	var set *RuleSet
	out := set.Evaluate(Attributes{"lib": "A"})
	if out.Matched || len(out.PickupIDs) != 0 {
		t.Errorf("nil set evaluated to %+v, want zero outcome", out)
	}
}

func backendLocations() []model.PickupLocation {
	return []model.PickupLocation{
		{ID: "MAIN", Display: "Main library", Order: 0},
		{ID: "EAST", Display: "East branch", Order: 1},
		{ID: "WEST", Display: "West branch", Order: 2},
	}
}

func TestFilterPickupLocationsNilSetPassesThrough(t *testing.T) {
	var set *RuleSet
	got := set.FilterPickupLocations(Attributes{}, nil, backendLocations())
	if len(got) != 3 {
		t.Fatalf("got %d locations, want all 3", len(got))
	}
}

func TestFilterPickupLocations(t *testing.T) {
	set := mustParse(t, "lib=A:pickup=MAIN,WEST")
	got := set.FilterPickupLocations(Attributes{"lib": "A"}, nil, backendLocations())
	if len(got) != 2 || got[0].ID != "MAIN" || got[1].ID != "WEST" {
		t.Fatalf("filtered = %v, want [MAIN WEST]", got)
	}

	// No rule matches: empty, not pass-through.
	got = set.FilterPickupLocations(Attributes{"lib": "B"}, nil, backendLocations())
	if len(got) != 0 {
		t.Fatalf("filtered = %v, want empty", got)
	}
}

func TestFilterPickupLocationsSynthetic(t *testing.T) {
	patron := &model.Patron{
		Address1:    "Example Street 1",
		Zip:         "00100",
		City:        "Helsinki",
		WorkAddress: "Office Road 2",
	}

	set := mustParse(t, "lib=A:pickup=MAIN:home:work")
	got := set.FilterPickupLocations(Attributes{"lib": "A"}, patron, backendLocations())
	if len(got) != 3 {
		t.Fatalf("got %d locations, want MAIN + home + work", len(got))
	}
	if got[1].ID != model.PickupHome || got[1].Display != patron.HomeAddress() {
		t.Errorf("home entry = %+v", got[1])
	}
	if got[2].ID != model.PickupWork || got[2].Display != "Office Road 2" {
		t.Errorf("work entry = %+v", got[2])
	}
}

func TestFilterPickupLocationsSyntheticViaPickupID(t *testing.T) {
	patron := &model.Patron{Address1: "Example Street 1"}
	set := mustParse(t, "lib=A:pickup=$$HOME,MAIN")
	got := set.FilterPickupLocations(Attributes{"lib": "A"}, patron, backendLocations())
	if len(got) != 2 {
		t.Fatalf("got %d locations, want MAIN + home", len(got))
	}
}

func TestFilterPickupLocationsSyntheticRequiresAddress(t *testing.T) {
	set := mustParse(t, "lib=A:pickup=MAIN:home:work")
	got := set.FilterPickupLocations(Attributes{"lib": "A"}, &model.Patron{}, backendLocations())
	if len(got) != 1 {
		t.Fatalf("got %d locations, want only MAIN when no address on file", len(got))
	}
}

func TestFilterPickupLocationsSyntheticDedup(t *testing.T) {
	// Identical home and work display strings collapse to one entry.
	patron := &model.Patron{Address1: "Same Street 1", WorkAddress: "Same Street 1"}
	set := mustParse(t, "lib=A:home:work")
	got := set.FilterPickupLocations(Attributes{"lib": "A"}, patron, backendLocations())
	if len(got) != 1 {
		t.Fatalf("got %d synthetic entries, want 1 after dedup", len(got))
	}
}
