package normalize

import (
	"testing"

	"github.com/kirjasto/ils/internal/model"
)

func holding(sortIdx int, location, locationText, enumeration string) *model.Holding {
	return &model.Holding{
		Location:     location,
		LocationText: locationText,
		Enumeration:  enumeration,
		Sort:         sortIdx,
	}
}

func order(holdings []*model.Holding) []int {
	out := make([]int, len(holdings))
	for i, h := range holdings {
		out[i] = h.Sort
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortLocationRank(t *testing.T) {
	s := NewSorter([]string{"desk", "stack"}, false)
	holdings := []*model.Holding{
		holding(0, "depot", "Depot", ""),
		holding(1, "stack", "Stacks", ""),
		holding(2, "desk", "Front desk", ""),
	}
	s.Sort(holdings)
	// Ranked locations first in configured order, unranked after.
	if got := order(holdings); !equalInts(got, []int{2, 1, 0}) {
		t.Errorf("order = %v, want [2 1 0]", got)
	}
}

func TestSortUnrankedByLabel(t *testing.T) {
	s := NewSorter(nil, false)
	holdings := []*model.Holding{
		holding(0, "z", "West branch", ""),
		holding(1, "a", "east branch", ""),
		holding(2, "m", "Main library", ""),
	}
	s.Sort(holdings)
	if got := order(holdings); !equalInts(got, []int{1, 2, 0}) {
		t.Errorf("order = %v, want [1 2 0] (label order, case-insensitive)", got)
	}
}

func TestSortReverseChronology(t *testing.T) {
	s := NewSorter(nil, true)
	holdings := []*model.Holding{
		holding(0, "j", "Journals", "Vol. 2 2024:1"),
		holding(1, "j", "Journals", "Vol. 10 2026:3"),
		holding(2, "j", "Journals", "Vol. 10 2026:12"),
	}
	s.Sort(holdings)
	// Newest first: 2026:12, 2026:3, 2024:1.
	if got := order(holdings); !equalInts(got, []int{2, 1, 0}) {
		t.Errorf("order = %v, want [2 1 0]", got)
	}
}

func TestSortChronologyDisabled(t *testing.T) {
	s := NewSorter(nil, false)
	holdings := []*model.Holding{
		holding(0, "j", "Journals", "Vol. 2"),
		holding(1, "j", "Journals", "Vol. 10"),
	}
	s.Sort(holdings)
	// Insertion order decides when chronology is off.
	if got := order(holdings); !equalInts(got, []int{0, 1}) {
		t.Errorf("order = %v, want [0 1]", got)
	}
}

func TestSortInsertionIndexBreaksTies(t *testing.T) {
	s := NewSorter([]string{"desk"}, true)
	holdings := []*model.Holding{
		holding(1, "desk", "Front desk", "Vol. 1"),
		holding(0, "desk", "Front desk", "Vol. 1"),
	}
	s.Sort(holdings)
	if got := order(holdings); !equalInts(got, []int{0, 1}) {
		t.Errorf("order = %v, want [0 1]", got)
	}
}

func TestSortSummaryRowsTrail(t *testing.T) {
	s := NewSorter([]string{"stack"}, false)
	summary := &model.Holding{Summary: true, Sort: 0}
	holdings := []*model.Holding{
		summary,
		holding(1, "depot", "Depot", ""),
		holding(2, "stack", "Stacks", ""),
	}
	s.Sort(holdings)
	if !holdings[len(holdings)-1].Summary {
		t.Errorf("summary row not last: %v", order(holdings))
	}
}

func TestSortIsTotal(t *testing.T) {
	s := NewSorter([]string{"a"}, true)
	holdings := []*model.Holding{
		holding(3, "b", "B", ""),
		holding(1, "a", "A", "Vol. 2"),
		holding(2, "a", "A", "Vol. 2"),
		holding(0, "c", "C", ""),
	}
	// Same input sorted twice from different starting orders must agree.
	s.Sort(holdings)
	first := order(holdings)
	holdings[0], holdings[3] = holdings[3], holdings[0]
	s.Sort(holdings)
	if got := order(holdings); !equalInts(got, first) {
		t.Errorf("sort not deterministic: %v vs %v", first, got)
	}
}
