package normalize

import (
	"sort"
	"strings"

	"github.com/kirjasto/ils/internal/model"
)

// Sorter orders holdings for display with a strict total order:
// configured location rank first, then reverse-chronological
// enumeration (natural compare, optional), then the insertion index as
// the final tie-break. No two distinct holdings ever compare equal, so
// the result is stable across runs.
type Sorter struct {
	ranks        map[string]int
	byChronology bool
}

// NewSorter builds a sorter from an ordered list of location codes.
// The first code gets rank 0; locations not on the list sort after all
// ranked ones. byChronology enables the enumeration comparison.
func NewSorter(locationPriority []string, byChronology bool) *Sorter {
	ranks := make(map[string]int, len(locationPriority))
	for i, code := range locationPriority {
		if _, dup := ranks[code]; !dup {
			ranks[code] = i
		}
	}
	return &Sorter{ranks: ranks, byChronology: byChronology}
}

// Sort orders holdings in place. Summary rows keep their position at
// the end of the list.
func (s *Sorter) Sort(holdings []*model.Holding) {
	sort.Slice(holdings, func(i, j int) bool {
		return s.less(holdings[i], holdings[j])
	})
}

func (s *Sorter) less(a, b *model.Holding) bool {
	// Summary rows trail everything else.
	if a.Summary != b.Summary {
		return b.Summary
	}

	rankA, okA := s.ranks[a.Location]
	rankB, okB := s.ranks[b.Location]
	switch {
	case okA && okB:
		if rankA != rankB {
			return rankA < rankB
		}
	case okA != okB:
		return okA // ranked before unranked
	default:
		// Both unranked: case-insensitive label comparison.
		la := strings.ToLower(a.LocationText)
		lb := strings.ToLower(b.LocationText)
		if la != lb {
			return la < lb
		}
	}

	if s.byChronology && a.Enumeration != b.Enumeration {
		// Newest issues first.
		return NaturalCompare(a.Enumeration, b.Enumeration) > 0
	}

	return a.Sort < b.Sort
}
