package rules

import "github.com/kirjasto/ils/internal/model"

// FilterPickupLocations applies the rule set to a backend's pickup
// location list. A nil rule set means "not configured" and returns the
// backend list untouched. Otherwise only locations in the accumulated
// allow-set survive, and synthetic home/work entries are appended when
// a rule asked for them and the patron has the address on file.
// Duplicate synthetic entries (identical display string) are
// suppressed.
func (s *RuleSet) FilterPickupLocations(attrs Attributes, patron *model.Patron, backend []model.PickupLocation) []model.PickupLocation {
	if s == nil {
		return backend
	}

	out := s.Evaluate(attrs)

	allowed := make(map[string]struct{}, len(out.PickupIDs))
	home := out.Home
	work := out.Work
	for _, id := range out.PickupIDs {
		switch id {
		case model.PickupHome:
			home = true
		case model.PickupWork:
			work = true
		default:
			allowed[id] = struct{}{}
		}
	}

	filtered := make([]model.PickupLocation, 0, len(backend))
	for _, loc := range backend {
		if _, ok := allowed[loc.ID]; ok {
			filtered = append(filtered, loc)
		}
	}

	displays := make(map[string]struct{}, 2)
	addSynthetic := func(id, display string) {
		if display == "" {
			return
		}
		if _, dup := displays[display]; dup {
			return
		}
		displays[display] = struct{}{}
		filtered = append(filtered, model.PickupLocation{ID: id, Display: display})
	}
	if home && patron != nil {
		addSynthetic(model.PickupHome, patron.HomeAddress())
	}
	if work && patron != nil {
		addSynthetic(model.PickupWork, patron.WorkAddress)
	}

	return filtered
}
