// Package normalize maps backend status vocabularies onto the
// canonical status set and orders holdings deterministically for
// display.
package normalize

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/kirjasto/ils/internal/model"
)

// StatusTable maps one backend's native status strings to canonical
// statuses. Lookup is case-insensitive. Unmapped codes resolve to
// StatusUnknown and are logged once per code so new backend vocabulary
// shows up in the logs instead of disappearing silently.
type StatusTable struct {
	backend string
	entries map[string]model.Status

	mu       sync.Mutex
	reported map[string]struct{}
}

// NewStatusTable builds a table for the named backend. Keys are
// normalized to lower case at construction.
func NewStatusTable(backend string, entries map[string]model.Status) *StatusTable {
	normalized := make(map[string]model.Status, len(entries))
	for code, status := range entries {
		normalized[strings.ToLower(code)] = status
	}
	return &StatusTable{
		backend:  backend,
		entries:  normalized,
		reported: make(map[string]struct{}),
	}
}

// Merge overlays additional mappings, typically configuration
// overrides, on top of the built-in table.
func (t *StatusTable) Merge(overrides map[string]model.Status) {
	for code, status := range overrides {
		t.entries[strings.ToLower(code)] = status
	}
}

// Lookup resolves a backend status code to a canonical status.
func (t *StatusTable) Lookup(code string) model.Status {
	if status, ok := t.entries[strings.ToLower(code)]; ok {
		return status
	}
	t.mu.Lock()
	if _, seen := t.reported[code]; !seen {
		t.reported[code] = struct{}{}
		slog.Warn("Unmapped backend status code", "backend", t.backend, "code", code)
	}
	t.mu.Unlock()
	return model.StatusUnknown
}

// Known reports whether the table maps the given code.
func (t *StatusTable) Known(code string) bool {
	_, ok := t.entries[strings.ToLower(code)]
	return ok
}
