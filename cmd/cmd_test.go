package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirjasto/ils/internal/model"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{250, "2.50"},
		{3000, "30.00"},
		{-150, "-1.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.cents))
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", formatDate(nil))

	d := time.Date(2026, 9, 21, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-09-21", formatDate(&d))
}

func TestMessageResolvesKnownKeys(t *testing.T) {
	assert.NotEmpty(t, message("hold_success"))
	assert.NotEqual(t, "hold_success", message("hold_success"))

	// Unknown keys fall back to the key itself rather than vanishing.
	assert.Equal(t, "no_such_key", message("no_such_key"))
}

type fakePickupDriver struct {
	locations []model.PickupLocation
	defaultID string
	hasDef    bool
}

func (f *fakePickupDriver) GetPickupLocations(context.Context, *model.Patron, *model.HoldRequest) ([]model.PickupLocation, error) {
	return f.locations, nil
}

func (f *fakePickupDriver) GetDefaultPickupLocation(context.Context, *model.Patron, *model.HoldRequest) (string, bool, error) {
	return f.defaultID, f.hasDef, nil
}

func TestResolvePickupWithoutPicker(t *testing.T) {
	drv := &fakePickupDriver{
		locations: []model.PickupLocation{{ID: "MAIN", Display: "Main"}},
		defaultID: "MAIN",
		hasDef:    true,
	}
	h := &HoldPlaceCmd{NoPicker: true}
	session := &patronSession{patron: &model.Patron{ID: "p1"}}

	pickup, err := h.resolvePickup(context.Background(), drv, session, &model.HoldRequest{RecordID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "MAIN", pickup)
}

func TestResolvePickupNothingEligible(t *testing.T) {
	// An empty eligible list cancels the selection without opening the
	// interactive picker.
	drv := &fakePickupDriver{}
	h := &HoldPlaceCmd{}
	session := &patronSession{patron: &model.Patron{ID: "p1"}}

	pickup, err := h.resolvePickup(context.Background(), drv, session, &model.HoldRequest{RecordID: "1"})
	require.NoError(t, err)
	assert.Empty(t, pickup)
}
