package base

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirjasto/ils/internal/config"
	"github.com/kirjasto/ils/internal/driver"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/reqcache"
)

func testDeps(cfg *config.Backend) driver.Deps {
	if cfg.RatePerSecond == 0 {
		cfg.RatePerSecond = config.DefaultRatePerSec
	}
	if cfg.CacheTTLSecs == 0 {
		cfg.CacheTTLSecs = 30
	}
	return driver.Deps{Config: cfg, Cache: reqcache.NewMemory()}
}

func TestNewDerivesCapabilities(t *testing.T) {
	h, err := New(testDeps(&config.Backend{
		Name:                  "t1",
		HoldsEnabled:          true,
		ChangePasswordEnabled: true,
		PickupRules:           "lib=A:pickup=MAIN",
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, name := range []string{driver.CapHolds, driver.CapCancelHolds, driver.CapRenewals,
		driver.CapChangePassword, driver.CapPickupRules} {
		if !h.SupportsMethod(name) {
			t.Errorf("capability %q not enabled", name)
		}
	}
	if h.SupportsMethod(driver.CapProfileUpdates) {
		t.Error("profile updates enabled without the flag")
	}
}

func TestNewRejectsMalformedRules(t *testing.T) {
	_, err := New(testDeps(&config.Backend{
		Name:        "t2",
		PickupRules: "lib=[bad:pickup=MAIN",
	}))
	if err == nil {
		t.Fatal("expected construction to fail on malformed rules")
	}
}

func TestGetConfig(t *testing.T) {
	h, err := New(testDeps(&config.Backend{
		Name:           "t3",
		HoldsEnabled:   true,
		RequiredByDays: 14,
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	block, ok := h.GetConfig("Holds")
	if !ok {
		t.Fatal("Holds config not exposed")
	}
	if block["defaultRequiredDate"] != 14 {
		t.Errorf("defaultRequiredDate = %v", block["defaultRequiredDate"])
	}
	if _, ok := h.GetConfig("changePassword"); ok {
		t.Error("changePassword config exposed without the flag")
	}
	if _, ok := h.GetConfig("unknown"); ok {
		t.Error("unknown capability must report false")
	}
}

func TestDefaultPickup(t *testing.T) {
	eligible := []model.PickupLocation{
		{ID: "EAST", Display: "East"},
		{ID: "MAIN", Display: "Main"},
	}

	h, _ := New(testDeps(&config.Backend{Name: "t4", DefaultPickupLocation: "MAIN"}))
	if id, ok := h.DefaultPickup(eligible); !ok || id != "MAIN" {
		t.Errorf("DefaultPickup = %q, %v; want MAIN", id, ok)
	}

	// Configured default not eligible: fall back to first.
	h, _ = New(testDeps(&config.Backend{Name: "t5", DefaultPickupLocation: "WEST"}))
	if id, ok := h.DefaultPickup(eligible); !ok || id != "EAST" {
		t.Errorf("DefaultPickup = %q, %v; want EAST", id, ok)
	}

	if _, ok := h.DefaultPickup(nil); ok {
		t.Error("DefaultPickup with no eligible locations must report false")
	}
}

func TestRequiredBy(t *testing.T) {
	h, _ := New(testDeps(&config.Backend{Name: "t6", RequiredByDays: 10}))

	explicit := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	got := h.RequiredBy(&model.HoldRequest{RequiredBy: &explicit})
	if !got.Equal(explicit) {
		t.Errorf("RequiredBy = %v, want explicit date", got)
	}

	fallback := h.RequiredBy(&model.HoldRequest{})
	want := time.Now().AddDate(0, 0, 10)
	if fallback.Sub(want) > time.Minute || want.Sub(fallback) > time.Minute {
		t.Errorf("RequiredBy fallback = %v, want ~%v", fallback, want)
	}
}

func TestMemoScopesKeysByBackend(t *testing.T) {
	cache := reqcache.NewMemory()
	mk := func(name string) *Helper {
		deps := testDeps(&config.Backend{Name: name})
		deps.Cache = cache
		h, err := New(deps)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return h
	}
	h1, h2 := mk("b1"), mk("b2")

	calls := 0
	fetch := func() (string, error) {
		calls++
		return "v", nil
	}
	if _, err := Memo(h1, "op", []string{"x"}, fetch); err != nil {
		t.Fatal(err)
	}
	if _, err := Memo(h1, "op", []string{"x"}, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("same backend+op+args fetched %d times, want 1", calls)
	}
	if _, err := Memo(h2, "op", []string{"x"}, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("different backend must not share entries; calls = %d", calls)
	}
}

func TestItemAttributes(t *testing.T) {
	h := &model.Holding{
		Library:   "MAIN",
		Location:  "stack",
		Policy:    "normal",
		Available: true,
		Status:    model.StatusAvailable,
	}
	patron := &model.Patron{Group: "staff"}

	attrs := ItemAttributes(h, patron)
	if attrs["lib"] != "MAIN" || attrs["loc"] != "stack" || attrs["policy"] != "normal" {
		t.Errorf("attrs = %v", attrs)
	}
	if attrs["avail"] != "y" || attrs["unavail"] != "n" {
		t.Errorf("avail/unavail = %q/%q, want y/n", attrs["avail"], attrs["unavail"])
	}
	if attrs["group"] != "staff" {
		t.Errorf("group = %q", attrs["group"])
	}

	attrs = ItemAttributes(nil, nil)
	if len(attrs) != 0 {
		t.Errorf("nil inputs produced attrs %v", attrs)
	}
}

func TestHoldAttributesSkipsFetchWithoutRules(t *testing.T) {
	h, _ := New(testDeps(&config.Backend{Name: "t7"}))

	fetched := false
	fetch := func(context.Context, string, *model.Patron) (*model.HoldingsResult, error) {
		fetched = true
		return nil, nil
	}
	_, err := h.HoldAttributes(context.Background(), nil, &model.HoldRequest{RecordID: "1"}, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if fetched {
		t.Error("fetched holdings although no rules are configured")
	}
}

func TestHoldAttributesPicksRequestedItem(t *testing.T) {
	h, _ := New(testDeps(&config.Backend{Name: "t8", PickupRules: "lib=A:pickup=MAIN"}))

	res := &model.HoldingsResult{Holdings: []*model.Holding{
		{ItemID: "1", Library: "A"},
		{ItemID: "2", Library: "B"},
		{Summary: true},
	}}
	fetch := func(context.Context, string, *model.Patron) (*model.HoldingsResult, error) {
		return res, nil
	}

	attrs, err := h.HoldAttributes(context.Background(), nil,
		&model.HoldRequest{RecordID: "r", ItemID: "2"}, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if attrs["lib"] != "B" {
		t.Errorf("lib = %q, want the requested item's library", attrs["lib"])
	}
	if attrs["level"] != "copy" {
		t.Errorf("level = %q, want copy for an item-specific request", attrs["level"])
	}

	// Without an item id, the first non-summary item decides.
	attrs, err = h.HoldAttributes(context.Background(), nil,
		&model.HoldRequest{RecordID: "r"}, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if attrs["lib"] != "A" {
		t.Errorf("lib = %q, want first item's library", attrs["lib"])
	}
	if attrs["level"] != "title" {
		t.Errorf("level = %q, want title for a record-level request", attrs["level"])
	}
}

func TestHoldAttributesSatisfyLevelRules(t *testing.T) {
	h, err := New(testDeps(&config.Backend{
		Name:        "t9",
		PickupRules: "level=title:pickup=MAIN",
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res := &model.HoldingsResult{Holdings: []*model.Holding{
		{ItemID: "1", Library: "A", Available: true},
	}}
	fetch := func(context.Context, string, *model.Patron) (*model.HoldingsResult, error) {
		return res, nil
	}

	attrs, err := h.HoldAttributes(context.Background(), &model.Patron{Group: "adult"},
		&model.HoldRequest{RecordID: "r"}, fetch)
	if err != nil {
		t.Fatal(err)
	}
	out := h.Rules.Evaluate(attrs)
	if !out.Matched || len(out.PickupIDs) != 1 || out.PickupIDs[0] != "MAIN" {
		t.Errorf("title-level hold evaluated to %+v, want MAIN allowed", out)
	}

	attrs, err = h.HoldAttributes(context.Background(), nil,
		&model.HoldRequest{RecordID: "r", ItemID: "1"}, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if out := h.Rules.Evaluate(attrs); out.Matched {
		t.Errorf("copy-level hold evaluated to %+v, want no match", out)
	}
}

func TestOpResultFromError(t *testing.T) {
	result, err := OpResultFromError(ilserr.NewValidationError("profile_update_fail", ""))
	if err != nil {
		t.Fatalf("validation error must fold into the result, got %v", err)
	}
	if result.Success || result.SysMessage != "profile_update_fail" {
		t.Errorf("result = %+v", result)
	}

	boom := ilserr.NewConnectionError("b", errors.New("down"))
	if _, err := OpResultFromError(boom); !ilserr.IsConnectionError(err) {
		t.Errorf("connection error must propagate, got %v", err)
	}
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2.50", 250},
		{"2,50", 250},
		{"12", 1200},
		{"0.5", 50},
		{"1.234", 123},
		{"-3.00", -300},
		{" 4.20 ", 420},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := MinorUnits(tt.in); got != tt.want {
			t.Errorf("MinorUnits(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got := ParseDate("2026-09-21", time.RFC3339, "2006-01-02")
	if got == nil || got.Year() != 2026 || got.Month() != 9 {
		t.Errorf("ParseDate = %v", got)
	}
	if ParseDate("", "2006-01-02") != nil {
		t.Error("empty input must yield nil")
	}
	if ParseDate("not a date", "2006-01-02") != nil {
		t.Error("unparseable input must yield nil")
	}
}
