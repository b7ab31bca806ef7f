// Package config loads typed per-backend driver configuration from
// viper. Each backend lives under "backends.<name>" in the config
// file; required fields are validated by the adapter constructor so a
// misconfigured driver fails at startup, not at first use.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/kirjasto/ils/internal/ilserr"
)

// Defaults applied when a backend section leaves a knob unset.
const (
	DefaultTimeout       = 10 * time.Second
	DefaultMaxPages      = 10
	DefaultRatePerSec    = 4
	DefaultCacheTTL      = 30 * time.Second
	DefaultPageSize      = 100
	DefaultRequiredByDay = 30
)

// Backend is the configuration of one ILS backend connection.
type Backend struct {
	// Name is the config section name, used for logging and cache
	// scoping.
	Name string `mapstructure:"-"`
	// Driver selects the adapter: alma, aurora, mikromarc or demo.
	Driver string `mapstructure:"driver"`
	Host   string `mapstructure:"host"`

	// Credentials; which ones apply depends on the driver.
	APIKey   string `mapstructure:"api_key"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UnitID   string `mapstructure:"unit_id"`

	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	MaxPages       int `mapstructure:"max_pages"`
	PageSize       int `mapstructure:"page_size"`
	RatePerSecond  int `mapstructure:"rate_per_second"`
	CacheTTLSecs   int `mapstructure:"cache_ttl_seconds"`

	// LocationPriority ranks location codes for display sorting;
	// unlisted locations sort after all listed ones.
	LocationPriority []string `mapstructure:"location_priority"`
	// SortByEnumChron enables reverse-chronological enumeration
	// sorting for tied locations.
	SortByEnumChron bool `mapstructure:"sort_by_enum_chron"`
	// PickupRules is the rule-text block for pickup-location
	// eligibility. Empty means the rule engine is not configured.
	PickupRules string `mapstructure:"pickup_rules"`
	// StatusMap overrides entries of the adapter's built-in status
	// table (backend code -> canonical status).
	StatusMap map[string]string `mapstructure:"status_map"`

	HoldsEnabled          bool   `mapstructure:"holds_enabled"`
	FinesPayable          bool   `mapstructure:"fines_payable"`
	ProfileUpdatesEnabled bool   `mapstructure:"profile_updates_enabled"`
	ChangePasswordEnabled bool   `mapstructure:"change_password_enabled"`
	DefaultPickupLocation string `mapstructure:"default_pickup_location"`
	// RequiredByDays is the default hold expiry horizon when the
	// caller does not supply a required-by date.
	RequiredByDays int `mapstructure:"required_by_days"`

	// Demo driver knobs.
	DBFile         string `mapstructure:"db_file"`
	FixtureFile    string `mapstructure:"fixture_file"`
	FailConnection bool   `mapstructure:"fail_connection"`
	FailValidation string `mapstructure:"fail_validation"`
}

// Load reads the named backend section from viper and applies
// defaults.
func Load(name string) (*Backend, error) {
	key := "backends." + name
	if !viper.IsSet(key) {
		return nil, fmt.Errorf("no such backend %q in configuration", name)
	}
	var b Backend
	if err := viper.UnmarshalKey(key, &b); err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	b.Name = name
	b.applyDefaults()
	return &b, nil
}

func (b *Backend) applyDefaults() {
	if b.TimeoutSeconds <= 0 {
		b.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}
	if b.MaxPages <= 0 {
		b.MaxPages = DefaultMaxPages
	}
	if b.PageSize <= 0 {
		b.PageSize = DefaultPageSize
	}
	if b.RatePerSecond <= 0 {
		b.RatePerSecond = DefaultRatePerSec
	}
	if b.CacheTTLSecs <= 0 {
		b.CacheTTLSecs = int(DefaultCacheTTL / time.Second)
	}
	if b.RequiredByDays <= 0 {
		b.RequiredByDays = DefaultRequiredByDay
	}
}

// Timeout returns the outbound request timeout.
func (b *Backend) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// CacheTTL returns the read-call memoization TTL.
func (b *Backend) CacheTTL() time.Duration {
	return time.Duration(b.CacheTTLSecs) * time.Second
}

// RequireHost validates that the backend has a host configured.
func (b *Backend) RequireHost() error {
	if b.Host == "" {
		return ilserr.NewConfigurationError(b.Name, "host")
	}
	return nil
}

// RequireField validates one named non-empty credential or setting.
func (b *Backend) RequireField(field, value string) error {
	if value == "" {
		return ilserr.NewConfigurationError(b.Name, field)
	}
	return nil
}
