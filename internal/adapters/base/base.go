// Package base carries the behavior shared by every ILS adapter:
// capability registry wiring, pickup-location rule filtering, display
// sorting and the memoization helpers. Adapters delegate to an
// embedded Helper instead of inheriting from a common superclass.
package base

import (
	"fmt"
	"time"

	"github.com/kirjasto/ils/internal/config"
	"github.com/kirjasto/ils/internal/driver"
	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/normalize"
	"github.com/kirjasto/ils/internal/ratelimit"
	"github.com/kirjasto/ils/internal/reqcache"
	"github.com/kirjasto/ils/internal/rules"
)

// Helper is the shared state of one adapter instance. Everything here
// is built at construction and read-only afterwards, so concurrent
// readers need no adapter-level locking.
type Helper struct {
	Cfg     *config.Backend
	Cache   reqcache.Cache
	Caps    *driver.Capabilities
	Sorter  *normalize.Sorter
	Rules   *rules.RuleSet
	Limiter *ratelimit.Limiter
}

// New builds the shared helper from the adapter's dependencies,
// parsing the pickup rule block and deriving the capability set from
// the configured feature flags. A malformed rule block fails here,
// at construction, not at the first pickup-location query.
func New(deps driver.Deps) (*Helper, error) {
	cfg := deps.Config

	ruleSet, err := rules.Parse(cfg.PickupRules)
	if err != nil {
		return nil, fmt.Errorf("backend %q: pickup rules: %w", cfg.Name, err)
	}

	var caps []string
	if cfg.HoldsEnabled {
		caps = append(caps, driver.CapHolds, driver.CapCancelHolds, driver.CapRenewals)
	}
	if cfg.ProfileUpdatesEnabled {
		caps = append(caps, driver.CapProfileUpdates, driver.CapUpdateEmail, driver.CapUpdatePhone)
	}
	if cfg.ChangePasswordEnabled {
		caps = append(caps, driver.CapChangePassword)
	}
	if ruleSet != nil {
		caps = append(caps, driver.CapPickupRules)
	}

	return &Helper{
		Cfg:     cfg,
		Cache:   deps.Cache,
		Caps:    driver.NewCapabilities(caps...),
		Sorter:  normalize.NewSorter(cfg.LocationPriority, cfg.SortByEnumChron),
		Rules:   ruleSet,
		Limiter: ratelimit.ForBackend(cfg.Name, cfg.RatePerSecond),
	}, nil
}

// GetConfig implements the capability-configuration part of the driver
// contract for all adapters.
func (h *Helper) GetConfig(capability string) (driver.ConfigBlock, bool) {
	switch capability {
	case "Holds":
		if !h.Cfg.HoldsEnabled {
			return nil, false
		}
		return driver.ConfigBlock{
			"defaultRequiredDate": h.Cfg.RequiredByDays,
			"extraHoldFields":     []string{"comments", "requiredByDate", "pickUpLocation"},
		}, true
	case "changePassword":
		if !h.Cfg.ChangePasswordEnabled {
			return nil, false
		}
		return driver.ConfigBlock{"minLength": 4, "maxLength": 20}, true
	default:
		return nil, false
	}
}

// SupportsMethod implements the capability check of the driver
// contract. It has no side effects.
func (h *Helper) SupportsMethod(name string) bool {
	return h.Caps.Supports(name)
}

// FilterPickup applies the rule engine to the backend's location list
// for the given item attributes and patron.
func (h *Helper) FilterPickup(attrs rules.Attributes, patron *model.Patron, backend []model.PickupLocation) []model.PickupLocation {
	return h.Rules.FilterPickupLocations(attrs, patron, backend)
}

// DefaultPickup resolves the default pickup location against the
// eligible list: the configured default when eligible, otherwise the
// first eligible location, otherwise ok == false.
func (h *Helper) DefaultPickup(eligible []model.PickupLocation) (string, bool) {
	if h.Cfg.DefaultPickupLocation != "" {
		for _, loc := range eligible {
			if loc.ID == h.Cfg.DefaultPickupLocation {
				return loc.ID, true
			}
		}
	}
	if len(eligible) > 0 {
		return eligible[0].ID, true
	}
	return "", false
}

// RequiredBy returns the hold expiry date to send when the caller did
// not supply one.
func (h *Helper) RequiredBy(req *model.HoldRequest) time.Time {
	if req != nil && req.RequiredBy != nil {
		return *req.RequiredBy
	}
	return time.Now().AddDate(0, 0, h.Cfg.RequiredByDays)
}

// Memo memoizes a read-only call under the session cache using the
// configured TTL. Mutating operations must not go through here.
func Memo[T any](h *Helper, op string, args []string, fetch reqcache.FetchFunc[T]) (T, error) {
	key := reqcache.Fingerprint(h.Cfg.Name+"."+op, args...)
	value, _, err := reqcache.GetOrCall(h.Cache, key, h.Cfg.CacheTTL(), fetch)
	return value, err
}
