// Package demo implements the driver contract against a local sqlite
// fixture store instead of a network backend. It exists for local
// development and integration tests: every operation behaves like a
// real adapter, including rule filtering, display sorting and the
// error taxonomy, and the config knobs fail_connection /
// fail_validation inject failures on demand.
package demo

import (
	"errors"
	"fmt"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/driver"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/normalize"
)

// DriverName is the config key selecting this adapter.
const DriverName = "demo"

func init() {
	driver.Register(DriverName, New)
}

var statusTable = map[string]model.Status{
	"available": model.StatusAvailable,
	"charged":   model.StatusCharged,
	"onhold":    model.StatusOnHold,
	"intransit": model.StatusInTransit,
	"lost":      model.StatusLost,
	"withdrawn": model.StatusWithdrawn,
	"inprocess": model.StatusInProcess,
	"overdue":   model.StatusOverdue,
	"missing":   model.StatusMissing,
	"onorder":   model.StatusOnOrder,
}

// Driver is the fixture-backed demo adapter.
type Driver struct {
	*base.Helper
	store    *store
	statuses *normalize.StatusTable
}

// New constructs the demo driver, opening the fixture store and
// seeding it on first use. No host or credentials are required.
func New(deps driver.Deps) (driver.Driver, error) {
	helper, err := base.New(deps)
	if err != nil {
		return nil, err
	}

	fixtures, err := loadFixtures(deps.Config.FixtureFile)
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", deps.Config.Name, err)
	}
	st, err := openStore(deps.Config.DBFile, fixtures)
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", deps.Config.Name, err)
	}

	statuses := normalize.NewStatusTable(deps.Config.Name, statusTable)
	overrides := make(map[string]model.Status, len(deps.Config.StatusMap))
	for code, status := range deps.Config.StatusMap {
		overrides[code] = model.Status(status)
	}
	statuses.Merge(overrides)

	return &Driver{
		Helper:   helper,
		store:    st,
		statuses: statuses,
	}, nil
}

// Close releases the fixture store.
func (d *Driver) Close() error {
	return d.store.close()
}

// failFor applies the configured failure injection for the named
// operation: fail_connection makes every call behave like an offline
// backend, fail_validation rejects exactly the named operation.
func (d *Driver) failFor(op string) error {
	if d.Cfg.FailConnection {
		return ilserr.NewConnectionError(d.Cfg.Name, errors.New("ils_offline"))
	}
	if d.Cfg.FailValidation == op {
		return ilserr.NewValidationError("hold_error_fail", "injected validation failure")
	}
	return nil
}

// storeError wraps a fixture-store failure as a connection error so
// the demo backend degrades the same way a real one would.
func storeError(backend string, err error) error {
	return ilserr.NewConnectionError(backend, err)
}
