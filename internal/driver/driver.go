// Package driver defines the contract every ILS adapter implements
// and the dispatcher that selects one from configuration. Callers
// depend only on this package and the canonical model; protocol
// details never cross this boundary.
package driver

import (
	"context"

	"github.com/kirjasto/ils/internal/model"
)

// ConfigBlock is feature configuration exposed to callers, e.g. which
// optional fields hold placement accepts.
type ConfigBlock map[string]any

// Driver is the canonical operation set. Read operations return empty
// slices, never nil, when the backend legitimately has no data.
// Transport failures surface as *ilserr.ConnectionError; business-rule
// rejections live inside the result objects as message keys.
type Driver interface {
	// GetConfig returns feature configuration for a capability, or
	// ok == false for an unknown capability.
	GetConfig(capability string) (ConfigBlock, bool)

	// SupportsMethod reports whether an optional capability is usable
	// under the current configuration, without invoking it.
	SupportsMethod(name string) bool

	// PatronLogin returns nil (with nil error) on invalid
	// credentials, distinguishing them from an unreachable backend.
	PatronLogin(ctx context.Context, username, secret string) (*model.Patron, error)

	// GetHolding returns availability for one record. An unknown id
	// yields an empty result, not an error.
	GetHolding(ctx context.Context, id string, patron *model.Patron) (*model.HoldingsResult, error)

	GetMyFines(ctx context.Context, patron *model.Patron) ([]model.Fee, error)
	GetMyTransactions(ctx context.Context, patron *model.Patron) ([]model.Loan, error)
	GetMyHolds(ctx context.Context, patron *model.Patron) ([]model.Hold, error)

	PlaceHold(ctx context.Context, req *model.HoldRequest) (*model.HoldResult, error)
	CancelHolds(ctx context.Context, patron *model.Patron, requestIDs []string) (*model.CancelResult, error)
	RenewItems(ctx context.Context, patron *model.Patron, itemIDs []string) (*model.RenewResult, error)

	GetPickupLocations(ctx context.Context, patron *model.Patron, req *model.HoldRequest) ([]model.PickupLocation, error)
	// GetDefaultPickupLocation returns ok == false when no default is
	// configured or eligible.
	GetDefaultPickupLocation(ctx context.Context, patron *model.Patron, req *model.HoldRequest) (string, bool, error)

	UpdateAddress(ctx context.Context, patron *model.Patron, fields map[string]string) (*model.OpResult, error)
	UpdateEmail(ctx context.Context, patron *model.Patron, email string) (*model.OpResult, error)
	UpdatePhone(ctx context.Context, patron *model.Patron, phone string) (*model.OpResult, error)
	ChangePassword(ctx context.Context, patron *model.Patron, oldSecret, newSecret string) (*model.OpResult, error)
}
