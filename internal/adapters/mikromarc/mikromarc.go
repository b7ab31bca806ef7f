// Package mikromarc implements the driver contract against a
// Mikromarc-style OData API: JSON payloads over HTTPS, $filter/$skip
// queries, @odata.nextLink continuation bounded by a hard page
// ceiling, and a session token obtained with service credentials.
package mikromarc

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/driver"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/normalize"
)

// DriverName is the config key selecting this adapter.
const DriverName = "mikromarc"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	driver.Register(DriverName, New)
}

var statusTable = map[string]model.Status{
	"onshelf":     model.StatusAvailable,
	"onloan":      model.StatusCharged,
	"reserved":    model.StatusOnHold,
	"onholdshelf": model.StatusOnHold,
	"intransit":   model.StatusInTransit,
	"lost":        model.StatusLost,
	"discarded":   model.StatusWithdrawn,
	"inprocess":   model.StatusInProcess,
	"ordered":     model.StatusOnOrder,
	"missing":     model.StatusMissing,
}

var errorCodes = map[string]string{
	"ReservationExists":    "hold_duplicate",
	"InvalidPickupUnit":    "hold_invalid_pickup",
	"NotReservable":        "hold_not_holdable",
	"MaxRenewalsExceeded":  "renew_limit_reached",
	"MissingRequiredField": "hold_missing_field",
	"RecordNotFound":       "record_not_found",
}

// Driver is the Mikromarc OData adapter.
type Driver struct {
	*base.Helper
	client   driver.HTTPDoer
	statuses *normalize.StatusTable
}

// New constructs the Mikromarc driver, validating required
// configuration.
func New(deps driver.Deps) (driver.Driver, error) {
	cfg := deps.Config
	if err := cfg.RequireHost(); err != nil {
		return nil, err
	}
	if err := cfg.RequireField("username", cfg.Username); err != nil {
		return nil, err
	}
	if err := cfg.RequireField("password", cfg.Password); err != nil {
		return nil, err
	}
	if err := cfg.RequireField("unit_id", cfg.UnitID); err != nil {
		return nil, err
	}

	helper, err := base.New(deps)
	if err != nil {
		return nil, err
	}

	statuses := normalize.NewStatusTable(cfg.Name, statusTable)
	overrides := make(map[string]model.Status, len(cfg.StatusMap))
	for code, status := range cfg.StatusMap {
		overrides[code] = model.Status(status)
	}
	statuses.Merge(overrides)

	return &Driver{
		Helper:   helper,
		client:   base.NewHTTPClient(deps),
		statuses: statuses,
	}, nil
}

// token obtains the session token with the service credentials,
// memoized under the session cache so one login serves the whole
// request burst.
func (d *Driver) token(ctx context.Context) (string, error) {
	return base.Memo(d.Helper, "sessionToken", nil, func() (string, error) {
		body, err := json.Marshal(loginRequest{
			Username: d.Cfg.Username,
			Password: d.Cfg.Password,
			UnitID:   d.Cfg.UnitID,
		})
		if err != nil {
			return "", fmt.Errorf("encode login: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			strings.TrimSuffix(d.Cfg.Host, "/")+"/odata/Login", bytes.NewReader(body))
		if err != nil {
			return "", ilserr.NewConnectionError(d.Cfg.Name, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.Do(ctx, d.client, req)
		if err != nil {
			return "", err
		}
		if !resp.OK() {
			return "", d.classifyFault(resp)
		}

		var login loginResponse
		if err := json.Unmarshal(resp.Body, &login); err != nil {
			return "", ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("malformed login response: %w", err))
		}
		return login.Token, nil
	})
}

// request runs one authenticated OData call and decodes the JSON reply
// into target when non-nil.
func (d *Driver) request(ctx context.Context, method, pathAndQuery string, payload, target any) error {
	token, err := d.token(ctx)
	if err != nil {
		return err
	}

	var bodyReader *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	endpoint := pathAndQuery
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = strings.TrimSuffix(d.Cfg.Host, "/") + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return ilserr.NewConnectionError(d.Cfg.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := d.Do(ctx, d.client, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return d.classifyFault(resp)
	}
	if target != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, target); err != nil {
			return ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("malformed response: %w", err))
		}
	}
	return nil
}

// collectPages follows @odata.nextLink continuations, appending each
// page's value into items via the accumulate callback, never beyond
// the configured page ceiling even when the backend keeps promising
// more.
func collectPages[T any](ctx context.Context, d *Driver, firstURL string, accumulate func(page collection[T]) bool) error {
	next := firstURL
	for page := 0; page < d.Cfg.MaxPages && next != ""; page++ {
		var col collection[T]
		if err := d.request(ctx, http.MethodGet, next, nil, &col); err != nil {
			return err
		}
		if !accumulate(col) {
			return nil
		}
		next = col.NextLink
	}
	return nil
}

// classifyFault separates the backend's OData error envelope from
// transport-level failures.
func (d *Driver) classifyFault(resp *base.Response) error {
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var fault odataError
		if err := json.Unmarshal(resp.Body, &fault); err == nil && fault.Error.Code != "" {
			if key, ok := errorCodes[fault.Error.Code]; ok {
				return ilserr.NewValidationError(key, fault.Error.Message)
			}
			return ilserr.NewValidationError("hold_error_fail", fault.Error.Message)
		}
	}
	return ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("unexpected status %d", resp.StatusCode))
}

func escapeFilter(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
