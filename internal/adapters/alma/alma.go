// Package alma implements the driver contract against an Alma-style
// REST API: XML request/response bodies over HTTPS with an API key
// passed as a query parameter, and explicit limit/offset pagination.
package alma

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/driver"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/normalize"
)

// DriverName is the config key selecting this adapter.
const DriverName = "alma"

func init() {
	driver.Register(DriverName, New)
}

// statusTable maps Alma process types onto canonical statuses. An item
// with no process type and base status "in place" is Available.
var statusTable = map[string]model.Status{
	"loan":         model.StatusCharged,
	"holdshelf":    model.StatusOnHold,
	"transit":      model.StatusInTransit,
	"lost_loan":    model.StatusLost,
	"lost_ill":     model.StatusLost,
	"missing":      model.StatusMissing,
	"work_order":   model.StatusInProcess,
	"acq":          model.StatusOnOrder,
	"technical":    model.StatusInProcess,
	"claim_return": model.StatusCharged,
	"recall":       model.StatusCharged,
	"requested":    model.StatusOnHold,
	"withdrawn":    model.StatusWithdrawn,
}

// faultCodes maps Alma error codes onto message keys for validation
// failures. Anything else on a 4xx is a generic failure key.
var faultCodes = map[string]string{
	"401129": "hold_not_holdable",
	"401136": "hold_duplicate",
	"401137": "hold_invalid_pickup",
	"401664": "hold_missing_field",
	"401652": "renew_limit_reached",
	"402203": "record_not_found",
	"401861": "record_not_found",
}

// Driver is the Alma adapter. All state is built at construction and
// read-only afterwards.
type Driver struct {
	*base.Helper
	client   driver.HTTPDoer
	statuses *normalize.StatusTable
}

// New constructs the Alma driver, validating required configuration.
func New(deps driver.Deps) (driver.Driver, error) {
	cfg := deps.Config
	if err := cfg.RequireHost(); err != nil {
		return nil, err
	}
	if err := cfg.RequireField("api_key", cfg.APIKey); err != nil {
		return nil, err
	}

	helper, err := base.New(deps)
	if err != nil {
		return nil, err
	}

	statuses := normalize.NewStatusTable(cfg.Name, statusTable)
	statuses.Merge(parseStatusOverrides(cfg.StatusMap))

	return &Driver{
		Helper:   helper,
		client:   base.NewHTTPClient(deps),
		statuses: statuses,
	}, nil
}

func parseStatusOverrides(raw map[string]string) map[string]model.Status {
	overrides := make(map[string]model.Status, len(raw))
	for code, status := range raw {
		overrides[code] = model.Status(status)
	}
	return overrides
}

// buildURL assembles an API URL with the key and extra query
// parameters attached.
func (d *Driver) buildURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", d.Cfg.APIKey)
	return strings.TrimSuffix(d.Cfg.Host, "/") + path + "?" + params.Encode()
}

// get fetches an XML document into target.
func (d *Driver) get(ctx context.Context, path string, params url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.buildURL(path, params), nil)
	if err != nil {
		return ilserr.NewConnectionError(d.Cfg.Name, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := d.Do(ctx, d.client, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return d.classifyFault(resp)
	}
	if err := xml.Unmarshal(resp.Body, target); err != nil {
		return ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("malformed response: %w", err))
	}
	return nil
}

// send issues a POST/PUT/DELETE with an optional XML body and decodes
// the reply into target when non-nil.
func (d *Driver) send(ctx context.Context, method, path string, params url.Values, body, target any) error {
	var reader *strings.Reader
	if body != nil {
		encoded, err := xml.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = strings.NewReader(xml.Header + string(encoded))
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, d.buildURL(path, params), reader)
	if err != nil {
		return ilserr.NewConnectionError(d.Cfg.Name, err)
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("Accept", "application/xml")

	resp, err := d.Do(ctx, d.client, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return d.classifyFault(resp)
	}
	if target != nil && len(resp.Body) > 0 {
		if err := xml.Unmarshal(resp.Body, target); err != nil {
			return ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("malformed response: %w", err))
		}
	}
	return nil
}

// classifyFault turns a non-2xx reply into the taxonomy: a recognized
// error envelope on a 4xx is a business rejection, everything else is
// a transport-level fault.
func (d *Driver) classifyFault(resp *base.Response) error {
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var result webServiceResult
		if err := xml.Unmarshal(resp.Body, &result); err == nil && len(result.Errors) > 0 {
			fault := result.Errors[0]
			if key, ok := faultCodes[fault.Code]; ok {
				return ilserr.NewValidationError(key, fault.Message)
			}
			return ilserr.NewValidationError("hold_error_fail", fault.Message)
		}
	}
	return ilserr.NewConnectionError(d.Cfg.Name,
		fmt.Errorf("unexpected status %d", resp.StatusCode))
}
