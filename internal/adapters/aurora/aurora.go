// Package aurora implements the driver contract against an Axiell
// Aurora-style SOAP 1.1 service: hand-built envelopes over HTTPS, one
// SOAPAction per operation, faults reclassified into the shared
// taxonomy at this boundary.
package aurora

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/driver"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/normalize"
)

// DriverName is the config key selecting this adapter.
const DriverName = "aurora"

const serviceNS = "http://axiell.com/aurora/services"

func init() {
	driver.Register(DriverName, New)
}

// statusTable maps the backend's item status vocabulary onto canonical
// statuses.
var statusTable = map[string]model.Status{
	"availableforloan":          model.StatusAvailable,
	"onloan":                    model.StatusCharged,
	"reserved":                  model.StatusOnHold,
	"onholdshelf":               model.StatusOnHold,
	"intransitbetweenlibraries": model.StatusInTransit,
	"lost":                      model.StatusLost,
	"discarded":                 model.StatusWithdrawn,
	"inbinding":                 model.StatusInProcess,
	"incataloguing":             model.StatusInProcess,
	"ordered":                   model.StatusOnOrder,
	"missing":                   model.StatusMissing,
	"overdue":                   model.StatusOverdue,
}

// faultMessages maps backend fault strings onto validation message
// keys.
var faultMessages = map[string]string{
	"invalid pickup branch":  "hold_invalid_pickup",
	"reservation exists":     "hold_duplicate",
	"record not reservable":  "hold_not_holdable",
	"max renewals reached":   "renew_limit_reached",
	"missing required field": "hold_missing_field",
}

// Driver is the Aurora SOAP adapter.
type Driver struct {
	*base.Helper
	client   driver.HTTPDoer
	statuses *normalize.StatusTable
}

// New constructs the Aurora driver, validating required configuration.
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

// call performs one SOAP operation: wrap the payload in an envelope,
// POST it with the action header, check for a fault, then decode the
// operation response from the body.
func (d *Driver) call(ctx context.Context, action string, payload, result any) error {
	env := requestEnvelope{
		EnvNS: soapEnvNS,
		Body:  requestBody{Payload: payload},
	}
	encoded, err := xml.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Cfg.Host,
		bytes.NewReader([]byte(xml.Header+string(encoded))))
	if err != nil {
		return ilserr.NewConnectionError(d.Cfg.Name, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", serviceNS+"/"+action)
	req.SetBasicAuth(d.Cfg.Username, d.Cfg.Password)

	resp, err := d.Do(ctx, d.client, req)
	if err != nil {
		return err
	}

	var respEnv responseEnvelope
	if err := xml.Unmarshal(resp.Body, &respEnv); err != nil {
		return ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("malformed envelope: %w", err))
	}
	if respEnv.Body.Fault != nil {
		return d.classifyFault(respEnv.Body.Fault)
	}
	if !resp.OK() {
		return ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if result != nil {
		if err := xml.Unmarshal(respEnv.Body.Inner, result); err != nil {
			return ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("malformed response: %w", err))
		}
	}
	return nil
}

// classifyFault separates business rejections (Client faults) from
// transport-level failures (everything else).
func (d *Driver) classifyFault(fault *soapFault) error {
	code := fault.Code
	if i := strings.IndexByte(code, ':'); i >= 0 {
		code = code[i+1:]
	}
	if strings.EqualFold(code, "Client") {
		key, ok := faultMessages[strings.ToLower(fault.String)]
		if !ok {
			key = "hold_error_fail"
		}
		return ilserr.NewValidationError(key, fault.String)
	}
	return ilserr.NewConnectionError(d.Cfg.Name, fmt.Errorf("soap fault %s: %s", fault.Code, fault.String))
}
