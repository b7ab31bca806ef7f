package base

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kirjasto/ils/internal/driver"
	"github.com/kirjasto/ils/internal/ilserr"
)

const maxResponseBytes = 8 << 20

// NewHTTPClient returns the transport for an adapter: the injected
// test double when present, otherwise an http.Client with the
// configured timeout. A timeout on the wire becomes ConnectionError,
// never a generic failure.
func NewHTTPClient(deps driver.Deps) driver.HTTPDoer {
	if deps.HTTPClient != nil {
		return deps.HTTPClient
	}
	return &http.Client{Timeout: deps.Config.Timeout()}
}

// Response is a fully-read backend reply. Adapters classify non-2xx
// statuses themselves because "error" can mean a business rejection
// that must not become a ConnectionError.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do runs one outbound request through the backend's rate limiter and
// reads the whole body. Any transport-level failure (unreachable,
// timeout, cancelled) is reclassified as ConnectionError here so no
// net/http error type escapes the adapter.
func (h *Helper) Do(ctx context.Context, client driver.HTTPDoer, req *http.Request) (*Response, error) {
	if err := h.Limiter.Wait(ctx); err != nil {
		return nil, ilserr.NewConnectionError(h.Cfg.Name, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ilserr.NewConnectionError(h.Cfg.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, ilserr.NewConnectionError(h.Cfg.Name, err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// ParseDate parses a backend date in one of the given layouts,
// returning nil when none fit. Backends are wildly inconsistent about
// date formats, so absence beats a hard failure.
func ParseDate(value string, layouts ...string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
