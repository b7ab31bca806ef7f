// Package testutil provides shared helpers for driver and command
// tests: viper isolation, canned backend configuration and a scripted
// HTTP transport.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/spf13/viper"

	"github.com/kirjasto/ils/internal/config"
)

// ResetViper resets viper and schedules another reset when the test
// completes, so backend sections set by one test never leak into the
// next.
func ResetViper(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}

// BackendConfig returns a backend configuration with defaults applied,
// suitable for constructing a driver directly in a test.
func BackendConfig(t *testing.T, name, driverName string) *config.Backend {
	t.Helper()

	ResetViper(t)
	viper.Set("backends."+name+".driver", driverName)
	cfg, err := config.Load(name)
	if err != nil {
		t.Fatalf("load backend config: %v", err)
	}
	return cfg
}

// RoundTrip is a scripted HTTP transport: each call is answered by the
// handler function, and every request is recorded for assertions.
type RoundTrip struct {
	Handler  func(req *http.Request) (*http.Response, error)
	Requests []*http.Request
}

// Do implements the injectable transport contract of the drivers.
func (rt *RoundTrip) Do(req *http.Request) (*http.Response, error) {
	rt.Requests = append(rt.Requests, req)
	return rt.Handler(req)
}

// JSONResponse builds an HTTP response with a JSON body.
func JSONResponse(status int, body string) *http.Response {
	return response(status, body, "application/json")
}

// XMLResponse builds an HTTP response with an XML body.
func XMLResponse(status int, body string) *http.Response {
	return response(status, body, "application/xml")
}

func response(status int, body, contentType string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{contentType}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}
