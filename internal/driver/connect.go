package driver

import (
	"fmt"
	"net/http"

	"github.com/kirjasto/ils/internal/config"
	"github.com/kirjasto/ils/internal/reqcache"
)

// HTTPDoer is the injectable transport used by HTTP-based adapters.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Deps carries everything an adapter needs at construction: its typed
// configuration, the session-scoped request cache, and an optional
// transport override for tests.
type Deps struct {
	Config *config.Backend
	Cache  reqcache.Cache
	// HTTPClient overrides the adapter's default transport when
	// non-nil. The default is an http.Client with the configured
	// timeout.
	HTTPClient HTTPDoer
}

// Connect instantiates the adapter selected by the configuration's
// driver key. An unknown driver name is a configuration mistake and
// fails immediately.
func Connect(deps Deps) (Driver, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("driver: nil backend configuration")
	}
	factory, ok := lookupFactory(deps.Config.Driver)
	if !ok {
		return nil, fmt.Errorf("driver: unknown driver %q for backend %q", deps.Config.Driver, deps.Config.Name)
	}
	if deps.Cache == nil {
		deps.Cache = reqcache.NewMemory()
	}
	return factory(deps)
}
