package driver

import "sync"

// Capability names checked via SupportsMethod. The set an adapter
// enables is derived from its configuration at construction time;
// there is no call-time reflection.
const (
	CapHolds          = "placeHold"
	CapCancelHolds    = "cancelHolds"
	CapRenewals       = "renewItems"
	CapProfileUpdates = "updateAddress"
	CapUpdateEmail    = "updateEmail"
	CapUpdatePhone    = "updatePhone"
	CapChangePassword = "changePassword"
	CapPickupRules    = "pickupLocationRules"
)

// Capabilities is the explicit registry of operations an adapter
// supports. Built once at construction, read-only afterwards.
type Capabilities struct {
	enabled map[string]bool
}

// NewCapabilities creates a registry with the given operations
// enabled.
func NewCapabilities(names ...string) *Capabilities {
	enabled := make(map[string]bool, len(names))
	for _, name := range names {
		enabled[name] = true
	}
	return &Capabilities{enabled: enabled}
}

// Supports reports whether the named operation is enabled.
func (c *Capabilities) Supports(name string) bool {
	return c != nil && c.enabled[name]
}

// Names returns the enabled capability names (unordered).
func (c *Capabilities) Names() []string {
	names := make([]string, 0, len(c.enabled))
	for name := range c.enabled {
		names = append(names, name)
	}
	return names
}

// Factory builds a driver from its backend configuration. Adapters
// register themselves in init(), database/sql style, so the dispatcher
// has no compile-time dependency on any adapter package.
type Factory func(deps Deps) (Driver, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a driver factory available under the given name.
// Registering the same name twice panics; that is a programming error.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, dup := factories[name]; dup {
		panic("driver: Register called twice for " + name)
	}
	factories[name] = factory
}

func lookupFactory(name string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[name]
	return f, ok
}
