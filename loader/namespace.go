package loader

import (
	"fmt"
	"sort"
	"sync"

	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/errors"
)

// Namespace maps provider identifiers to provider implementations. It plays
// the role of a process-wide module namespace for discovery, modeled as an
// explicitly owned object passed by handle rather than a package-level
// global.
type Namespace struct {
	mu        sync.RWMutex
	providers map[string]check.Provider
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{providers: make(map[string]check.Provider)}
}

// Register adds a provider under its own name. Registering a nil provider,
// an empty name, or a duplicate name fails.
func (n *Namespace) Register(p check.Provider) error {
	if p == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Namespace", "Register", "provider validation")
	}
	name := p.Name()
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Namespace", "Register", "provider name validation")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.providers[name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("provider %q is already registered", name),
			"Namespace", "Register", "duplicate provider check")
	}
	n.providers[name] = p
	return nil
}

// Lookup resolves a provider identifier.
func (n *Namespace) Lookup(name string) (check.Provider, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p, ok := n.providers[name]
	return p, ok
}

// Names returns the registered identifiers in sorted order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.providers))
	for name := range n.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
