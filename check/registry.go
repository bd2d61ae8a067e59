package check

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/c360/agentkit/errors"
	"github.com/c360/agentkit/metric"
)

// BuiltinVersionKey is the key of the built-in item reporting the runtime
// version of the extension layer. It is always present once the registry is
// ready.
const BuiltinVersionKey = "runtime.version"

// runtimeVersion identifies the Go runtime hosting the extension layer.
var runtimeVersion = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)

// Registry is the dispatch table mapping item keys to handlers. It owns the
// ordered item list advertised to the host, the key-to-handler route table,
// and the list of loaded provider names. The registry is created once per
// process and outlives individual providers; providers surrender handler
// references into it upon registration.
//
// Registration appends duplicates rather than deduplicating; a later
// registration for the same key silently overwrites the earlier route while
// both items remain advertised. Only the most recently registered handler is
// reachable through Route.
type Registry struct {
	mu      sync.RWMutex
	state   State
	items   []*Item
	routes  map[string]Handler
	modules []string

	logger      *Logger
	metrics     *metric.Metrics
	itemTimeout time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logging facade used for registration and routing
// diagnostics.
func WithLogger(logger *Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithMetrics attaches core metrics updated on registration and routing.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(r *Registry) { r.metrics = metrics }
}

// WithItemTimeout sets the per-item time budget providers are expected to
// honor cooperatively. The router itself never enforces it.
func WithItemTimeout(timeout time.Duration) Option {
	return func(r *Registry) { r.itemTimeout = timeout }
}

// NewRegistry creates an empty, uninitialized registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		routes: make(map[string]Handler),
		logger: NewLogger(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init transitions the registry through its initialization phase: it
// registers the built-in runtime version item, invokes discover to load
// provider items, and marks the registry ready. Init runs at most once. A
// discovery failure aborts the whole pass and leaves the registry unready;
// items registered before the failure are not rolled back.
func (r *Registry) Init(discover func() error) error {
	r.mu.Lock()
	if r.state != StateUninitialized {
		r.mu.Unlock()
		return errors.WrapInvalid(errors.ErrAlreadyStarted, "Registry", "Init", "state check")
	}
	r.state = StateInitializing
	r.mu.Unlock()
	r.observeState(StateInitializing)

	builtin, err := NewItem(ItemConfig{Key: BuiltinVersionKey, Handler: versionHandler})
	if err != nil {
		return errors.Wrap(err, "Registry", "Init", "builtin item construction")
	}
	r.RegisterItem(builtin)

	if discover != nil {
		if err := discover(); err != nil {
			return errors.Wrap(err, "Registry", "Init", "provider discovery")
		}
	}

	r.mu.Lock()
	r.state = StateReady
	r.mu.Unlock()
	r.observeState(StateReady)
	return nil
}

// RegisterItem appends item to the advertised item list and installs its
// handler as the route for the item key, overwriting any prior route for
// that key. It never fails.
func (r *Registry) RegisterItem(item *Item) *Item {
	r.logger.Debug(fmt.Sprintf("registering item %s", item.Key()))

	r.mu.Lock()
	r.items = append(r.items, item)
	r.routes[item.Key()] = item.Handler()
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ItemsRegistered.Inc()
	}
	return item
}

// Route resolves the request key against the route table and invokes the
// registered handler. The handler's result and error are returned unchanged.
// Routing before the registry is ready fails with a not-ready error; an
// unregistered key fails with an unknown-item error carrying the key.
func (r *Registry) Route(req *Request) (any, error) {
	r.mu.RLock()
	state := r.state
	handler, ok := r.routes[req.Key()]
	r.mu.RUnlock()

	if state != StateReady {
		return nil, errors.WrapInvalid(errors.ErrNotReady, "Registry", "Route",
			fmt.Sprintf("routing %s in state %s", req.Key(), state))
	}
	if !ok {
		r.observeRoute(req.Key(), "unknown", 0)
		return nil, errors.WrapInvalid(errors.ErrUnknownItem, "Registry", "Route",
			fmt.Sprintf("route lookup for %s", req.Key()))
	}

	r.logger.Debug(fmt.Sprintf("routing request: %s", req))

	start := time.Now()
	value, err := handler(req)
	elapsed := time.Since(start)

	if err != nil {
		r.observeRoute(req.Key(), "error", elapsed)
		return value, err
	}
	r.observeRoute(req.Key(), "success", elapsed)
	return value, nil
}

// ItemList returns the registered items in registration order, duplicates
// included. The host uses this to advertise supported checks.
func (r *Registry) ItemList() []*Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Item, len(r.items))
	copy(out, r.items)
	return out
}

// AddModule records a loaded provider handle. The list is used to prevent a
// provider from re-discovering itself and for diagnostics.
func (r *Registry) AddModule(name string) {
	r.mu.Lock()
	r.modules = append(r.modules, name)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ProvidersLoaded.Inc()
	}
}

// Modules returns the loaded provider names in load order.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.modules))
	copy(out, r.modules)
	return out
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Logger returns the logging facade shared with providers.
func (r *Registry) Logger() *Logger {
	return r.logger
}

// ItemTimeout returns the cooperative per-item time budget. Zero means no
// budget was configured.
func (r *Registry) ItemTimeout() time.Duration {
	return r.itemTimeout
}

func (r *Registry) observeState(state State) {
	if r.metrics != nil {
		r.metrics.RegistryState.Set(float64(state))
	}
}

func (r *Registry) observeRoute(key, status string, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.RoutedTotal.WithLabelValues(key, status).Inc()
	if status != "unknown" {
		r.metrics.RouteDuration.WithLabelValues(key).Observe(elapsed.Seconds())
	}
}

// versionHandler implements the built-in runtime.version item.
func versionHandler(_ *Request) (any, error) {
	return runtimeVersion, nil
}
