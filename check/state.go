package check

// State represents the lifecycle state of the item registry.
type State int

const (
	// StateUninitialized indicates the provider loader has not run; no
	// routes exist yet.
	StateUninitialized State = iota
	// StateInitializing indicates provider discovery and registration are
	// in progress.
	StateInitializing
	// StateReady indicates the built-in item and all discovered provider
	// items are registered. Ready is terminal for the process lifetime.
	StateReady
)

// String returns a string representation of the registry state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
