// Package check defines the core contracts of the agent extension layer:
// the Request and Item data model exchanged with check providers, the
// provider capability interfaces, the leveled logging facade providers rely
// on for diagnostics, and the item registry that routes incoming check
// requests from the host agent to the registered handler.
//
// The registry is an explicitly constructed, owned object. Discovery and
// registration happen once, sequentially, during process startup; after the
// registry reaches the ready state the host dispatches requests through
// Route. Handlers own their execution time; the router defines the
// cooperative timeout contract but never enforces it.
package check
