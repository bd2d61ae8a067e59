// Package agentkit provides an extension layer for monitoring agents:
// pluggable check providers, a key-indexed dispatch registry, low-level
// discovery encoding, and a leveled logging facade bridged to the host
// agent process.
//
// # Architecture
//
// The extension layer sits between a host monitoring agent and a set of
// check providers:
//
//	┌─────────────────────────────────────┐
//	│          Host Agent                 │  item requests,
//	│  (scheduler, item configuration)    │  log sink
//	└─────────────────────────────────────┘
//	           ↓ requests via
//	┌─────────────────────────────────────┐
//	│         Check Registry              │  item list, route
//	│   (key → handler dispatch table)    │  table, lifecycle
//	└─────────────────────────────────────┘
//	           ↓ populated by
//	┌─────────────────────────────────────┐
//	│      Loader + Providers             │  manifest discovery,
//	│  (sysinfo, fsdisc, netdisc, ...)    │  capability hooks
//	└─────────────────────────────────────┘
//
// # Packages
//
// Core:
//   - check: requests, items, the dispatch registry, provider capability
//     interfaces and the logging facade
//   - lld: low-level discovery macro normalization and wire encoding
//   - loader: manifest-driven provider discovery over a search path
//   - providers: built-in providers (system identity, filesystems,
//     network interfaces)
//
// Infrastructure:
//   - config: YAML configuration loading and validation
//   - errors: structured error handling with severity classification
//   - metric: Prometheus metrics
//   - natsclient: NATS connection management and the remote log sink
//   - gateway/http: HTTP surface (health, item list, run, metrics, log
//     streaming)
//   - service: process assembly and lifecycle
//   - pkg/retry: retry policies
//
// # Usage
//
// Embedding the registry directly:
//
//	registry := check.NewRegistry()
//	namespace := loader.NewNamespace()
//	providers.Register(namespace)
//
//	ld := loader.New(namespace, registry, nil)
//	registry.Init(func() error {
//	    _, err := ld.DiscoverAndLoad("/etc/agentkit/providers")
//	    return err
//	})
//
//	value, err := registry.Route(check.NewRequest("vfs.fs.size", "/", "free"))
//
// Custom providers implement check.Provider plus whichever optional
// capability hooks they need (Initializer, ItemLister or ItemSource),
// register in the namespace, and are picked up by manifest discovery.
//
// # Binary
//
// The agentkit daemon assembles the full stack and serves the HTTP
// gateway:
//
//	agentkit -config /etc/agentkit/config.yaml
package agentkit
