// Package loader discovers check providers under a configured search path
// and pulls their items into the registry.
//
// A provider unit is either a package (a subdirectory containing a
// provider.yaml entry point) or a single-file module (a *.yaml manifest
// directly under the search path). Each manifest names a provider
// identifier that is resolved against the module namespace, an explicitly
// owned map of registered provider implementations.
//
// Discovery is all-or-nothing: a provider whose hooks fail aborts the whole
// pass with no isolation between providers and no rollback of items already
// registered.
package loader
