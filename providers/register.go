// Package providers wires the built-in check providers into a module
// namespace. Built-ins cover host-level basics: system identity, filesystem
// discovery and capacity, and network interface discovery.
package providers

import (
	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/errors"
	"github.com/c360/agentkit/loader"
	"github.com/c360/agentkit/providers/fsdisc"
	"github.com/c360/agentkit/providers/netdisc"
	"github.com/c360/agentkit/providers/sysinfo"
)

// Register adds every built-in provider to the namespace. Registration is
// all-or-nothing: the first failure aborts and is returned wrapped with the
// provider that caused it.
func Register(ns *loader.Namespace) error {
	builtins := []check.Provider{
		sysinfo.New(),
		fsdisc.New(),
		netdisc.New(),
	}
	for _, p := range builtins {
		if err := ns.Register(p); err != nil {
			return errors.Wrap(err, "providers", "Register", "builtin registration")
		}
	}
	return nil
}
