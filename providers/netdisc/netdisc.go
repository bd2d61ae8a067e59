// Package netdisc provides network interface discovery and status items.
package netdisc

import (
	"fmt"
	"net"

	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/errors"
	"github.com/c360/agentkit/lld"
)

// ProviderName is the identifier this provider registers under.
const ProviderName = "netdisc"

// Provider exposes net.if.discovery and net.if.status. Interface
// enumeration is injectable for tests.
type Provider struct {
	interfaces func() ([]net.Interface, error)
}

// New creates the network interface provider.
func New() *Provider {
	return &Provider{interfaces: net.Interfaces}
}

// Name implements check.Provider.
func (p *Provider) Name() string { return ProviderName }

// Items implements check.ItemLister.
func (p *Provider) Items() ([]*check.Item, error) {
	discovery, err := check.NewItem(check.ItemConfig{
		Key:     "net.if.discovery",
		Handler: p.discovery,
	})
	if err != nil {
		return nil, err
	}

	status, err := check.NewItem(check.ItemConfig{
		Key:       "net.if.status",
		Handler:   p.status,
		TestParam: "lo",
	})
	if err != nil {
		return nil, err
	}

	return []*check.Item{discovery, status}, nil
}

// discovery reports network interfaces as low-level discovery records with
// {#IFNAME} macros.
func (p *Provider) discovery(_ *check.Request) (any, error) {
	ifaces, err := p.interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "netdisc", "discovery", "interface enumeration")
	}

	records := make([]lld.Record, 0, len(ifaces))
	for _, iface := range ifaces {
		records = append(records, lld.Record{"ifname": iface.Name})
	}
	return lld.Discovery(records)
}

// status reports "up" or "down" for the interface named by the first
// parameter.
func (p *Provider) status(req *check.Request) (any, error) {
	name := req.Param(0)
	if name == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: missing interface parameter", errors.ErrInvalidItem),
			"netdisc", "status", "parameter validation")
	}

	ifaces, err := p.interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "netdisc", "status", "interface enumeration")
	}
	for _, iface := range ifaces {
		if iface.Name != name {
			continue
		}
		if iface.Flags&net.FlagUp != 0 {
			return "up", nil
		}
		return "down", nil
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("no such interface: %s", name),
		"netdisc", "status", "interface lookup")
}
