// Package sysinfo provides basic host identity and liveness items.
package sysinfo

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/errors"
)

// ProviderName is the identifier this provider registers under.
const ProviderName = "sysinfo"

// defaultUptimePath is where the kernel exposes uptime on Linux.
const defaultUptimePath = "/proc/uptime"

// Provider exposes agent.ping, agent.hostname, system.cpu.num and
// system.uptime. The hostname is resolved once in the init hook and served
// from cache afterwards.
type Provider struct {
	uptimePath string
	hostname   string
}

// New creates the sysinfo provider.
func New() *Provider {
	return &Provider{uptimePath: defaultUptimePath}
}

// Name implements check.Provider.
func (p *Provider) Name() string { return ProviderName }

// Init resolves the hostname once. A resolution failure aborts loading.
func (p *Provider) Init() error {
	hostname, err := os.Hostname()
	if err != nil {
		return errors.Wrap(err, "sysinfo", "Init", "hostname resolution")
	}
	p.hostname = hostname
	return nil
}

// Items implements check.ItemLister.
func (p *Provider) Items() ([]*check.Item, error) {
	specs := []check.ItemConfig{
		{Key: "agent.ping", Handler: p.ping},
		{Key: "agent.hostname", Handler: p.hostnameItem},
		{Key: "system.cpu.num", Handler: p.cpuNum},
		{Key: "system.uptime", Handler: p.uptime},
	}

	items := make([]*check.Item, 0, len(specs))
	for _, spec := range specs {
		item, err := check.NewItem(spec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ping answers 1 whenever the extension layer is alive enough to route.
func (p *Provider) ping(_ *check.Request) (any, error) {
	return 1, nil
}

func (p *Provider) hostnameItem(_ *check.Request) (any, error) {
	return p.hostname, nil
}

func (p *Provider) cpuNum(_ *check.Request) (any, error) {
	return runtime.NumCPU(), nil
}

// uptime reads the kernel uptime and reports whole seconds.
func (p *Provider) uptime(_ *check.Request) (any, error) {
	data, err := os.ReadFile(p.uptimePath)
	if err != nil {
		return nil, errors.Wrap(err, "sysinfo", "uptime", "uptime read")
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("malformed uptime data in %s", p.uptimePath),
			"sysinfo", "uptime", "uptime parse")
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, errors.WrapInvalid(err, "sysinfo", "uptime", "uptime parse")
	}
	return int64(seconds), nil
}
