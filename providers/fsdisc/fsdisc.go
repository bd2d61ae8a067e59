// Package fsdisc provides filesystem discovery and capacity items.
package fsdisc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/errors"
	"github.com/c360/agentkit/lld"
)

// ProviderName is the identifier this provider registers under.
const ProviderName = "fsdisc"

// defaultMountsPath is where the kernel lists mounted filesystems on Linux.
const defaultMountsPath = "/proc/mounts"

// pseudoTypes are kernel-internal filesystems excluded from discovery.
// Monitoring their capacity is meaningless and pollutes the record set.
var pseudoTypes = map[string]struct{}{
	"proc": {}, "sysfs": {}, "devpts": {}, "cgroup": {}, "cgroup2": {},
	"overlay": {}, "tmpfs": {}, "devtmpfs": {}, "securityfs": {},
	"debugfs": {}, "tracefs": {}, "pstore": {}, "bpf": {}, "autofs": {},
	"mqueue": {}, "hugetlbfs": {}, "fusectl": {}, "configfs": {},
}

// mount is one line of the kernel mount table.
type mount struct {
	target string
	fstype string
}

// Provider exposes vfs.fs.discovery and vfs.fs.size.
type Provider struct {
	mountsPath string
}

// New creates the filesystem provider.
func New() *Provider {
	return &Provider{mountsPath: defaultMountsPath}
}

// Name implements check.Provider.
func (p *Provider) Name() string { return ProviderName }

// Items implements check.ItemLister.
func (p *Provider) Items() ([]*check.Item, error) {
	discovery, err := check.NewItem(check.ItemConfig{
		Key:     "vfs.fs.discovery",
		Handler: p.discovery,
	})
	if err != nil {
		return nil, err
	}

	size, err := check.NewItem(check.ItemConfig{
		Key:       "vfs.fs.size",
		Handler:   p.size,
		TestParam: []string{"/", "total"},
	})
	if err != nil {
		return nil, err
	}

	return []*check.Item{discovery, size}, nil
}

// discovery reports mounted filesystems as low-level discovery records with
// {#FSNAME} and {#FSTYPE} macros.
func (p *Provider) discovery(_ *check.Request) (any, error) {
	f, err := os.Open(p.mountsPath)
	if err != nil {
		return nil, errors.Wrap(err, "fsdisc", "discovery", "mount table read")
	}
	defer f.Close()

	mounts, err := parseMounts(f)
	if err != nil {
		return nil, errors.Wrap(err, "fsdisc", "discovery", "mount table parse")
	}

	records := make([]lld.Record, 0, len(mounts))
	for _, m := range mounts {
		records = append(records, lld.Record{
			"fsname": m.target,
			"fstype": m.fstype,
		})
	}
	return lld.Discovery(records)
}

// size reports filesystem capacity. The first parameter is the mount point;
// the second selects the figure: total (default), free, used, pfree or
// pused.
func (p *Provider) size(req *check.Request) (any, error) {
	target := req.Param(0)
	if target == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: missing filesystem parameter", errors.ErrInvalidItem),
			"fsdisc", "size", "parameter validation")
	}
	mode := req.Param(1)
	if mode == "" {
		mode = "total"
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(target, &stat); err != nil {
		return nil, errors.Wrap(err, "fsdisc", "size",
			fmt.Sprintf("statfs %s", target))
	}

	bsize := uint64(stat.Bsize)
	total := stat.Blocks * bsize
	free := stat.Bavail * bsize
	used := (stat.Blocks - stat.Bfree) * bsize

	switch mode {
	case "total":
		return total, nil
	case "free":
		return free, nil
	case "used":
		return used, nil
	case "pfree":
		if total == 0 {
			return float64(0), nil
		}
		return float64(free) / float64(total) * 100, nil
	case "pused":
		if total == 0 {
			return float64(0), nil
		}
		return float64(used) / float64(total) * 100, nil
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("%w: unsupported mode %q", errors.ErrInvalidItem, mode),
		"fsdisc", "size", "mode validation")
}

// parseMounts reads the kernel mount table format: one mount per line,
// whitespace-separated fields, target second and type third. Pseudo
// filesystems are dropped.
func parseMounts(r io.Reader) ([]mount, error) {
	var mounts []mount
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		if _, pseudo := pseudoTypes[fields[2]]; pseudo {
			continue
		}
		mounts = append(mounts, mount{target: fields[1], fstype: fields[2]})
	}
	return mounts, scanner.Err()
}
