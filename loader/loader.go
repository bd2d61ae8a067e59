package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/errors"
)

const (
	// LoaderName is the loader's own identifier. A discovery candidate with
	// this name is always skipped so the extension layer cannot load
	// itself as a provider.
	LoaderName = "agentkit"

	// entryPointFile marks a subdirectory as a package-style provider unit.
	entryPointFile = "provider.yaml"

	// moduleExtension marks a file as a single-file provider unit.
	moduleExtension = ".yaml"
)

// Loader resolves provider identifiers and pulls provider items into the
// registry.
type Loader struct {
	namespace *Namespace
	registry  *check.Registry
	logger    *check.Logger
	exclude   map[string]struct{}
}

// New creates a loader bound to a namespace and registry. The exclusion
// list is seeded with LoaderName; extra identifiers extend it.
func New(namespace *Namespace, registry *check.Registry, logger *check.Logger, exclude ...string) *Loader {
	if logger == nil {
		logger = check.NewLogger(nil)
	}
	excluded := map[string]struct{}{LoaderName: {}}
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}
	return &Loader{
		namespace: namespace,
		registry:  registry,
		logger:    logger,
		exclude:   excluded,
	}
}

// LoadProvider initializes a provider and registers its items. The optional
// init hook runs first; absence of either hook is not an error. Hook errors
// are not caught here: they propagate to the caller unmodified, aborting
// this provider's registration without rolling back items already
// registered.
func (l *Loader) LoadProvider(p check.Provider) error {
	if p == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "LoadProvider", "provider validation")
	}

	l.logger.Debug(fmt.Sprintf("registering provider: %s", p.Name()))
	l.registry.AddModule(p.Name())

	if init, ok := p.(check.Initializer); ok {
		l.logger.Debug(fmt.Sprintf("calling %s init hook", p.Name()))
		if err := init.Init(); err != nil {
			return err
		}
	}

	return l.loadItems(p)
}

// LoadByName resolves an identifier in the namespace and loads the
// provider.
func (l *Loader) LoadByName(name string) error {
	p, ok := l.namespace.Lookup(name)
	if !ok {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrUnknownProvider, name),
			"Loader", "LoadByName", "namespace lookup")
	}
	return l.LoadProvider(p)
}

// loadItems collects a provider's items through whichever item capability
// it implements. A provider implementing neither declares zero items.
func (l *Loader) loadItems(p check.Provider) error {
	if lister, ok := p.(check.ItemLister); ok {
		l.logger.Debug(fmt.Sprintf("calling %s item list hook", p.Name()))
		items, err := lister.Items()
		if err != nil {
			return err
		}
		for _, item := range items {
			if item != nil {
				l.registry.RegisterItem(item)
			}
		}
		return nil
	}

	if source, ok := p.(check.ItemSource); ok {
		l.logger.Debug(fmt.Sprintf("calling %s item hook", p.Name()))
		item, err := source.Item()
		if err != nil {
			return err
		}
		if item != nil {
			l.registry.RegisterItem(item)
		}
		return nil
	}

	l.logger.Debug(fmt.Sprintf("provider %s declares no items", p.Name()))
	return nil
}

// candidate is one provider unit found under the search path.
type candidate struct {
	name string // identifier derived from the directory or file name
	path string // manifest path
}

// DiscoverAndLoad scans searchPath for provider units and loads each one,
// returning the names of successfully loaded providers. Candidates on the
// exclusion list are skipped. A failing provider aborts the whole pass.
func (l *Loader) DiscoverAndLoad(searchPath string) ([]string, error) {
	candidates, err := l.discover(searchPath)
	if err != nil {
		return nil, err
	}

	var loaded []string
	for _, c := range candidates {
		if l.excluded(c.name) {
			l.logger.Debug(fmt.Sprintf("skipping excluded provider unit %s", c.name))
			continue
		}

		manifest, err := parseManifest(c.path)
		if err != nil {
			return loaded, err
		}
		if !manifest.enabled() {
			l.logger.Debug(fmt.Sprintf("provider unit %s is disabled", c.name))
			continue
		}
		if l.excluded(manifest.Name) {
			l.logger.Debug(fmt.Sprintf("skipping excluded provider %s", manifest.Name))
			continue
		}

		if err := l.LoadByName(manifest.Name); err != nil {
			return loaded, err
		}
		loaded = append(loaded, manifest.Name)
	}

	if len(loaded) > 0 {
		l.logger.Info(fmt.Sprintf("loaded providers: %s", strings.Join(loaded, ", ")))
	}
	return loaded, nil
}

// discover lists candidate provider units: package directories first, then
// single-file modules, each in directory order.
func (l *Loader) discover(searchPath string) ([]candidate, error) {
	entries, err := os.ReadDir(searchPath)
	if err != nil {
		return nil, errors.Wrap(err, "Loader", "discover", "search path scan")
	}

	var packages, modules []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			manifest := filepath.Join(searchPath, entry.Name(), entryPointFile)
			if info, err := os.Stat(manifest); err == nil && info.Mode().IsRegular() {
				packages = append(packages, candidate{name: entry.Name(), path: manifest})
			}
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, moduleExtension) {
			continue
		}
		modules = append(modules, candidate{
			name: strings.TrimSuffix(name, moduleExtension),
			path: filepath.Join(searchPath, name),
		})
	}

	return append(packages, modules...), nil
}

// excluded reports whether an identifier is on the exclusion list.
func (l *Loader) excluded(name string) bool {
	_, ok := l.exclude[name]
	return ok
}
