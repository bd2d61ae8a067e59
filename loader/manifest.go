package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/c360/agentkit/errors"
)

// maxManifestSize bounds manifest file reads.
const maxManifestSize = 64 << 10 // 64KB

// Manifest describes one provider unit found under the search path.
type Manifest struct {
	// Name is the provider identifier resolved against the namespace.
	Name string `yaml:"name" json:"name"`
	// Description is free-form and used only for diagnostics.
	Description string `yaml:"description" json:"description,omitempty"`
	// Enabled defaults to true; a disabled unit is skipped silently.
	Enabled *bool `yaml:"enabled" json:"enabled,omitempty"`
}

// manifestSchema validates the manifest shape before it is trusted.
const manifestSchema = `{
	"type": "object",
	"required": ["name"],
	"additionalProperties": false,
	"properties": {
		"name": {
			"type": "string",
			"minLength": 1,
			"pattern": "^[a-z0-9][a-z0-9_.-]*$"
		},
		"description": {"type": "string"},
		"enabled": {"type": "boolean"}
	}
}`

var compiledManifestSchema = gojsonschema.NewStringLoader(manifestSchema)

// parseManifest reads and validates a provider manifest file.
func parseManifest(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "parseManifest", "manifest stat")
	}
	if info.Size() > maxManifestSize {
		return nil, errors.WrapInvalid(
			fmt.Errorf("manifest too large: %d bytes", info.Size()),
			"Loader", "parseManifest", "manifest size check")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "parseManifest", "manifest read")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "parseManifest", "manifest YAML parse")
	}

	// Validate the generic document against the schema before decoding it
	// into the typed struct.
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "parseManifest", "manifest conversion")
	}
	result, err := gojsonschema.Validate(compiledManifestSchema, gojsonschema.NewBytesLoader(rawJSON))
	if err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "parseManifest", "manifest schema validation")
	}
	if !result.Valid() {
		detail := ""
		for _, desc := range result.Errors() {
			detail += desc.String() + "; "
		}
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s: %s", errors.ErrInvalidManifest, path, detail),
			"Loader", "parseManifest", "manifest schema validation")
	}

	var manifest Manifest
	if err := json.Unmarshal(rawJSON, &manifest); err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "parseManifest", "manifest decode")
	}
	return &manifest, nil
}

// enabled reports whether the unit should be loaded.
func (m *Manifest) enabled() bool {
	return m.Enabled == nil || *m.Enabled
}
