package tool

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML declaration format for tool descriptors. It only
// carries metadata; executors are bound in code when the registry is
// seeded. Example:
//
//	tools:
//	  - name: double
//	    description: Doubles an integer
//	    batch: true
//	    params:
//	      - name: n
//	        type: integer
//	  - name: greet
//	    params:
//	      - name: who
//	        type: string
//	        default: world
type Manifest struct {
	Tools []ManifestTool `yaml:"tools"`
}

// ManifestTool is one tool declaration inside a Manifest.
type ManifestTool struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Batch       bool            `yaml:"batch"`
	Params      []ManifestParam `yaml:"params"`
	// InputSchema holds a JSON Schema as inline JSON text, applied to
	// the coerced argument map.
	InputSchema string `yaml:"input_schema"`
}

// ManifestParam is one parameter declaration.
type ManifestParam struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Default *string `yaml:"default"`
}

// LoadManifest decodes a YAML manifest and converts every declaration
// into a validated Descriptor. The first invalid declaration aborts the
// load so a broken manifest never half-populates a registry.
func LoadManifest(r io.Reader) ([]Descriptor, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	out := make([]Descriptor, 0, len(m.Tools))
	for _, mt := range m.Tools {
		d, err := mt.descriptor()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// LoadManifestFile reads and decodes the manifest at path.
func LoadManifestFile(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %q: %w", path, err)
	}
	defer f.Close()
	return LoadManifest(f)
}

func (mt ManifestTool) descriptor() (Descriptor, error) {
	d := Descriptor{
		Name:         mt.Name,
		Description:  mt.Description,
		BatchCapable: mt.Batch,
	}
	for _, mp := range mt.Params {
		d.Params = append(d.Params, Param{
			Name:    mp.Name,
			Type:    ParamType(mp.Type),
			Default: mp.Default,
		})
	}
	if mt.InputSchema != "" {
		d.InputSchema = json.RawMessage(mt.InputSchema)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("manifest: %w", err)
	}
	return d, nil
}
