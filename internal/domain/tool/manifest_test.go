package tool

import (
	"strings"
	"testing"
)

const sampleManifest = `
tools:
  - name: double
    description: Doubles an integer
    batch: true
    params:
      - name: n
        type: integer
  - name: greet
    params:
      - name: who
        type: string
        default: world
    input_schema: '{"type":"object"}'
`

func TestLoadManifest_ParsesDescriptors(t *testing.T) {
	t.Parallel()

	descs, err := LoadManifest(strings.NewReader(sampleManifest))
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descs))
	}

	double := descs[0]
	if double.Name != "double" || !double.BatchCapable {
		t.Fatalf("unexpected first descriptor: %+v", double)
	}
	if len(double.Params) != 1 || double.Params[0].Type != TypeInteger {
		t.Fatalf("unexpected params for double: %+v", double.Params)
	}

	greet := descs[1]
	if greet.BatchCapable {
		t.Fatal("greet should not be batch capable")
	}
	if greet.Params[0].Default == nil || *greet.Params[0].Default != "world" {
		t.Fatalf("expected default 'world', got %v", greet.Params[0].Default)
	}
	if len(greet.InputSchema) == 0 {
		t.Fatal("expected input schema to be carried over")
	}
}

func TestLoadManifest_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := LoadManifest(strings.NewReader("tools:\n  - name: x\n    color: red\n"))
	if err == nil {
		t.Fatal("expected error for unknown manifest field")
	}
}

func TestLoadManifest_RejectsInvalidDescriptor(t *testing.T) {
	t.Parallel()

	_, err := LoadManifest(strings.NewReader("tools:\n  - name: bad\n    params:\n      - name: x\n        type: decimal\n"))
	if err == nil {
		t.Fatal("expected error for unknown parameter type")
	}
}

func TestLoadManifestFile_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadManifestFile("testdata/does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing manifest file")
	}
}
