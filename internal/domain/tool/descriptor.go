// Package tool holds the static tool metadata consumed by the invocation
// pipeline: parameter schemas, batch capability, and the registry that
// resolves a tool name to its descriptor and executor.
package tool

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParamType is the declared semantic type of a tool parameter. Raw input
// always arrives as text; the coercion stage converts it to the declared
// type before the executor runs.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeFloat   ParamType = "float"
	TypeBoolean ParamType = "boolean"
	TypeList    ParamType = "list"
	TypeMap     ParamType = "map"
)

// validParamTypes is the closed set accepted by Descriptor.Validate.
var validParamTypes = map[ParamType]struct{}{
	TypeString:  {},
	TypeInteger: {},
	TypeFloat:   {},
	TypeBoolean: {},
	TypeList:    {},
	TypeMap:     {},
}

// Param declares one tool parameter: its name, semantic type, and an
// optional raw textual default. The default goes through the same
// coercion rules as caller input.
type Param struct {
	Name    string
	Type    ParamType
	Default *string
}

// Descriptor is the immutable metadata for one registered tool. It is
// created once at startup and never mutated afterward; the registry and
// the pipeline composer read it, nothing writes it.
type Descriptor struct {
	Name        string
	Description string
	// Params is ordered; order is preserved when exporting the schema.
	Params []Param
	// BatchCapable marks tools that accept a sequence of argument maps
	// dispatched through the fan-out stage.
	BatchCapable bool
	// InputSchema optionally constrains the coerced argument map with a
	// JSON Schema, validated after type coercion succeeds. Empty means
	// no schema constraint.
	InputSchema json.RawMessage
}

// Validate checks structural soundness of the descriptor: non-empty
// unique name, known parameter types, unique parameter names, and a
// syntactically valid InputSchema when present.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("descriptor: name is required")
	}
	seen := make(map[string]struct{}, len(d.Params))
	for _, p := range d.Params {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("descriptor %q: parameter name is required", d.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("descriptor %q: duplicate parameter %q", d.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
		if _, ok := validParamTypes[p.Type]; !ok {
			return fmt.Errorf("descriptor %q: parameter %q has unknown type %q", d.Name, p.Name, p.Type)
		}
	}
	if len(d.InputSchema) > 0 && !json.Valid(d.InputSchema) {
		return fmt.Errorf("descriptor %q: input schema must be valid json", d.Name)
	}
	return nil
}

// Param returns the declared parameter with the given name, or
// (Param{}, false) when the descriptor does not declare it.
func (d Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
