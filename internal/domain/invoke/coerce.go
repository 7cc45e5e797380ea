package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/relaykit/relay/internal/domain/tool"
)

// CoercionStage converts the raw textual argument map into the typed
// map the executor expects, consulting the descriptor's parameter
// declarations. Coercion failures short-circuit the chain before the
// executor ever runs; the tool body never sees malformed input.
// schema may be nil; when set, the coerced map is validated against it.
func CoercionStage(schema *jsonschema.Schema) Stage {
	return Stage{
		Name: "coerce",
		Wrap: func(next Handler) Handler {
			return func(ctx context.Context, c *Call) Envelope {
				coerced, fault := Coerce(c.Desc, c.Raw)
				if fault != nil {
					return Envelope{Fault: fault}
				}
				if schema != nil {
					if fault := validateCoerced(schema, coerced); fault != nil {
						return Envelope{Fault: fault}
					}
				}
				c.Coerced = coerced
				return next(ctx, c)
			}
		},
	}
}

// Coerce applies the descriptor's parameter declarations to raw:
// unknown keys are rejected, missing parameters fall back to declared
// defaults, and every present value is converted with a fixed, total
// rule set per semantic type.
func Coerce(d tool.Descriptor, raw Args) (map[string]any, *Fault) {
	for key := range raw {
		if _, ok := d.Param(key); !ok {
			return nil, &Fault{
				Kind:    KindUnknownArgument,
				Message: fmt.Sprintf("tool %q does not declare argument %q", d.Name, key),
			}
		}
	}

	out := make(map[string]any, len(d.Params))
	for _, p := range d.Params {
		text, present := raw[p.Name]
		if !present {
			if p.Default == nil {
				return nil, &Fault{
					Kind:    KindMissingArgument,
					Message: fmt.Sprintf("tool %q requires argument %q", d.Name, p.Name),
				}
			}
			text = *p.Default
		}
		v, err := coerceValue(p.Type, text)
		if err != nil {
			return nil, &Fault{
				Kind:    KindInvalidArgument,
				Message: fmt.Sprintf("argument %q: %v", p.Name, err),
			}
		}
		out[p.Name] = v
	}
	return out, nil
}

// coerceValue converts one textual value to its declared semantic type.
func coerceValue(t tool.ParamType, text string) (any, error) {
	switch t {
	case tool.TypeString:
		return text, nil
	case tool.TypeInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", text)
		}
		return n, nil
	case tool.TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", text)
		}
		return f, nil
	case tool.TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a boolean", text)
	case tool.TypeList:
		var v []any
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			return nil, fmt.Errorf("%q is not a json array", text)
		}
		return v, nil
	case tool.TypeMap:
		var v map[string]any
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			return nil, fmt.Errorf("%q is not a json object", text)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown parameter type %q", t)
}

// CompileInputSchema compiles a descriptor's optional JSON Schema once,
// at composition time, so per-call validation pays no compile cost.
func CompileInputSchema(raw json.RawMessage) (*jsonschema.Schema, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal input schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}
	return schema, nil
}

// validateCoerced checks the coerced map against the compiled schema.
// The map is round-tripped through JSON first so the validator sees
// plain decoded values rather than Go-typed ones (int64 etc).
func validateCoerced(schema *jsonschema.Schema, coerced map[string]any) *Fault {
	data, err := json.Marshal(coerced)
	if err != nil {
		return &Fault{Kind: KindInvalidArgument, Message: fmt.Sprintf("serialize arguments: %v", err)}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &Fault{Kind: KindInvalidArgument, Message: fmt.Sprintf("decode arguments: %v", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return &Fault{Kind: KindInvalidArgument, Message: err.Error()}
	}
	return nil
}
