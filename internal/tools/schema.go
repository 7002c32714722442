package tools

import (
	"fmt"
	"slices"
)

// ParamType is the wire type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// Param declares one field of a tool's parameter schema.
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
	Default     any
	Enum        []string // allowed values, string params only
}

// validateSpec checks a tool spec at registration time so that schema
// mistakes fail at boot, not on first invocation.
func validateSpec(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if spec.Description == "" {
		return fmt.Errorf("tool %s: description is required", spec.Name)
	}
	if spec.Handler == nil {
		return fmt.Errorf("tool %s: handler is required", spec.Name)
	}

	seen := make(map[string]bool, len(spec.Params))
	for _, p := range spec.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %s: parameter with empty name", spec.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %s: duplicate parameter %s", spec.Name, p.Name)
		}
		seen[p.Name] = true

		switch p.Type {
		case TypeString, TypeNumber, TypeBoolean:
		default:
			return fmt.Errorf("tool %s: parameter %s has unknown type %q", spec.Name, p.Name, p.Type)
		}

		if len(p.Enum) > 0 && p.Type != TypeString {
			return fmt.Errorf("tool %s: parameter %s: enum values require type string", spec.Name, p.Name)
		}
		if p.Required && p.Default != nil {
			return fmt.Errorf("tool %s: parameter %s: required parameters cannot have defaults", spec.Name, p.Name)
		}
		if p.Default != nil {
			if _, ok := coerce(p.Default, p.Type); !ok {
				return fmt.Errorf("tool %s: parameter %s: default does not match type %s", spec.Name, p.Name, p.Type)
			}
		}
	}
	return nil
}

// validateArgs checks raw arguments against the schema. It returns the
// validated argument map with defaults applied, or a *ValidationError
// enumerating every offending field. Unknown fields are dropped rather than
// rejected; reasoning backends routinely add stray keys.
func validateArgs(spec Spec, raw map[string]any) (map[string]any, *ValidationError) {
	args := make(map[string]any, len(spec.Params))
	var fields []string

	for _, p := range spec.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				fields = append(fields, fmt.Sprintf("%s is required", p.Name))
				continue
			}
			if p.Default != nil {
				coerced, _ := coerce(p.Default, p.Type)
				args[p.Name] = coerced
			}
			continue
		}

		coerced, ok := coerce(v, p.Type)
		if !ok {
			fields = append(fields, fmt.Sprintf("%s must be a %s", p.Name, p.Type))
			continue
		}
		if len(p.Enum) > 0 {
			s := coerced.(string)
			if !slices.Contains(p.Enum, s) {
				fields = append(fields, fmt.Sprintf("%s must be one of %v", p.Name, p.Enum))
				continue
			}
		}
		args[p.Name] = coerced
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Tool: spec.Name, Fields: fields}
	}
	return args, nil
}

// coerce converts a raw JSON-decoded value to the parameter type. Numbers
// arrive as float64 from encoding/json but may be native ints from
// in-process callers.
func coerce(v any, t ParamType) (any, bool) {
	switch t {
	case TypeString:
		s, ok := v.(string)
		return s, ok
	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		}
		return nil, false
	case TypeBoolean:
		b, ok := v.(bool)
		return b, ok
	}
	return nil, false
}
