package footystats

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the target type a field is coerced to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList // kept as-is, never flattened
	KindAny  // passthrough
)

// FieldSpec describes one field of an endpoint's records. The API is
// loosely typed (numbers arrive as strings, ints as floats), so every
// record goes through coercion before anything downstream sees it.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Required bool
}

// CoerceRecord validates and coerces one raw API record against the
// endpoint's field table. Missing required fields are an error; missing
// optional fields are omitted; fields not in the table are dropped.
func CoerceRecord(raw map[string]any, specs []FieldSpec) (map[string]any, error) {
	out := make(map[string]any, len(specs))
	for _, spec := range specs {
		value, ok := raw[spec.Name]
		if !ok || value == nil {
			if spec.Required {
				return nil, fmt.Errorf("missing required field %q", spec.Name)
			}
			continue
		}
		coerced, err := coerceValue(value, spec.Kind)
		if err != nil {
			if spec.Required {
				return nil, fmt.Errorf("field %q: %w", spec.Name, err)
			}
			continue
		}
		out[spec.Name] = coerced
	}
	return out, nil
}

func coerceValue(value any, kind Kind) (any, error) {
	switch kind {
	case KindString:
		return coerceString(value)
	case KindInt:
		return coerceInt(value)
	case KindFloat:
		return coerceFloat(value)
	case KindBool:
		return coerceBool(value)
	case KindList:
		if list, ok := value.([]any); ok {
			return list, nil
		}
		return nil, fmt.Errorf("expected list, got %T", value)
	case KindAny:
		return value, nil
	}
	return nil, fmt.Errorf("unknown kind %d", kind)
}

func coerceString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return "", fmt.Errorf("cannot coerce %T to string", value)
}

func coerceInt(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" || s == "N/A" {
			return 0, fmt.Errorf("empty numeric string")
		}
		// The API sends "3" and "3.0" interchangeably.
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as int", v)
		}
		return int(f), nil
	}
	return 0, fmt.Errorf("cannot coerce %T to int", value)
}

func coerceFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" || s == "N/A" {
			return 0, fmt.Errorf("empty numeric string")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as float", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("cannot coerce %T to float", value)
}

func coerceBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0", "":
			return false, nil
		}
	}
	return false, fmt.Errorf("cannot coerce %T to bool", value)
}
