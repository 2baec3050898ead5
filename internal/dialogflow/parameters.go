package dialogflow

import (
	"fmt"
	"strings"
)

// Parameters are the entity values extracted for a turn. Values are strings,
// numbers, objects or lists of those; an empty string or empty list means the
// parameter was not provided.
type Parameters map[string]any

// Duration is the value of a @sys.duration parameter.
type Duration struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Strings returns the non-empty string values of a scalar or list parameter.
func (p Parameters) Strings(name string) []string {
	var out []string
	switch v := p[name].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	case []string:
		for _, item := range v {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := scalarString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// String returns the first value of a parameter, or "".
func (p Parameters) String(name string) string {
	if vals := p.Strings(name); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Has reports whether the parameter carries at least one value.
func (p Parameters) Has(name string) bool {
	return len(p.Strings(name)) > 0
}

// Duration decodes a @sys.duration parameter. A list yields its first entry.
func (p Parameters) Duration(name string) (Duration, bool) {
	raw := p[name]
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return Duration{}, false
		}
		raw = list[0]
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return Duration{}, false
	}
	unit, _ := obj["unit"].(string)
	var amount float64
	switch a := obj["amount"].(type) {
	case float64:
		amount = a
	case int:
		amount = float64(a)
	default:
		return Duration{}, false
	}
	if unit == "" {
		return Duration{}, false
	}
	return Duration{Amount: amount, Unit: unit}, true
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64, int, bool:
		return fmt.Sprint(t)
	case map[string]any:
		// Location entities (@sys.location) arrive as objects.
		for _, key := range []string{"city", "country", "admin-area", "name"} {
			if s, ok := t[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
