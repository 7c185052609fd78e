package steps

import (
	"fmt"
	"time"

	"github.com/mj1618/scoopick/internal/model"
)

// Parameter extraction helpers for step maps

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values that YAML may parse as int/float
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func isInt(v interface{}) bool {
	switch n := v.(type) {
	case int, int64:
		return true
	case float64:
		return n == float64(int64(n))
	}
	return false
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

func msParam(params map[string]interface{}, key string, defaultVal time.Duration) time.Duration {
	if ms := intParam(params, key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultVal
}

func listParam(params map[string]interface{}, key string) []interface{} {
	l, _ := params[key].([]interface{})
	return l
}

func stringsParam(params map[string]interface{}, key string) []string {
	switch v := params[key].(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, fmt.Sprintf("%v", s))
		}
		return out
	}
	return nil
}

// colorParam accepts "r,g,b", "#rrggbb" or a three element list.
func colorParam(params map[string]interface{}, key string) (model.Color, error) {
	switch v := params[key].(type) {
	case string:
		return model.ParseColor(v)
	case []interface{}:
		if len(v) != 3 {
			return model.Color{}, fmt.Errorf("%s: expected three channels, got %d", key, len(v))
		}
		var c model.Color
		for i, ch := range v {
			n, ok := ch.(int)
			if !ok || n < 0 || n > 255 {
				return model.Color{}, fmt.Errorf("%s: channel %d out of range", key, i)
			}
			c[i] = uint8(n)
		}
		return c, nil
	case nil:
		return model.Color{}, fmt.Errorf("%s is required", key)
	default:
		return model.Color{}, fmt.Errorf("%s: unsupported value %v", key, v)
	}
}

// resolvePoint finds a point by name (string) or idx (integer).
func resolvePoint(points []model.Point, ref interface{}) (model.Point, error) {
	switch r := ref.(type) {
	case string:
		if p, ok := model.FindByName(points, r); ok {
			return p, nil
		}
		return model.Point{}, fmt.Errorf("no point named %q", r)
	case int:
		if r < 0 || r >= len(points) {
			return model.Point{}, fmt.Errorf("point idx %d out of range (have %d)", r, len(points))
		}
		return points[r], nil
	default:
		return model.Point{}, fmt.Errorf("point must be a name or idx, got %v", ref)
	}
}
