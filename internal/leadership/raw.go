package leadership

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Shape identifies which upstream layout a raw assessment arrived in.
type Shape string

const (
	// ShapeCalculated carries a breakdown object with per-category scores.
	ShapeCalculated Shape = "calculated"
	// ShapeStored carries a factors object with the narrative fields.
	ShapeStored Shape = "stored"
	// ShapeFlat has neither; only flat score fields are read.
	ShapeFlat Shape = "flat"
)

// Raw is a decoded assessment payload tagged with its shape. Breakdown is set
// only for ShapeCalculated and Factors only for ShapeStored.
type Raw struct {
	Shape     Shape
	Fields    map[string]any
	Breakdown map[string]any
	Factors   map[string]any
}

// Decode classifies v, which may be a map, a JSON document ([]byte,
// json.RawMessage or string) or any other value. It returns false for nil and
// JSON null. Non-object values decode as an empty flat record.
func Decode(v any) (Raw, bool) {
	fields, ok := asObject(v)
	if !ok {
		return Raw{}, false
	}
	if fields == nil {
		return Raw{Shape: ShapeFlat, Fields: map[string]any{}}, true
	}
	if breakdown, ok := objectLike(fields["breakdown"]); ok {
		return Raw{Shape: ShapeCalculated, Fields: fields, Breakdown: breakdown}, true
	}
	if factors, ok := objectLike(fields["factors"]); ok {
		return Raw{Shape: ShapeStored, Fields: fields, Factors: factors}, true
	}
	return Raw{Shape: ShapeFlat, Fields: fields}, true
}

// objectLike accepts any non-null JSON object or array. Arrays carry no
// named entries, so they yield an empty map.
func objectLike(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case []any:
		return map[string]any{}, true
	default:
		return nil, false
	}
}

// asObject returns (nil, false) for null input and (nil, true) for non-object input.
func asObject(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return val, true
	case json.RawMessage:
		return decodeDocument(val)
	case []byte:
		return decodeDocument(val)
	case string:
		return decodeDocument([]byte(val))
	default:
		return nil, true
	}
}

func decodeDocument(data []byte) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, true
	}
	if parsed == nil {
		return nil, false
	}
	obj, _ := parsed.(map[string]any)
	return obj, true
}

// number reads a finite number from a JSON number, Go numeric or numeric string.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberOr(v any, fallback float64) float64 {
	if f, ok := number(v); ok {
		return f
	}
	return fallback
}

func text(v any) string {
	s, _ := v.(string)
	return s
}

// texts keeps the string items of a list, in order.
func texts(v any) []string {
	out := []string{}
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999Z07:00",
	"2006-01-02 15:04:05",
}

func timestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil && !parsed.IsZero() {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
