package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/exp/slices"
)

var errNotCoercible = errors.New("value cannot be converted")

// SchemaMismatchError is returned when a value cannot be converted to any type declared for its field
type SchemaMismatchError struct {
	Field string
	Value any
	Types []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("field %s: value %v (%T) does not match declared types %v", e.Field, e.Value, e.Value, e.Types)
}

// coerce converts v to the first of the given types it is compatible with
func coerce(v any, typeNames []string, nullable bool) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" && nullable && !slices.Contains(typeNames, TypeString) {
		return nil, nil
	}

	for _, t := range typeNames {
		if t == TypeNull {
			continue
		}
		if res, err := coerceTo(v, t); err == nil {
			return res, nil
		}
	}
	return nil, errNotCoercible
}

func coerceTo(v any, typeName string) (any, error) {
	switch typeName {
	case TypeString:
		return toString(v)
	case TypeInteger:
		return toInteger(v)
	case TypeNumber:
		return toNumber(v)
	case TypeBoolean:
		return toBoolean(v)
	case TypeObject:
		return toObject(v)
	case TypeArray:
		return toArray(v)
	case FormatDateTime, "date", "timestamp", "datetime":
		return toDateTime(v)
	default:
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
}

func toString(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case map[string]any, []any, []string:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return nil, errNotCoercible
}

func toInteger(v any) (any, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		return floatToInteger(t)
	case json.Number:
		return parseInteger(t.String())
	case string:
		return parseInteger(t)
	}
	return nil, errNotCoercible
}

func parseInteger(s string) (any, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	// accept integral floats such as 1.0 or 1e3
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errNotCoercible
	}
	return floatToInteger(f)
}

// floatToInteger converts an integral float within the int64 range
// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive
func floatToInteger(f float64) (any, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, errNotCoercible
	}
	return int64(f), nil
}

func toNumber(v any) (any, error) {
	switch t := v.(type) {
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, errNotCoercible
		}
		return json.Number(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case json.Number:
		return parseNumber(t.String())
	case string:
		return parseNumber(t)
	}
	return nil, errNotCoercible
}

// numbers are kept as json.Number so no precision is lost on output
func parseNumber(s string) (any, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errNotCoercible
	}
	if !json.Valid([]byte(s)) {
		return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return json.Number(s), nil
}

func toBoolean(v any) (any, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(t)))
		if err != nil {
			return nil, errNotCoercible
		}
		return b, nil
	case json.Number:
		switch t.String() {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
	}
	return nil, errNotCoercible
}

func toObject(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err != nil || m == nil {
			return nil, errNotCoercible
		}
		return m, nil
	}
	return nil, errNotCoercible
}

func toArray(v any) (any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case []string:
		res := make([]any, len(t))
		for i, s := range t {
			res[i] = s
		}
		return res, nil
	case string:
		var a []any
		if err := json.Unmarshal([]byte(t), &a); err != nil || a == nil {
			return nil, errNotCoercible
		}
		return a, nil
	}
	return nil, errNotCoercible
}

func toDateTime(v any) (any, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case json.Number:
		s = t.String()
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), nil
	default:
		return nil, errNotCoercible
	}
	if s == "" {
		return nil, nil
	}
	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil, errNotCoercible
	}
	return ts.UTC().Format(time.RFC3339Nano), nil
}
