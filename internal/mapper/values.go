package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"aim/internal/domain"
)

// truthyStrings are the string forms treated as true by bool conversion.
var truthyStrings = map[string]bool{"true": true, "yes": true, "1": true, "on": true}

// convertDataType converts a value to the target type. On failure the
// original value is returned along with a reason; conversion never errors.
func convertDataType(value any, target domain.DataType) (any, string) {
	switch target {
	case domain.DataTypeInt:
		// Float-then-truncate semantics so "30.7" converts to 30.
		f, ok := toFloat(value)
		if !ok {
			return value, fmt.Sprintf("cannot convert %v to int", value)
		}
		return int(f), ""
	case domain.DataTypeFloat:
		f, ok := toFloat(value)
		if !ok {
			return value, fmt.Sprintf("cannot convert %v to float", value)
		}
		return f, ""
	case domain.DataTypeString:
		return valueString(value), ""
	case domain.DataTypeBool:
		if s, ok := value.(string); ok {
			return truthyStrings[strings.ToLower(s)], ""
		}
		return truthy(value), ""
	default:
		return value, "unknown data type: " + string(target)
	}
}

// toFloat coerces scalar values to float64. Strings are parsed; booleans and
// nil are not numeric.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// truthy applies standard truthiness to non-string scalars: false for nil,
// false, zero numbers and empty strings.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		if f, ok := toFloat(value); ok {
			return f != 0
		}
		return true
	}
}

// valueString renders a value in the canonical form used for value-mapping
// lookups. Whole floats render without a trailing ".0" so a parsed "30" and
// the integer 30 share one key.
func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// looseEqual compares two scalars numerically when both sides are numeric,
// otherwise by canonical string form.
func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return valueString(a) == valueString(b)
}

// collectionContains tests membership of value within a condition operand,
// which may be a slice of any scalar type or a single scalar.
func collectionContains(collection, value any) bool {
	switch c := collection.(type) {
	case []any:
		for _, item := range c {
			if looseEqual(item, value) {
				return true
			}
		}
		return false
	case []string:
		for _, item := range c {
			if looseEqual(item, value) {
				return true
			}
		}
		return false
	case string:
		// A string operand is treated as substring membership.
		return strings.Contains(c, valueString(value))
	default:
		return looseEqual(collection, value)
	}
}
