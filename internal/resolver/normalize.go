package resolver

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// NormalizeValue canonicalizes a constraint right operand for equality
// comparison: nil becomes the empty string, sequences become a sorted,
// lower-cased, trimmed element list (so ["B","a"] and ["a","b"] compare
// equal), and scalars are lower-cased and trimmed.
//
// This is the sole equality oracle of the resolver; constraints are never
// compared by raw value.
func NormalizeValue(value any) string {
	if value == nil {
		return ""
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, normalizeScalar(v.Index(i).Interface()))
		}
		sort.Strings(parts)
		return "[" + strings.Join(parts, ", ") + "]"
	}

	return normalizeScalar(value)
}

func normalizeScalar(value any) string {
	return strings.ToLower(strings.TrimSpace(stringify(value)))
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
