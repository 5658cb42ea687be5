package bind

import (
	"math"
	"reflect"
)

// identical is the value-identity check used to deduplicate pushes in both
// sync directions. Unlike ==, it treats NaN as equal to NaN so a numeric
// field holding an unparsable value does not re-trigger updates every pass.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := floatValue(a); ok {
		fb, ok := floatValue(b)
		if !ok {
			return false
		}
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb && reflect.TypeOf(a) == reflect.TypeOf(b)
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if !ra.Comparable() {
		// Slices and maps held by a leaf are compared structurally, keeping
		// a quiescent composite value from rewriting the view on every pass.
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func floatValue(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	default:
		return 0, false
	}
}
