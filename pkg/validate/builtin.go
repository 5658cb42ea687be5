package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Canonical error keys used by the built-in validators. They match the
// constraint kinds carried by schema documents so error payloads stay stable
// across the schema builder and hand-wired forms.
const (
	ErrorKeyRequired  = "required"
	ErrorKeyMin       = "min"
	ErrorKeyMax       = "max"
	ErrorKeyMinLength = "minLength"
	ErrorKeyMaxLength = "maxLength"
	ErrorKeyPattern   = "pattern"
)

// Required rejects nil values, empty strings, and empty slices/maps.
func Required() Validator {
	return func(value any) Errors {
		if isEmptyValue(value) {
			return Errors{ErrorKeyRequired: true}
		}
		return nil
	}
}

// Min rejects numeric values below the threshold. Non-numeric values pass;
// pairing with another validator is the caller's concern. NaN never passes a
// bound check.
func Min(threshold float64) Validator {
	return func(value any) Errors {
		num, ok := asFloat(value)
		if !ok {
			return nil
		}
		if math.IsNaN(num) || num < threshold {
			return Errors{ErrorKeyMin: map[string]any{"min": threshold, "actual": num}}
		}
		return nil
	}
}

// Max rejects numeric values above the threshold.
func Max(threshold float64) Validator {
	return func(value any) Errors {
		num, ok := asFloat(value)
		if !ok {
			return nil
		}
		if math.IsNaN(num) || num > threshold {
			return Errors{ErrorKeyMax: map[string]any{"max": threshold, "actual": num}}
		}
		return nil
	}
}

// MinLength rejects strings shorter than the limit. Empty strings pass so the
// check composes with Required instead of duplicating it.
func MinLength(limit int) Validator {
	return func(value any) Errors {
		str, ok := value.(string)
		if !ok || str == "" {
			return nil
		}
		if length := len([]rune(str)); length < limit {
			return Errors{ErrorKeyMinLength: map[string]any{"requiredLength": limit, "actualLength": length}}
		}
		return nil
	}
}

// MaxLength rejects strings longer than the limit.
func MaxLength(limit int) Validator {
	return func(value any) Errors {
		str, ok := value.(string)
		if !ok {
			return nil
		}
		if length := len([]rune(str)); length > limit {
			return Errors{ErrorKeyMaxLength: map[string]any{"requiredLength": limit, "actualLength": length}}
		}
		return nil
	}
}

// Pattern rejects strings that do not match the supplied expression. Invalid
// expressions yield a validator that always reports a pattern failure, so a
// misconfigured schema surfaces at the field rather than being silently
// ignored.
func Pattern(expression string) Validator {
	re, err := regexp.Compile(expression)
	return func(value any) Errors {
		str, ok := value.(string)
		if !ok || str == "" {
			return nil
		}
		if err != nil {
			return Errors{ErrorKeyPattern: fmt.Sprintf("invalid pattern %q: %v", expression, err)}
		}
		if !re.MatchString(str) {
			return Errors{ErrorKeyPattern: map[string]any{"requiredPattern": expression, "actualValue": str}}
		}
		return nil
	}
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if v == "" {
			return 0, false
		}
		num, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}
