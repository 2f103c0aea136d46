package terms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pctToken matches the first numeric token immediately preceding a % sign,
// e.g. "0.3333% x t" -> "0.3333".
var pctToken = regexp.MustCompile(`([\d.]+)\s*%`)

// ParseRate converts a rate to a decimal fraction. Numeric input is taken
// verbatim; string input has any % stripped and is divided by 100, so both
// "2.60%" and "2.60" become 0.026.
func ParseRate(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		s := strings.TrimSpace(strings.Trim(strings.TrimSpace(x), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: rate %q", ErrParameter, x)
		}
		return f / 100, nil
	case nil:
		return 0, fmt.Errorf("%w: empty rate", ErrParameter)
	default:
		return 0, fmt.Errorf("%w: rate has unsupported type %T", ErrParameter, v)
	}
}

// ParseMonthlyRate extracts a per-period rate from a compound formula string
// such as "0.3333% x t". Numeric input is taken verbatim.
//
// When no numeric token precedes a % sign the rate is zero rather than an
// error: upstream extraction sometimes leaves prose in the formula field, and
// a zero coupon keeps the rest of the term sheet priceable. Callers that want
// strict parsing should use ParseRate.
func ParseMonthlyRate(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		m := pctToken.FindStringSubmatch(x)
		if m == nil {
			return 0
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		return f / 100
	default:
		return 0
	}
}

// ParseBarrier converts a barrier level to a decimal fraction of the initial
// level. Same contract as ParseRate: "70%" -> 0.70.
func ParseBarrier(v any) (float64, error) {
	f, err := ParseRate(v)
	if err != nil {
		return 0, fmt.Errorf("%w: barrier %v", ErrParameter, v)
	}
	return f, nil
}
