// pkg/converter/converter.go
package converter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout and DateTimeLayout are the renderings used for generated dates
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// IsNull determines if a value should be treated as NULL
func IsNull(value interface{}) bool {
	if value == nil {
		return true
	}
	if f, ok := value.(float64); ok && math.IsNaN(f) {
		return true
	}
	return false
}

// ToString converts a value to its string form
func ToString(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		// Use Sprint as a fallback
		return fmt.Sprintf("%v", val)
	}
}

// ToFloat attempts to convert a value to float64.
// Booleans convert to 1 and 0 so they can take part in weighted sums.
func ToFloat(v interface{}) (float64, error) {
	if v == nil {
		return 0, errors.New("nil value")
	}

	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, errors.New("empty string")
		}
		return strconv.ParseFloat(cleaned, 64)
	case []byte:
		cleaned := strings.TrimSpace(string(val))
		if cleaned == "" {
			return 0, errors.New("empty byte array")
		}
		return strconv.ParseFloat(cleaned, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

// ToInt attempts to convert a value to int64
func ToInt(v interface{}) (int64, error) {
	if v == nil {
		return 0, errors.New("nil value")
	}

	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint:
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return 0, errors.New("uint64 value overflow for int64")
		}
		return int64(val), nil
	case float32:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, errors.New("empty string")
		}
		return strconv.ParseInt(cleaned, 10, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}

// ToBool attempts to convert a value to bool
func ToBool(v interface{}) (bool, error) {
	if v == nil {
		return false, errors.New("nil value")
	}

	switch val := v.(type) {
	case bool:
		return val, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		// Convert numeric values (0 = false, non-0 = true)
		i, _ := ToInt(val)
		return i != 0, nil
	case string:
		switch strings.TrimSpace(strings.ToLower(val)) {
		case "true", "t", "yes", "y", "1":
			return true, nil
		case "false", "f", "no", "n", "0":
			return false, nil
		default:
			return false, fmt.Errorf("cannot parse '%s' as boolean", val)
		}
	default:
		return false, fmt.Errorf("cannot convert %T to bool", v)
	}
}

// ToTime attempts to convert a value to time.Time
func ToTime(v interface{}) (time.Time, error) {
	if v == nil {
		return time.Time{}, errors.New("nil value")
	}

	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return time.Time{}, errors.New("empty string")
		}

		// Try common formats
		formats := []string{
			time.RFC3339,
			DateTimeLayout,
			"2006-01-02T15:04:05",
			DateLayout,
			"01/02/2006",
			"2006/01/02",
		}
		for _, format := range formats {
			if t, err := time.Parse(format, cleaned); err == nil {
				return t, nil
			}
		}

		return time.Time{}, fmt.Errorf("cannot parse time from '%s'", cleaned)
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
	}
}

// Round rounds f to the given number of decimal digits
func Round(f float64, digits int) float64 {
	if digits < 0 {
		return f
	}
	pow := math.Pow(10, float64(digits))
	return math.Round(f*pow) / pow
}

// int64 bounds as floats; float64(math.MaxInt64) rounds up to 2^63
const (
	minInt64Float = -9223372036854775808.0
	maxInt64Float = 9223372036854775808.0
)

// InInt64Range reports whether f converts to int64 without overflow
func InInt64Range(f float64) bool {
	return f >= minInt64Float && f < maxInt64Float
}

// SaturateInt converts f to int64, clamping values outside the int64 range.
// NaN converts to 0.
func SaturateInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= maxInt64Float:
		return math.MaxInt64
	case f < minInt64Float:
		return math.MinInt64
	}
	return int64(f)
}
