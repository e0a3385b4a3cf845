package converter

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NormalizeScalar converts a value read from a reference source into a plain
// scalar the pipeline and the output layer understand. nil is returned for
// NULLs so callers can skip them.
func NormalizeScalar(value interface{}) (interface{}, error) {
	// Unwrap driver.Valuer implementations (sql.NullString and friends)
	if valuer, ok := value.(driver.Valuer); ok {
		inner, err := valuer.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to read driver value: %w", err)
		}
		value = inner
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool, int64, float64:
		return v, nil
	case []byte:
		return string(v), nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float32:
		return float64(v), nil
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(DateLayout), nil
		}
		return v.Format(DateTimeLayout), nil
	default:
		return ToString(v), nil
	}
}

// ParseCell converts a delimited-text cell to the narrowest scalar it
// represents: int64, then float64, then the string itself. Only plain
// decimal text is converted; zero-padded codes such as "00501", signs other
// than a leading minus, and words like "nan" or "inf" stay strings.
func ParseCell(cell string) interface{} {
	if v, ok := parseNumber(cell); ok {
		return v
	}
	return cell
}

// ParseColumn converts the cells of one column together: they become numbers
// only when every cell is numeric, otherwise they are all kept as strings
func ParseColumn(cells []string) []interface{} {
	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		v, ok := parseNumber(cell)
		if !ok {
			for j, c := range cells {
				values[j] = c
			}
			return values
		}
		values[i] = v
	}
	return values
}

func parseNumber(cell string) (interface{}, bool) {
	if !isDecimalText(cell) {
		return nil, false
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// isDecimalText accepts an optional leading minus, digits with no leading
// zero except a lone "0" or "0.x", an optional fraction and an optional
// exponent
func isDecimalText(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	if len(s) > 1 && s[0] == '0' && s[1] != '.' && s[1] != 'e' && s[1] != 'E' {
		return false
	}

	digits, i := 0, 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		for i++; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := i
		for ; i < len(s) && isDigit(s[i]); i++ {
		}
		if i == exp {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
