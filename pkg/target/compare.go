package target

import (
	"strings"

	"github.com/David-Botos/data-synth/pkg/converter"
	"github.com/David-Botos/data-synth/pkg/model"
)

// Compare evaluates "left op right". Two numbers (or numeric strings) compare
// numerically, two other strings lexically, and two booleans for equality
// only. Any other combination is false.
func Compare(left interface{}, op model.Operator, right interface{}) bool {
	if left == nil || right == nil {
		return false
	}

	lb, lIsBool := left.(bool)
	rb, rIsBool := right.(bool)
	if lIsBool || rIsBool {
		if !(lIsBool && rIsBool) {
			return false
		}
		switch op {
		case model.OpEqual:
			return lb == rb
		case model.OpNotEqual:
			return lb != rb
		default:
			return false
		}
	}

	lf, lerr := converter.ToFloat(left)
	rf, rerr := converter.ToFloat(right)
	if lerr == nil && rerr == nil {
		return compareOrdered(lf, rf, op)
	}

	ls, lIsString := left.(string)
	rs, rIsString := right.(string)
	if lIsString && rIsString {
		return compareOrdered(strings.Compare(ls, rs), 0, op)
	}

	return false
}

func compareOrdered[T int | float64](a, b T, op model.Operator) bool {
	switch op {
	case model.OpGreater:
		return a > b
	case model.OpLess:
		return a < b
	case model.OpGreaterEqual:
		return a >= b
	case model.OpLessEqual:
		return a <= b
	case model.OpEqual:
		return a == b
	case model.OpNotEqual:
		return a != b
	default:
		return false
	}
}
