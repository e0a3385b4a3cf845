package degrade

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/David-Botos/data-synth/pkg/converter"
	"github.com/David-Botos/data-synth/pkg/model"
)

// corruptFunc returns the corrupted value and whether it applied
type corruptFunc func(value interface{}, rng *rand.Rand) (interface{}, bool)

// behaviour is the outlier and format corruption of one column type.
// A nil func means the stage passes values of that type through.
type behaviour struct {
	outlier corruptFunc
	format  corruptFunc
}

// behaviours must hold an entry for every model.ColumnType
var behaviours = map[model.ColumnType]behaviour{
	model.TypeInt:        {outlier: intOutlier},
	model.TypeFloat:      {outlier: floatOutlier(-1)},
	model.TypeCurrency:   {outlier: floatOutlier(2)},
	model.TypePercentage: {outlier: percentageOutlier},
	// No date/time outlier policy exists; values pass through
	model.TypeDate:      {format: dateFormat("02/01/2006")},
	model.TypeDateTime:  {format: dateFormat("02/01/2006 15:04")},
	model.TypeCategory:  {},
	model.TypeText:      {},
	model.TypeEmail:     {format: emailFormat},
	model.TypePhone:     {format: phoneFormat},
	model.TypeName:      {},
	model.TypeAddress:   {},
	model.TypeCompany:   {},
	model.TypeProduct:   {},
	model.TypeUUID:      {format: uuidFormat},
	model.TypeBool:      {},
	model.TypeReference: {},
}

func behaviourFor(colType model.ColumnType) behaviour {
	return behaviours[colType]
}

// outlierFactors are the scale factors applied to numeric outliers
var outlierFactors = []float64{10, 100, 1000}

// percentageOutliers lie outside [0,100]
var percentageOutliers = []float64{-25, -5, 105, 150, 250}

// numericOutlier scales by a large factor, or negates one time in four
func numericOutlier(f float64, rng *rand.Rand) float64 {
	if rng.Intn(4) == 0 {
		if f == 0 {
			return -outlierFactors[len(outlierFactors)-1]
		}
		return -f
	}
	factor := outlierFactors[rng.Intn(len(outlierFactors))]
	if f == 0 {
		return factor
	}
	return f * factor
}

// isNumber reports whether value holds a Go numeric type
func isNumber(value interface{}) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

func intOutlier(value interface{}, rng *rand.Rand) (interface{}, bool) {
	if !isNumber(value) {
		return value, false
	}
	i, err := converter.ToInt(value)
	if err != nil {
		return value, false
	}
	return converter.SaturateInt(numericOutlier(float64(i), rng)), true
}

// floatOutlier rounds results to digits decimals, or leaves them when digits < 0
func floatOutlier(digits int) corruptFunc {
	return func(value interface{}, rng *rand.Rand) (interface{}, bool) {
		if !isNumber(value) {
			return value, false
		}
		f, err := converter.ToFloat(value)
		if err != nil {
			return value, false
		}
		return converter.Round(numericOutlier(f, rng), digits), true
	}
}

func percentageOutlier(value interface{}, rng *rand.Rand) (interface{}, bool) {
	if !isNumber(value) {
		return value, false
	}
	return percentageOutliers[rng.Intn(len(percentageOutliers))], true
}

// EmailOp is one structural email corruption
type EmailOp int

const (
	EmailDropAt EmailOp = iota
	EmailDoubleAt
	EmailDoubleDot
	EmailDropDomain
)

func emailFormat(value interface{}, rng *rand.Rand) (interface{}, bool) {
	s, ok := value.(string)
	if !ok || !strings.Contains(s, "@") {
		return value, false
	}
	return CorruptEmail(s, EmailOp(rng.Intn(4))), true
}

// CorruptEmail applies op to an address containing "@". Doubling a dot
// falls back to dropping the "@" when the address has no dot.
func CorruptEmail(s string, op EmailOp) string {
	at := strings.Index(s, "@")
	switch op {
	case EmailDropAt:
		return s[:at] + s[at+1:]
	case EmailDoubleAt:
		return s[:at] + "@@" + s[at+1:]
	case EmailDoubleDot:
		dot := strings.LastIndex(s, ".")
		if dot < 0 {
			return s[:at] + s[at+1:]
		}
		return s[:dot] + ".." + s[dot+1:]
	default:
		return s[:at+1]
	}
}

func phoneFormat(value interface{}, rng *rand.Rand) (interface{}, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return value, false
	}

	if rng.Intn(2) == 0 && len(s) > 1 {
		// Truncate to somewhere between one character and half the number
		keep := 1 + rng.Intn(max(1, len(s)/2))
		return s[:keep], true
	}

	var b strings.Builder
	b.WriteString(s)
	extra := 2 + rng.Intn(3)
	for i := 0; i < extra; i++ {
		b.WriteString(strconv.Itoa(rng.Intn(10)))
	}
	return b.String(), true
}

func uuidFormat(value interface{}, rng *rand.Rand) (interface{}, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return value, false
	}
	if id, err := uuid.Parse(s); err == nil {
		s = id.String()
	}

	if rng.Intn(2) == 0 && len(s) > 8 {
		return s[:8+rng.Intn(len(s)-8)], true
	}
	stripped := strings.ReplaceAll(s, "-", "")
	if stripped == s {
		return s[:len(s)-1], len(s) > 1
	}
	return stripped, true
}

// dateFormat re-renders a date in a day-first slash layout
func dateFormat(layout string) corruptFunc {
	return func(value interface{}, rng *rand.Rand) (interface{}, bool) {
		t, err := converter.ToTime(value)
		if err != nil {
			return value, false
		}
		return t.Format(layout), true
	}
}
