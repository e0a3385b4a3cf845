// Package valuegen produces clean base values for every non-reference column
// type from the column's configuration.
package valuegen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/David-Botos/data-synth/pkg/converter"
	"github.com/David-Botos/data-synth/pkg/model"
)

// Default bounds applied when a column leaves min/max unset
const (
	DefaultIntMin        = 0
	DefaultIntMax        = 1000
	DefaultFloatMin      = 0.0
	DefaultFloatMax      = 1000.0
	DefaultFloatDigits   = 2
	DefaultCurrencyMin   = 0.0
	DefaultCurrencyMax   = 10000.0
	DefaultPercentageMin = 0.0
	DefaultPercentageMax = 100.0
	DefaultStartDate     = "2020-01-01"
	DefaultEndDate       = "2024-12-31"
)

// ErrUnsupportedType is returned for kinds this generator does not produce
var ErrUnsupportedType = errors.New("unsupported column type")

// Generator produces base values. It holds no state; all randomness comes
// from the rng passed in, so output is reproducible for a fixed seed.
type Generator struct{}

// New creates a value generator
func New() *Generator {
	return &Generator{}
}

// Generate returns one clean value for spec
func (g *Generator) Generate(spec model.ColumnSpec, rng *rand.Rand) (interface{}, error) {
	cfg := spec.Config

	switch spec.Type {
	case model.TypeInt:
		lo, hi, err := bounds(cfg, DefaultIntMin, DefaultIntMax)
		if err != nil {
			return nil, err
		}
		lo, hi = math.Ceil(lo), math.Floor(hi)
		if !converter.InInt64Range(lo) || !converter.InInt64Range(hi) {
			return nil, fmt.Errorf("integer bounds [%v, %v] exceed the int64 range", lo, hi)
		}
		first, last := int64(lo), int64(hi)
		if first > last {
			return nil, fmt.Errorf("no integer in [%v, %v]", lo, hi)
		}
		return intBetween(first, last, rng), nil

	case model.TypeFloat:
		lo, hi, err := bounds(cfg, DefaultFloatMin, DefaultFloatMax)
		if err != nil {
			return nil, err
		}
		digits := DefaultFloatDigits
		if cfg.Precision != nil {
			digits = *cfg.Precision
		}
		return converter.Round(uniform(lo, hi, rng), digits), nil

	case model.TypeCurrency:
		lo, hi, err := bounds(cfg, DefaultCurrencyMin, DefaultCurrencyMax)
		if err != nil {
			return nil, err
		}
		return converter.Round(uniform(lo, hi, rng), 2), nil

	case model.TypePercentage:
		lo, hi, err := bounds(cfg, DefaultPercentageMin, DefaultPercentageMax)
		if err != nil {
			return nil, err
		}
		return converter.Round(uniform(lo, hi, rng), 2), nil

	case model.TypeDate:
		t, err := randomTime(cfg, rng, 24*time.Hour)
		if err != nil {
			return nil, err
		}
		return t.Format(converter.DateLayout), nil

	case model.TypeDateTime:
		t, err := randomTime(cfg, rng, time.Second)
		if err != nil {
			return nil, err
		}
		return t.Format(converter.DateTimeLayout), nil

	case model.TypeCategory:
		if len(cfg.Categories) == 0 {
			return nil, errors.New("category column requires categories")
		}
		return cfg.Categories[rng.Intn(len(cfg.Categories))], nil

	case model.TypeText:
		n := 3 + rng.Intn(8)
		words := make([]string, n)
		for i := range words {
			words[i] = pick(loremWords, rng)
		}
		sentence := strings.Join(words, " ")
		return strings.ToUpper(sentence[:1]) + sentence[1:] + ".", nil

	case model.TypeEmail:
		first := strings.ToLower(pick(firstNames, rng))
		last := strings.ToLower(pick(lastNames, rng))
		return fmt.Sprintf("%s.%s%d@%s", first, last, rng.Intn(100), pick(emailDomains, rng)), nil

	case model.TypePhone:
		return fmt.Sprintf("%03d-%03d-%04d", 200+rng.Intn(800), rng.Intn(1000), rng.Intn(10000)), nil

	case model.TypeName:
		return name(cfg.TextType, rng), nil

	case model.TypeAddress:
		return address(cfg.TextType, rng), nil

	case model.TypeCompany:
		return pick(lastNames, rng) + " " + pick(companySuffixes, rng), nil

	case model.TypeProduct:
		return pick(productAdjectives, rng) + " " + pick(productNouns, rng), nil

	case model.TypeUUID:
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate uuid: %w", err)
		}
		return id.String(), nil

	case model.TypeBool:
		return rng.Intn(2) == 1, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, spec.Type)
	}
}

func bounds(cfg model.ColumnConfig, defMin, defMax float64) (float64, float64, error) {
	lo, hi := defMin, defMax
	if cfg.Min != nil {
		lo = *cfg.Min
	}
	if cfg.Max != nil {
		hi = *cfg.Max
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 0, fmt.Errorf("bounds must be finite, got [%v, %v]", lo, hi)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("min %v exceeds max %v", lo, hi)
	}
	return lo, hi, nil
}

// intBetween draws uniformly from [first, last], including spans wider than
// math.MaxInt64
func intBetween(first, last int64, rng *rand.Rand) int64 {
	span := uint64(last) - uint64(first)
	if span < math.MaxInt64 {
		return first + rng.Int63n(int64(span)+1)
	}
	for {
		if n := rng.Uint64(); n <= span {
			return int64(uint64(first) + n)
		}
	}
}

func uniform(lo, hi float64, rng *rand.Rand) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randomTime draws a time between the configured dates (both inclusive),
// truncated to step
func randomTime(cfg model.ColumnConfig, rng *rand.Rand, step time.Duration) (time.Time, error) {
	startStr, endStr := DefaultStartDate, DefaultEndDate
	if cfg.StartDate != "" {
		startStr = cfg.StartDate
	}
	if cfg.EndDate != "" {
		endStr = cfg.EndDate
	}

	start, err := converter.ToTime(startStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := converter.ToTime(endStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid end_date: %w", err)
	}
	// The end date is inclusive up to its last step
	end = end.Add(24*time.Hour - step)
	if end.Before(start) {
		return time.Time{}, fmt.Errorf("start_date %s is after end_date %s", startStr, endStr)
	}

	steps := int64(end.Sub(start)/step) + 1
	return start.Add(time.Duration(rng.Int63n(steps)) * step), nil
}

func pick(words []string, rng *rand.Rand) string {
	return words[rng.Intn(len(words))]
}

func name(textType string, rng *rand.Rand) string {
	switch textType {
	case "first_name":
		return pick(firstNames, rng)
	case "last_name":
		return pick(lastNames, rng)
	default:
		return pick(firstNames, rng) + " " + pick(lastNames, rng)
	}
}

func address(textType string, rng *rand.Rand) string {
	street := func() string {
		return fmt.Sprintf("%d %s %s", 1+rng.Intn(9999), pick(streetNames, rng), pick(streetSuffixes, rng))
	}
	zip := func() string {
		return fmt.Sprintf("%05d", rng.Intn(100000))
	}

	switch textType {
	case "street":
		return street()
	case "city":
		return pick(cities, rng)
	case "state":
		return pick(states, rng)
	case "zip":
		return zip()
	case "country":
		return pick(countries, rng)
	default:
		return fmt.Sprintf("%s, %s, %s %s", street(), pick(cities, rng), pick(states, rng), zip())
	}
}

// TextTypes lists the accepted text_type values per column type
var TextTypes = map[model.ColumnType][]string{
	model.TypeName:    {"first_name", "last_name", "full_name"},
	model.TypeAddress: {"street", "city", "state", "zip", "country"},
}
