package generator

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/model"
	"github.com/David-Botos/data-synth/pkg/target"
)

// ColumnProfile summarizes the generated values of one column
type ColumnProfile struct {
	Name           string
	Rows           int
	Nulls          int
	NullFraction   float64
	Distinct       int
	RepeatFraction float64 // Share of non-null values equal to an earlier value
	TrueRate       float64 // Share of true among non-null values; bool columns only
}

// RateDiscrepancy is an observed rate outside the tolerance of its configuration
type RateDiscrepancy struct {
	Column    string
	Field     string
	Expected  float64
	Observed  float64
	Tolerance float64
}

// String renders the discrepancy
func (d RateDiscrepancy) String() string {
	return fmt.Sprintf("%s.%s: expected %.4f, observed %.4f (tolerance %.4f)",
		d.Column, d.Field, d.Expected, d.Observed, d.Tolerance)
}

// RuleRate is the observed true rate of a target among rows matching one rule
type RuleRate struct {
	Rule     int // Rule index, or target.NoRule for the default
	Rows     int
	Trues    int
	Expected float64
}

// Observed returns the true rate, or 0 without rows
func (r RuleRate) Observed() float64 {
	if r.Rows == 0 {
		return 0
	}
	return float64(r.Trues) / float64(r.Rows)
}

// VerificationReport contains the profile of a generated result
type VerificationReport struct {
	VerificationTime time.Time
	Rows             int
	Columns          []ColumnProfile
	NullRatesMatch   bool
	Discrepancies    []RateDiscrepancy
	TargetRates      map[string][]RuleRate
	Duration         time.Duration
}

// Verifier profiles generated rows against the schema that produced them
type Verifier struct {
	targets   *target.Resolver
	logger    *zap.Logger
	tolerance float64
}

// NewVerifier creates a verifier
func NewVerifier(logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		targets: target.NewResolver(logger),
		logger:  logger.Named("verifier"),
	}
}

// WithTolerance sets a fixed absolute tolerance for rate checks. Without it
// the tolerance is four binomial standard deviations.
func (v *Verifier) WithTolerance(tolerance float64) *Verifier {
	v.tolerance = tolerance
	return v
}

// ProfileColumn computes the profile of one column
func (v *Verifier) ProfileColumn(name string, rows []model.Row) ColumnProfile {
	profile := ColumnProfile{Name: name, Rows: len(rows)}
	seen := make(map[string]bool)
	repeats, trues, bools := 0, 0, 0

	for _, row := range rows {
		value := row[name]
		if value == nil {
			profile.Nulls++
			continue
		}
		if b, ok := value.(bool); ok {
			bools++
			if b {
				trues++
			}
		}
		key := fmt.Sprintf("%T:%v", value, value)
		if seen[key] {
			repeats++
		}
		seen[key] = true
	}

	nonNull := profile.Rows - profile.Nulls
	profile.Distinct = len(seen)
	profile.NullFraction = ratio(profile.Nulls, profile.Rows)
	profile.RepeatFraction = ratio(repeats, nonNull)
	profile.TrueRate = ratio(trues, bools)
	return profile
}

// VerifyNullRates checks the observed null fraction of each degraded column
// against its configured null rate
func (v *Verifier) VerifyNullRates(s model.Schema, rows []model.Row) (bool, []RateDiscrepancy) {
	var discrepancies []RateDiscrepancy
	for _, col := range s {
		if col.Degradation == nil {
			continue
		}
		profile := v.ProfileColumn(col.Name, rows)
		expected := col.Degradation.NullRate
		tol := v.toleranceFor(expected, len(rows))
		if math.Abs(profile.NullFraction-expected) > tol {
			d := RateDiscrepancy{
				Column:    col.Name,
				Field:     "null_rate",
				Expected:  expected,
				Observed:  profile.NullFraction,
				Tolerance: tol,
			}
			v.logger.Warn("Null rate outside tolerance", zap.String("discrepancy", d.String()))
			discrepancies = append(discrepancies, d)
		}
	}
	return len(discrepancies) == 0, discrepancies
}

// TargetRates groups the rows of a target column by the rule their features
// match and reports the observed true rate per rule. Rows whose target value
// was nulled are skipped.
func (v *Verifier) TargetRates(col model.ColumnSpec, rows []model.Row) ([]RuleRate, error) {
	byRule := make(map[int]*RuleRate)
	var order []int

	for _, row := range rows {
		value, ok := row[col.Name].(bool)
		if !ok {
			continue
		}
		p, matched, err := v.targets.Probability(row, col.Target)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		rate, exists := byRule[matched]
		if !exists {
			rate = &RuleRate{Rule: matched, Expected: p}
			byRule[matched] = rate
			order = append(order, matched)
		}
		rate.Rows++
		if value {
			rate.Trues++
		}
	}

	rates := make([]RuleRate, 0, len(order))
	for _, rule := range order {
		rates = append(rates, *byRule[rule])
	}
	return rates, nil
}

// GenerateVerificationReport profiles every column of result
func (v *Verifier) GenerateVerificationReport(s model.Schema, result *Result) (*VerificationReport, error) {
	startTime := time.Now()
	report := &VerificationReport{
		VerificationTime: startTime,
		Rows:             len(result.Rows),
		TargetRates:      make(map[string][]RuleRate),
	}

	for _, col := range s {
		report.Columns = append(report.Columns, v.ProfileColumn(col.Name, result.Rows))
		if col.Target != nil && col.Target.Mode() == model.TargetModeRuleBased {
			rates, err := v.TargetRates(col, result.Rows)
			if err != nil {
				return nil, err
			}
			report.TargetRates[col.Name] = rates
		}
	}
	report.NullRatesMatch, report.Discrepancies = v.VerifyNullRates(s, result.Rows)
	report.Duration = time.Since(startTime)

	v.logger.Info("Verification report completed",
		zap.Int("rows", report.Rows),
		zap.Int("columns", len(report.Columns)),
		zap.Bool("nullRatesMatch", report.NullRatesMatch),
		zap.Duration("duration", report.Duration))

	return report, nil
}

func (v *Verifier) toleranceFor(p float64, n int) float64 {
	if v.tolerance > 0 {
		return v.tolerance
	}
	if n == 0 {
		return 0
	}
	return 4*math.Sqrt(p*(1-p)/float64(n)) + 0.005
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
