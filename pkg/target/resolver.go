// Package target computes dependent boolean columns from the feature values
// already placed in a row.
package target

import (
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/converter"
	"github.com/David-Botos/data-synth/pkg/model"
)

// NoRule is the matched-rule index reported when no rule matched
const NoRule = -1

// ErrNoTargetConfig is returned when a column has no target configuration
var ErrNoTargetConfig = errors.New("column has no target configuration")

// Resolver evaluates target configurations against rows. It never mutates
// the rows it reads.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a target resolver
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger.Named("target")}
}

// Probability returns the probability of true for row under cfg. For
// rule-based targets matchedRule is the index of the first matching rule,
// or NoRule when the default applied; probabilistic targets always report
// NoRule.
func (r *Resolver) Probability(row model.Row, cfg *model.TargetConfig) (p float64, matchedRule int, err error) {
	if cfg == nil {
		return 0, NoRule, ErrNoTargetConfig
	}

	switch cfg.Mode() {
	case model.TargetModeRuleBased:
		p, matchedRule = r.ruleBased(row, cfg.RuleBased)
		return p, matchedRule, nil
	case model.TargetModeProbabilistic:
		return r.probabilistic(row, cfg.Probabilistic), NoRule, nil
	default:
		return 0, NoRule, fmt.Errorf("%w: target must have exactly one mode", model.ErrInvalidConfig)
	}
}

// Resolve draws the target value with the probability computed for row
func (r *Resolver) Resolve(row model.Row, cfg *model.TargetConfig, rng *rand.Rand) (bool, error) {
	value, _, err := r.Evaluate(row, cfg, rng)
	return value, err
}

// Evaluate is Resolve that also reports the matched rule index
func (r *Resolver) Evaluate(row model.Row, cfg *model.TargetConfig, rng *rand.Rand) (value bool, matchedRule int, err error) {
	p, matchedRule, err := r.Probability(row, cfg)
	if err != nil {
		return false, NoRule, err
	}
	return rng.Float64() < p, matchedRule, nil
}

func (r *Resolver) ruleBased(row model.Row, cfg *model.RuleBasedTarget) (float64, int) {
	for i, rule := range cfg.Rules {
		if r.matches(row, rule) {
			return rule.Probability, i
		}
	}
	return cfg.DefaultProbability, NoRule
}

// matches reports whether every condition of the rule holds
func (r *Resolver) matches(row model.Row, rule model.Rule) bool {
	for _, cond := range rule.Conditions {
		value, ok := row.Get(cond.Feature)
		if !ok || value == nil {
			if !ok {
				r.logger.Debug("Condition references a feature absent from the row",
					zap.String("feature", cond.Feature))
			}
			return false
		}
		if !Compare(value, cond.Operator, cond.Value) {
			return false
		}
	}
	return true
}

// probabilistic computes base + sum(weight * value) over the present numeric
// features, clamped into [min, max]
func (r *Resolver) probabilistic(row model.Row, cfg *model.ProbabilisticTarget) float64 {
	p := cfg.BaseProbability
	for _, feature := range cfg.WeightedFeatures() {
		value, ok := row.Get(feature)
		if !ok || value == nil {
			continue
		}
		if _, isString := value.(string); isString {
			continue
		}
		x, err := converter.ToFloat(value)
		if err != nil {
			continue
		}
		p += cfg.FeatureWeights[feature] * x
	}
	return Clamp(p, cfg.MinProbability, cfg.MaxProbability)
}

// Clamp bounds p into [lo, hi]
func Clamp(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
