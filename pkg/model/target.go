package model

import (
	"fmt"
	"math"
	"sort"
)

// TargetMode identifies the variant of a TargetConfig
type TargetMode string

const (
	TargetModeRuleBased     TargetMode = "rule_based"
	TargetModeProbabilistic TargetMode = "probabilistic"
)

// ParseTargetMode converts a schema mode name to a TargetMode
func ParseTargetMode(name string) (TargetMode, error) {
	switch TargetMode(normalizeName(name)) {
	case TargetModeRuleBased:
		return TargetModeRuleBased, nil
	case TargetModeProbabilistic:
		return TargetModeProbabilistic, nil
	default:
		return "", NewValidationError("", "mode", "unknown target mode %q", name)
	}
}

// Operator is a comparison operator of a rule condition
type Operator string

const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
)

// Valid reports whether op is one of the supported operators
func (op Operator) Valid() bool {
	switch op {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpEqual, OpNotEqual:
		return true
	default:
		return false
	}
}

// Condition compares one feature of the row against a literal
type Condition struct {
	Feature  string
	Operator Operator
	Value    interface{}
}

// String renders the condition as "feature op value"
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Feature, c.Operator, c.Value)
}

// Rule matches when all of its conditions hold
type Rule struct {
	Conditions  []Condition
	Probability float64
}

// RuleBasedTarget draws a boolean using the probability of the first matching rule
type RuleBasedTarget struct {
	Rules              []Rule
	DefaultProbability float64
}

// ProbabilisticTarget draws a boolean with a clamped linear probability
type ProbabilisticTarget struct {
	BaseProbability float64
	FeatureWeights  map[string]float64
	MinProbability  float64
	MaxProbability  float64
}

// WeightedFeatures returns the weighted feature names sorted for stable iteration
func (p *ProbabilisticTarget) WeightedFeatures() []string {
	names := make([]string, 0, len(p.FeatureWeights))
	for name := range p.FeatureWeights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TargetConfig is a tagged union: exactly one variant must be set
type TargetConfig struct {
	RuleBased     *RuleBasedTarget
	Probabilistic *ProbabilisticTarget
}

// Mode returns the configured variant, or "" when none or both are set
func (t *TargetConfig) Mode() TargetMode {
	switch {
	case t.RuleBased != nil && t.Probabilistic == nil:
		return TargetModeRuleBased
	case t.Probabilistic != nil && t.RuleBased == nil:
		return TargetModeProbabilistic
	default:
		return ""
	}
}

// Features returns every feature name the target reads
func (t *TargetConfig) Features() []string {
	var names []string
	if t.RuleBased != nil {
		for _, rule := range t.RuleBased.Rules {
			for _, cond := range rule.Conditions {
				names = append(names, cond.Feature)
			}
		}
	}
	if t.Probabilistic != nil {
		names = append(names, t.Probabilistic.WeightedFeatures()...)
	}
	return names
}

// Validate checks the structural contract of the target configuration
func (t *TargetConfig) Validate() error {
	if t.RuleBased != nil && t.Probabilistic != nil {
		return NewValidationError("", "mode", "a target cannot be both rule_based and probabilistic")
	}

	switch t.Mode() {
	case TargetModeRuleBased:
		return t.RuleBased.validate()
	case TargetModeProbabilistic:
		return t.Probabilistic.validate()
	default:
		return NewValidationError("", "mode", "a target must be rule_based or probabilistic")
	}
}

func (r *RuleBasedTarget) validate() error {
	if err := checkProbability("default_probability", r.DefaultProbability); err != nil {
		return err
	}

	for i, rule := range r.Rules {
		if err := checkProbability(fmt.Sprintf("rules[%d].probability", i), rule.Probability); err != nil {
			return err
		}
		if len(rule.Conditions) == 0 {
			return NewValidationError("", fmt.Sprintf("rules[%d].conditions", i), "a rule needs at least one condition")
		}
		for j, cond := range rule.Conditions {
			field := fmt.Sprintf("rules[%d].conditions[%d]", i, j)
			if cond.Feature == "" {
				return NewValidationError("", field+".feature", "feature is required")
			}
			if !cond.Operator.Valid() {
				return NewValidationError("", field+".operator", "unsupported operator %q", cond.Operator)
			}
			if cond.Value == nil {
				return NewValidationError("", field+".value", "value is required")
			}
			if !isScalar(cond.Value) {
				return NewValidationError("", field+".value", "must be a scalar, got %T", cond.Value)
			}
		}
	}
	return nil
}

func (p *ProbabilisticTarget) validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"base_probability", p.BaseProbability},
		{"min_probability", p.MinProbability},
		{"max_probability", p.MaxProbability},
	}
	for _, c := range checks {
		if err := checkProbability(c.field, c.value); err != nil {
			return err
		}
	}

	if p.MinProbability > p.MaxProbability {
		return NewValidationError("", "min_probability", "must not exceed max_probability (%v > %v)",
			p.MinProbability, p.MaxProbability)
	}

	for _, name := range p.WeightedFeatures() {
		if name == "" {
			return NewValidationError("", "feature_weights", "feature name is required")
		}
		if w := p.FeatureWeights[name]; math.IsNaN(w) || math.IsInf(w, 0) {
			return NewValidationError("", "feature_weights."+name, "weight must be finite, got %v", w)
		}
	}
	return nil
}

// isScalar reports whether v is a string, bool, or a finite number
func isScalar(v interface{}) bool {
	switch x := v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return false
	}
}
