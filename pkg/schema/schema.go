// Package schema decodes YAML column schemas into model.Schema and validates
// them before any row is generated.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/David-Botos/data-synth/pkg/model"
)

// Parse decodes a YAML schema document and validates it. All problems found
// are returned together.
func Parse(data []byte) (model.Schema, error) {
	var docs []columnDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&docs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: schema is empty", model.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	s := make(model.Schema, 0, len(docs))
	var errs []error
	for i, doc := range docs {
		col, err := toColumn(doc)
		if err != nil {
			errs = append(errs, fmt.Errorf("column %d: %w", i, err))
		}
		s = append(s, col)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads and parses a YAML schema file
func LoadFile(path string) (model.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

func toColumn(doc columnDoc) (model.ColumnSpec, error) {
	col := model.ColumnSpec{
		Name: doc.Name,
		Type: model.ColumnType(doc.Type),
		Config: model.ColumnConfig{
			Min:        doc.Config.Min,
			Max:        doc.Config.Max,
			Precision:  doc.Config.Precision,
			Categories: doc.Config.Categories,
			StartDate:  doc.Config.StartDate,
			EndDate:    doc.Config.EndDate,
			TextType:   doc.Config.TextType,
		},
	}

	// Unknown names are kept verbatim and reported by Validate
	if t, err := model.ParseColumnType(doc.Type); err == nil {
		col.Type = t
	}

	var errs []error

	ref, err := toReference(doc.Name, doc.Config)
	errs = append(errs, err)
	col.Config.Reference = ref

	degradation := doc.Degradation
	if doc.Config.QualityConfig != nil {
		if degradation != nil {
			errs = append(errs, model.NewValidationError(doc.Name, "degradation",
				"set either degradation or config.quality_config, not both"))
		}
		degradation = doc.Config.QualityConfig
	}
	if degradation != nil {
		col.Degradation = &model.DegradationConfig{
			NullRate:          degradation.NullRate,
			DuplicateRate:     degradation.DuplicateRate,
			SimilarRate:       degradation.SimilarRate,
			OutlierRate:       degradation.OutlierRate,
			InvalidFormatRate: degradation.InvalidFormatRate,
		}
	}

	target := doc.Target
	if doc.Config.TargetConfig != nil {
		if target != nil {
			errs = append(errs, model.NewValidationError(doc.Name, "target",
				"set either target or config.target_config, not both"))
		}
		target = doc.Config.TargetConfig
	}
	if target != nil {
		tc, err := toTarget(*target)
		if err != nil {
			errs = append(errs, model.AttributeToColumn(err, doc.Name, "target"))
		}
		col.Target = tc
	}

	return col, errors.Join(errs...)
}

func toReference(column string, cfg configDoc) (*model.ReferenceSpec, error) {
	source := cfg.ReferenceFile
	if cfg.ReferenceSource != "" {
		if source != "" {
			return nil, model.NewValidationError(column, "config.reference_source",
				"set either reference_file or reference_source, not both")
		}
		source = cfg.ReferenceSource
	}
	if source == "" && cfg.ReferenceColumn == "" {
		return nil, nil
	}
	return &model.ReferenceSpec{Source: source, Column: cfg.ReferenceColumn}, nil
}

// toTarget builds the variant named by mode. Without a mode the variant is
// inferred from the keys present; keys of both variants yield a conflicting
// config that Validate rejects.
func toTarget(doc targetDoc) (*model.TargetConfig, error) {
	ruleKeys := len(doc.Rules) > 0 || doc.DefaultProbability != nil
	probKeys := doc.BaseProbability != nil || doc.FeatureWeights != nil ||
		doc.MinProbability != nil || doc.MaxProbability != nil

	if doc.Mode != "" {
		mode, err := model.ParseTargetMode(doc.Mode)
		if err != nil {
			return nil, err
		}
		ruleKeys = ruleKeys || mode == model.TargetModeRuleBased
		probKeys = probKeys || mode == model.TargetModeProbabilistic
	}

	tc := &model.TargetConfig{}
	if ruleKeys {
		rb := &model.RuleBasedTarget{DefaultProbability: valueOr(doc.DefaultProbability, 0)}
		for i, r := range doc.Rules {
			if r.Probability == nil {
				return nil, model.NewValidationError("", fmt.Sprintf("rules[%d].probability", i), "probability is required")
			}
			rule := model.Rule{Probability: *r.Probability}
			for _, c := range r.Conditions {
				rule.Conditions = append(rule.Conditions, model.Condition{
					Feature:  c.Feature,
					Operator: model.Operator(c.Operator),
					Value:    c.Value,
				})
			}
			rb.Rules = append(rb.Rules, rule)
		}
		tc.RuleBased = rb
	}
	if probKeys {
		tc.Probabilistic = &model.ProbabilisticTarget{
			BaseProbability: valueOr(doc.BaseProbability, 0),
			FeatureWeights:  doc.FeatureWeights,
			MinProbability:  valueOr(doc.MinProbability, 0),
			MaxProbability:  valueOr(doc.MaxProbability, 1),
		}
	}
	return tc, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
