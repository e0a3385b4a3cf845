package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/David-Botos/data-synth/pkg/converter"
	"github.com/David-Botos/data-synth/pkg/model"
	"github.com/David-Botos/data-synth/pkg/valuegen"
)

// Validate checks the structural contract the pipeline relies on and returns
// every problem found, joined. Each problem is a *model.ValidationError naming
// the column and field.
func Validate(s model.Schema) error {
	if len(s) == 0 {
		return fmt.Errorf("%w: schema has no columns", model.ErrInvalidConfig)
	}

	var errs []error
	seen := make(map[string]bool, len(s))
	targets := make(map[string]bool)
	for _, col := range s {
		if col.IsTarget() {
			targets[strings.ToLower(col.Name)] = true
		}
	}

	for _, col := range s {
		key := strings.ToLower(strings.TrimSpace(col.Name))
		if key == "" {
			errs = append(errs, model.NewValidationError("", "name", "column name is required"))
		} else if seen[key] {
			errs = append(errs, model.NewValidationError(col.Name, "name", "duplicate column name"))
		}
		seen[key] = true

		errs = append(errs, validateColumn(col, targets)...)
	}
	return errors.Join(errs...)
}

func validateColumn(col model.ColumnSpec, targets map[string]bool) []error {
	var errs []error
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, model.NewValidationError(col.Name, field, format, args...))
	}

	if _, err := model.ParseColumnType(string(col.Type)); err != nil {
		add("type", "unknown column type %q", col.Type)
		return errs
	}

	cfg := col.Config
	for _, b := range []struct {
		field string
		value *float64
	}{{"config.min", cfg.Min}, {"config.max", cfg.Max}} {
		switch {
		case b.value == nil:
		case math.IsNaN(*b.value) || math.IsInf(*b.value, 0):
			add(b.field, "must be finite, got %v", *b.value)
		case col.Type == model.TypeInt && !converter.InInt64Range(math.Round(*b.value)):
			add(b.field, "%v is outside the int64 range", *b.value)
		}
	}
	if cfg.Min != nil && cfg.Max != nil && *cfg.Min > *cfg.Max {
		add("config.min", "must not exceed max (%v > %v)", *cfg.Min, *cfg.Max)
	}
	if cfg.Precision != nil && *cfg.Precision < 0 {
		add("config.precision", "must not be negative")
	}

	switch col.Type {
	case model.TypeCategory:
		if len(cfg.Categories) == 0 {
			add("config.categories", "category columns need at least one category")
		}
	case model.TypeReference:
		if cfg.Reference == nil || strings.TrimSpace(cfg.Reference.Source) == "" {
			add("config.reference_file", "reference columns need a reference source")
		}
		if cfg.Reference == nil || strings.TrimSpace(cfg.Reference.Column) == "" {
			add("config.reference_column", "reference columns need a reference column")
		}
	case model.TypeDate, model.TypeDateTime:
		errs = append(errs, validateDates(col)...)
	}

	if cfg.TextType != "" {
		allowed, ok := valuegen.TextTypes[col.Type]
		if !ok {
			add("config.text_type", "text_type is not supported for %s columns", col.Type)
		} else if !contains(allowed, cfg.TextType) {
			add("config.text_type", "unknown text_type %q (expected one of %s)", cfg.TextType, strings.Join(allowed, ", "))
		}
	}

	if col.Degradation != nil {
		if err := col.Degradation.Validate(); err != nil {
			errs = append(errs, model.AttributeToColumn(err, col.Name, "degradation"))
		}
	}

	if col.Target != nil {
		if col.Type != model.TypeBool {
			add("type", "target columns must be bool, got %s", col.Type)
		}
		if err := col.Target.Validate(); err != nil {
			errs = append(errs, model.AttributeToColumn(err, col.Name, "target"))
		}
		for _, feature := range col.Target.Features() {
			if targets[strings.ToLower(feature)] {
				add("target", "feature %q is itself a target column", feature)
			}
		}
	}
	return errs
}

func validateDates(col model.ColumnSpec) []error {
	var errs []error
	start, end := col.Config.StartDate, col.Config.EndDate
	startOK, endOK := true, true
	if start != "" {
		if _, err := converter.ToTime(start); err != nil {
			errs = append(errs, model.NewValidationError(col.Name, "config.start_date", "invalid date %q", start))
			startOK = false
		}
	}
	if end != "" {
		if _, err := converter.ToTime(end); err != nil {
			errs = append(errs, model.NewValidationError(col.Name, "config.end_date", "invalid date %q", end))
			endOK = false
		}
	}
	if start != "" && end != "" && startOK && endOK {
		s, _ := converter.ToTime(start)
		e, _ := converter.ToTime(end)
		if s.After(e) {
			errs = append(errs, model.NewValidationError(col.Name, "config.start_date", "must not be after end_date"))
		}
	}
	return errs
}

// UnknownFeatures returns, per target column, the features its configuration
// reads that no column of the schema produces. Rows are keyed by the exact
// column name, so a feature differing only in case is unknown too. Such
// conditions are always false at generation time.
func UnknownFeatures(s model.Schema) map[string][]string {
	names := make(map[string]bool, len(s))
	for _, col := range s {
		names[col.Name] = true
	}

	out := make(map[string][]string)
	for _, col := range s {
		if col.Target == nil {
			continue
		}
		for _, feature := range col.Target.Features() {
			if !names[feature] && !contains(out[col.Name], feature) {
				out[col.Name] = append(out[col.Name], feature)
			}
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
