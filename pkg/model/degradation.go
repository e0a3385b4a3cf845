// pkg/model/degradation.go
package model

import (
	"strings"
)

// DegradationConfig holds the per-column rates of each degradation stage.
// Every rate is a probability in [0,1].
type DegradationConfig struct {
	NullRate          float64
	DuplicateRate     float64
	SimilarRate       float64
	OutlierRate       float64
	InvalidFormatRate float64
}

// NewDegradationConfig creates a validated DegradationConfig
func NewDegradationConfig(nullRate, duplicateRate, similarRate, outlierRate, invalidFormatRate float64) (*DegradationConfig, error) {
	cfg := &DegradationConfig{
		NullRate:          nullRate,
		DuplicateRate:     duplicateRate,
		SimilarRate:       similarRate,
		OutlierRate:       outlierRate,
		InvalidFormatRate: invalidFormatRate,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures every rate lies in [0,1]
func (c *DegradationConfig) Validate() error {
	rates := []struct {
		field string
		value float64
	}{
		{"null_rate", c.NullRate},
		{"duplicate_rate", c.DuplicateRate},
		{"similar_rate", c.SimilarRate},
		{"outlier_rate", c.OutlierRate},
		{"invalid_format_rate", c.InvalidFormatRate},
	}
	for _, r := range rates {
		if err := checkProbability(r.field, r.value); err != nil {
			return err
		}
	}
	return nil
}

// IsZero reports whether no stage can ever fire
func (c *DegradationConfig) IsZero() bool {
	return c == nil || (c.NullRate == 0 && c.DuplicateRate == 0 && c.SimilarRate == 0 &&
		c.OutlierRate == 0 && c.InvalidFormatRate == 0)
}

// Stage identifies one degradation stage
type Stage uint8

const (
	StageNull Stage = 1 << iota
	StageDuplicate
	StageTypo
	StageWhitespace
	StageOutlier
	StageFormat
)

var stageNames = []struct {
	stage Stage
	name  string
}{
	{StageNull, "null"},
	{StageDuplicate, "duplicate"},
	{StageTypo, "typo"},
	{StageWhitespace, "whitespace"},
	{StageOutlier, "outlier"},
	{StageFormat, "format"},
}

// AllStages returns every stage in pipeline order
func AllStages() []Stage {
	stages := make([]Stage, len(stageNames))
	for i, s := range stageNames {
		stages[i] = s.stage
	}
	return stages
}

// String returns the stage name
func (s Stage) String() string {
	for _, sn := range stageNames {
		if sn.stage == s {
			return sn.name
		}
	}
	return "unknown"
}

// Outcome is the set of stages that changed a value during one pipeline pass
type Outcome uint8

// Has reports whether stage fired
func (o Outcome) Has(stage Stage) bool {
	return o&Outcome(stage) != 0
}

// With returns the outcome with stage added
func (o Outcome) With(stage Stage) Outcome {
	return o | Outcome(stage)
}

// Stages lists the stages that fired in pipeline order
func (o Outcome) Stages() []Stage {
	var stages []Stage
	for _, sn := range stageNames {
		if o.Has(sn.stage) {
			stages = append(stages, sn.stage)
		}
	}
	return stages
}

// String joins the fired stage names with "+", or "clean"
func (o Outcome) String() string {
	if o == 0 {
		return "clean"
	}
	names := make([]string, 0, len(stageNames))
	for _, s := range o.Stages() {
		names = append(names, s.String())
	}
	return strings.Join(names, "+")
}

// DegradationEvent records a value the pipeline changed
type DegradationEvent struct {
	RowIndex      int         // Zero-based row index in generation order
	ColumnName    string      // Column that was degraded
	ColumnType    ColumnType  // Semantic kind of the column
	OriginalValue interface{} // Clean value before the pipeline ran
	NewValue      interface{} // Emitted value (may be nil)
	Outcome       Outcome     // Stages that fired
}
