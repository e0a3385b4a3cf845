// pkg/model/column.go
package model

import (
	"fmt"
	"strings"
)

// ColumnType is the semantic kind of a generated column
type ColumnType string

const (
	TypeInt        ColumnType = "int"
	TypeFloat      ColumnType = "float"
	TypeCurrency   ColumnType = "currency"
	TypePercentage ColumnType = "percentage"
	TypeDate       ColumnType = "date"
	TypeDateTime   ColumnType = "datetime"
	TypeCategory   ColumnType = "category"
	TypeText       ColumnType = "text"
	TypeEmail      ColumnType = "email"
	TypePhone      ColumnType = "phone"
	TypeName       ColumnType = "name"
	TypeAddress    ColumnType = "address"
	TypeCompany    ColumnType = "company"
	TypeProduct    ColumnType = "product"
	TypeUUID       ColumnType = "uuid"
	TypeBool       ColumnType = "bool"
	TypeReference  ColumnType = "reference"
)

var allColumnTypes = []ColumnType{
	TypeInt, TypeFloat, TypeCurrency, TypePercentage,
	TypeDate, TypeDateTime, TypeCategory, TypeText,
	TypeEmail, TypePhone, TypeName, TypeAddress,
	TypeCompany, TypeProduct, TypeUUID, TypeBool,
	TypeReference,
}

// AllColumnTypes returns every supported semantic kind in declaration order
func AllColumnTypes() []ColumnType {
	out := make([]ColumnType, len(allColumnTypes))
	copy(out, allColumnTypes)
	return out
}

// ParseColumnType converts a schema type name to a ColumnType (case-insensitive)
func ParseColumnType(name string) (ColumnType, error) {
	normalized := ColumnType(normalizeName(name))
	for _, t := range allColumnTypes {
		if t == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown column type %q", name)
}

// IsNumeric reports whether values of this kind are numbers
func (t ColumnType) IsNumeric() bool {
	switch t {
	case TypeInt, TypeFloat, TypeCurrency, TypePercentage:
		return true
	default:
		return false
	}
}

// ReferenceSpec points a reference column at another source's column
type ReferenceSpec struct {
	Source string // File path or scheme-qualified source (e.g. "postgres:public.users")
	Column string // Column whose values form the candidate pool
}

// String returns "source#column"
func (r ReferenceSpec) String() string {
	return r.Source + "#" + r.Column
}

// ColumnConfig holds the per-type generation options of a column
type ColumnConfig struct {
	Min        *float64       // Lower bound for numeric kinds
	Max        *float64       // Upper bound for numeric kinds
	Precision  *int           // Decimal digits for float
	Categories []any          // Allowed values for category
	StartDate  string         // Inclusive lower bound for date/datetime (YYYY-MM-DD)
	EndDate    string         // Inclusive upper bound for date/datetime (YYYY-MM-DD)
	TextType   string         // Variant for name/address (first_name, city, ...)
	Reference  *ReferenceSpec // Required for reference columns
}

// ColumnSpec describes one column of the schema
type ColumnSpec struct {
	Name        string
	Type        ColumnType
	Config      ColumnConfig
	Degradation *DegradationConfig // Optional; nil means values are emitted clean
	Target      *TargetConfig      // Optional; non-nil marks a target column
}

// IsTarget reports whether the column is computed from feature columns
func (c ColumnSpec) IsTarget() bool {
	return c.Target != nil
}

// Schema is the ordered list of columns for a generation run
type Schema []ColumnSpec

// Names returns column names in declared order
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}

// GetColumnByName returns a column by name (case-insensitive)
// Returns nil if column not found
func (s Schema) GetColumnByName(name string) *ColumnSpec {
	normalized := normalizeName(name)
	for i, col := range s {
		if normalizeName(col.Name) == normalized {
			return &s[i]
		}
	}
	return nil
}

// Partition splits the schema into feature and target columns,
// preserving declared order within each group
func (s Schema) Partition() (features, targets []ColumnSpec) {
	for _, col := range s {
		if col.IsTarget() {
			targets = append(targets, col)
		} else {
			features = append(features, col)
		}
	}
	return features, targets
}

// ReferenceSpecs returns the reference specs of every reference column
func (s Schema) ReferenceSpecs() []ReferenceSpec {
	var specs []ReferenceSpec
	for _, col := range s {
		if col.Type == TypeReference && col.Config.Reference != nil {
			specs = append(specs, *col.Config.Reference)
		}
	}
	return specs
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
