package model

// Row maps column names to generated values for a single record
type Row map[string]interface{}

// Get returns the value of a column and whether the column is present
func (r Row) Get(name string) (interface{}, bool) {
	v, ok := r[name]
	return v, ok
}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Values returns the row's values in the given column order
func (r Row) Values(columns []string) []interface{} {
	values := make([]interface{}, len(columns))
	for i, name := range columns {
		values[i] = r[name]
	}
	return values
}
