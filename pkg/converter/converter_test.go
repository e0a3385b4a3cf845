package converter

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    float64
		wantErr bool
	}{
		{"int", 42, 42, false},
		{"int64", int64(-7), -7, false},
		{"float32", float32(1.5), 1.5, false},
		{"bool true", true, 1, false},
		{"bool false", false, 0, false},
		{"numeric string", " 12.5 ", 12.5, false},
		{"bytes", []byte("3"), 3, false},
		{"empty string", "", 0, true},
		{"word", "abc", 0, true},
		{"nil", nil, 0, true},
		{"struct", struct{}{}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToFloat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToIntAndBool(t *testing.T) {
	i, err := ToInt("  99 ")
	require.NoError(t, err)
	assert.Equal(t, int64(99), i)

	_, err = ToInt(uint64(math.MaxUint64))
	assert.Error(t, err)

	b, err := ToBool("Yes")
	require.NoError(t, err)
	assert.True(t, b)

	b, err = ToBool(0)
	require.NoError(t, err)
	assert.False(t, b)

	_, err = ToBool("maybe")
	assert.Error(t, err)
}

func TestToTime(t *testing.T) {
	got, err := ToTime("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.March, got.Month())

	got, err = ToTime("2024-03-05 10:11:12")
	require.NoError(t, err)
	assert.Equal(t, 11, got.Minute())

	_, err = ToTime("not a date")
	assert.Error(t, err)
}

func TestIsNullAndRound(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(math.NaN()))
	assert.False(t, IsNull(""))
	assert.Equal(t, 12.35, Round(12.345678, 2))
	assert.Equal(t, 12.0, Round(12.4, 0))
}

func TestSaturateInt(t *testing.T) {
	assert.Equal(t, int64(42), SaturateInt(42.9))
	assert.Equal(t, int64(-42), SaturateInt(-42.9))
	assert.Equal(t, int64(math.MaxInt64), SaturateInt(math.MaxInt64*1000.0))
	assert.Equal(t, int64(math.MaxInt64), SaturateInt(math.Inf(1)))
	assert.Equal(t, int64(math.MinInt64), SaturateInt(-math.MaxInt64*1000.0))
	assert.Equal(t, int64(math.MinInt64), SaturateInt(math.Inf(-1)))
	assert.Equal(t, int64(0), SaturateInt(math.NaN()))

	assert.True(t, InInt64Range(-9223372036854775808.0))
	assert.False(t, InInt64Range(9223372036854775808.0))
	assert.False(t, InInt64Range(math.NaN()))
}

func TestNormalizeScalar(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"nil", nil, nil},
		{"bytes", []byte("abc"), "abc"},
		{"int widened", 5, int64(5)},
		{"date only", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "2024-01-02"},
		{"timestamp", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02 03:04:05"},
		{"null string", sql.NullString{}, nil},
		{"valid null string", sql.NullString{String: "x", Valid: true}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeScalar(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		cell string
		want interface{}
	}{
		{"12", int64(12)},
		{"-7", int64(-7)},
		{"0", int64(0)},
		{"1.5", 1.5},
		{"0.25", 0.25},
		{"2e3", 2000.0},
		{"C-001", "C-001"},
		{"00501", "00501"},
		{"02134", "02134"},
		{"-007", "-007"},
		{"+5", "+5"},
		{"Nan", "Nan"},
		{"NaN", "NaN"},
		{"inf", "inf"},
		{"Infinity", "Infinity"},
		{"-Inf", "-Inf"},
		{"1e400", "1e400"},
		{"0x1p4", "0x1p4"},
		{"1_000", "1_000"},
		{"1e", "1e"},
		{".", "."},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCell(tt.cell))
		})
	}
}

func TestParseColumn(t *testing.T) {
	assert.Equal(t, []interface{}{int64(1), 2.5, int64(-3)}, ParseColumn([]string{"1", "2.5", "-3"}))
	assert.Equal(t, []interface{}{"1", "Ann", "3"}, ParseColumn([]string{"1", "Ann", "3"}))
	assert.Equal(t, []interface{}{"10", "00501"}, ParseColumn([]string{"10", "00501"}))
	assert.Equal(t, []interface{}{}, ParseColumn([]string{}))
}
