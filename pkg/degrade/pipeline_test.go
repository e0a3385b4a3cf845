package degrade

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-synth/pkg/history"
	"github.com/David-Botos/data-synth/pkg/model"
)

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestBehaviourTableCoversEveryColumnType(t *testing.T) {
	for _, ct := range model.AllColumnTypes() {
		_, ok := behaviours[ct]
		assert.True(t, ok, "column type %q has no degradation behaviour", ct)
	}
	assert.Len(t, behaviours, len(model.AllColumnTypes()))
}

func TestZeroConfigIsNoOp(t *testing.T) {
	p := NewPipeline(nil)
	rng := newRNG(1)

	v, outcome := p.Degrade("hello", model.TypeText, nil, "c", history.New(), rng)
	assert.Equal(t, "hello", v)
	assert.Equal(t, model.Outcome(0), outcome)

	v, outcome = p.Degrade(42, model.TypeInt, &model.DegradationConfig{}, "c", history.New(), rng)
	assert.Equal(t, 42, v)
	assert.Equal(t, model.Outcome(0), outcome)
}

func TestNullRateWithinTolerance(t *testing.T) {
	p := NewPipeline(nil)
	const n = 10000

	for _, rate := range []float64{0, 0.05, 0.3, 0.75, 1} {
		rng := newRNG(99)
		cfg := &model.DegradationConfig{NullRate: rate}
		nulls := 0
		for i := 0; i < n; i++ {
			v, outcome := p.Degrade("value", model.TypeText, cfg, "c", nil, rng)
			if v == nil {
				nulls++
				assert.Equal(t, model.Outcome(0).With(model.StageNull), outcome)
			}
		}
		assert.InDelta(t, rate, float64(nulls)/n, 0.02, "rate %v", rate)
	}
}

func TestNullShortCircuits(t *testing.T) {
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{NullRate: 1, DuplicateRate: 1, SimilarRate: 1, OutlierRate: 1, InvalidFormatRate: 1}
	hist := history.New()
	hist.Record("email", "dup@x.com")

	v, outcome := p.Degrade("a@b.com", model.TypeEmail, cfg, "email", hist, newRNG(3))
	assert.Nil(t, v)
	assert.Equal(t, []model.Stage{model.StageNull}, outcome.Stages())
}

func TestDuplicateSamplesOnlyFromHistory(t *testing.T) {
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{DuplicateRate: 1}
	rng := newRNG(5)

	hist := history.New()
	recorded := map[interface{}]bool{}
	for i := 0; i < 10; i++ {
		hist.Record("id", int64(i*7))
		recorded[int64(i*7)] = true
	}
	hist.Record("other", int64(-1))

	for i := 0; i < 1000; i++ {
		v, outcome := p.Degrade(int64(1_000_000), model.TypeInt, cfg, "id", hist, rng)
		require.True(t, recorded[v], "duplicate %v not in history", v)
		assert.True(t, outcome.Has(model.StageDuplicate))
	}
}

func TestDuplicateWithEmptyHistoryIsNoOp(t *testing.T) {
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{DuplicateRate: 1}

	v, outcome := p.Degrade("fresh", model.TypeText, cfg, "c", history.New(), newRNG(1))
	assert.Equal(t, "fresh", v)
	assert.False(t, outcome.Has(model.StageDuplicate))

	v, outcome = p.Degrade("fresh", model.TypeText, cfg, "c", nil, newRNG(1))
	assert.Equal(t, "fresh", v)
	assert.Equal(t, model.Outcome(0), outcome)
}

func TestShortStringsNeverGetTypos(t *testing.T) {
	rng := newRNG(11)
	for _, s := range []string{"", "a", "é"} {
		for i := 0; i < 200; i++ {
			got, changed := Typo(s, rng)
			assert.False(t, changed)
			assert.Equal(t, s, got)
		}
	}

	// Through the pipeline only whitespace may touch them
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{SimilarRate: 1}
	for i := 0; i < 200; i++ {
		v, outcome := p.Degrade("x", model.TypeText, cfg, "c", nil, rng)
		assert.False(t, outcome.Has(model.StageTypo))
		assert.Equal(t, "x", strings.TrimSpace(v.(string)))
	}
}

func TestApplyTypoOps(t *testing.T) {
	rng := newRNG(2)
	word := []rune("abcdef")

	swapped := ApplyTypo(word, TypoSwap, rng)
	assert.Len(t, swapped, 6)
	assert.ElementsMatch(t, []rune("abcdef"), []rune(swapped))
	assert.NotEqual(t, "abcdef", swapped)

	assert.Len(t, ApplyTypo(word, TypoDelete, rng), 5)
	assert.Len(t, ApplyTypo(word, TypoInsert, rng), 7)

	substituted := ApplyTypo(word, TypoSubstitute, rng)
	assert.Len(t, substituted, 6)
	assert.NotEqual(t, "abcdef", substituted)

	// Multi-byte characters are edited as runes
	assert.Equal(t, 3, len([]rune(ApplyTypo([]rune("çñü"), TypoSwap, rng))))
}

func TestApplyWhitespace(t *testing.T) {
	rng := newRNG(4)
	assert.Equal(t, " acme", ApplyWhitespace("acme", WhitespaceLeading, rng))
	assert.Equal(t, "acme ", ApplyWhitespace("acme", WhitespaceTrailing, rng))
	assert.Equal(t, " acme ", ApplyWhitespace("acme", WhitespaceBoth, rng))
	assert.Equal(t, "acme  corp", ApplyWhitespace("acme corp", WhitespaceDoubledInternal, rng))
	assert.Equal(t, "acme ", ApplyWhitespace("acme", WhitespaceDoubledInternal, rng))
}

func TestNearDuplicateSkipsNonText(t *testing.T) {
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{SimilarRate: 1}

	v, outcome := p.Degrade(int64(12345), model.TypeInt, cfg, "n", nil, newRNG(1))
	assert.Equal(t, int64(12345), v)
	assert.Equal(t, model.Outcome(0), outcome)
}

func TestOutliers(t *testing.T) {
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{OutlierRate: 1}
	rng := newRNG(8)

	for i := 0; i < 200; i++ {
		v, outcome := p.Degrade(int64(50), model.TypeInt, cfg, "qty", nil, rng)
		require.True(t, outcome.Has(model.StageOutlier))
		got := v.(int64)
		assert.True(t, got == -50 || got == 500 || got == 5000 || got == 50000, "got %d", got)
	}

	// Scaling saturates instead of wrapping around
	for i := 0; i < 200; i++ {
		v, _ := p.Degrade(int64(1)<<60, model.TypeInt, cfg, "qty", nil, rng)
		got := v.(int64)
		assert.True(t, got == math.MaxInt64 || got == -(int64(1)<<60), "got %d", got)

		v, _ = p.Degrade(int64(math.MinInt64), model.TypeInt, cfg, "qty", nil, rng)
		got = v.(int64)
		assert.True(t, got == math.MinInt64 || got == math.MaxInt64, "got %d", got)
	}

	for i := 0; i < 200; i++ {
		v, _ := p.Degrade(12.34, model.TypeCurrency, cfg, "amount", nil, rng)
		got := v.(float64)
		assert.InDelta(t, math.Round(got*100), got*100, 1e-6, "currency keeps two decimals")
	}

	for i := 0; i < 200; i++ {
		v, _ := p.Degrade(42.0, model.TypePercentage, cfg, "pct", nil, rng)
		got := v.(float64)
		assert.True(t, got < 0 || got > 100, "percentage outlier %v is in range", got)
	}
}

func TestOutlierPassThroughTypes(t *testing.T) {
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{OutlierRate: 1}

	for _, tc := range []struct {
		colType model.ColumnType
		value   interface{}
	}{
		{model.TypeDate, "2024-01-02"},
		{model.TypeDateTime, "2024-01-02 03:04:05"},
		{model.TypeCategory, "gold"},
		{model.TypeBool, true},
		{model.TypeInt, "not a number"},
	} {
		v, outcome := p.Degrade(tc.value, tc.colType, cfg, "c", nil, newRNG(1))
		assert.Equal(t, tc.value, v, string(tc.colType))
		assert.False(t, outcome.Has(model.StageOutlier))
	}
}

func TestCorruptEmail(t *testing.T) {
	addr := "jane.doe@example.com"
	assert.Equal(t, "jane.doeexample.com", CorruptEmail(addr, EmailDropAt))
	assert.Equal(t, "jane.doe@@example.com", CorruptEmail(addr, EmailDoubleAt))
	assert.Equal(t, "jane.doe@example..com", CorruptEmail(addr, EmailDoubleDot))
	assert.Equal(t, "jane.doe@", CorruptEmail(addr, EmailDropDomain))
	assert.Equal(t, "ab", CorruptEmail("a@b", EmailDoubleDot))
}

func TestFormatViolations(t *testing.T) {
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{InvalidFormatRate: 1}
	rng := newRNG(21)

	for i := 0; i < 100; i++ {
		v, outcome := p.Degrade("jane@example.com", model.TypeEmail, cfg, "email", nil, rng)
		require.True(t, outcome.Has(model.StageFormat))
		assert.NotEqual(t, "jane@example.com", v)
	}

	for i := 0; i < 100; i++ {
		v, _ := p.Degrade("555-123-4567", model.TypePhone, cfg, "phone", nil, rng)
		got := v.(string)
		assert.True(t, len(got) <= 6 || len(got) >= 14, "phone %q", got)
	}

	id := uuid.NewString()
	for i := 0; i < 100; i++ {
		v, _ := p.Degrade(id, model.TypeUUID, cfg, "id", nil, rng)
		assert.NotEqual(t, len(id), len(v.(string)), "corrupted uuid %q keeps the canonical shape", v)
	}

	v, outcome := p.Degrade("2024-03-25", model.TypeDate, cfg, "d", nil, rng)
	assert.Equal(t, "25/03/2024", v)
	assert.True(t, outcome.Has(model.StageFormat))

	v, outcome = p.Degrade("plain text", model.TypeText, cfg, "t", nil, rng)
	assert.Equal(t, "plain text", v)
	assert.Equal(t, model.Outcome(0), outcome)
}

func TestDegradeIsDeterministicForSeed(t *testing.T) {
	p := NewPipeline(nil)
	cfg := &model.DegradationConfig{NullRate: 0.1, DuplicateRate: 0.2, SimilarRate: 0.3, OutlierRate: 0.1, InvalidFormatRate: 0.2}

	run := func() []interface{} {
		rng := newRNG(1234)
		hist := history.New()
		var out []interface{}
		for i := 0; i < 500; i++ {
			v, _ := p.Degrade("user@example.com", model.TypeEmail, cfg, "email", hist, rng)
			hist.Record("email", v)
			out = append(out, v)
		}
		return out
	}
	assert.Equal(t, run(), run())
}
