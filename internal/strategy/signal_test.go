package strategy

import (
	"math"
	"testing"

	"stock-scanner/internal/dto"

	"github.com/stretchr/testify/assert"
)

func histogramSet(values ...float64) *IndicatorSet {
	n := len(values)
	return &IndicatorSet{
		MACD:       nanSlice(n),
		MACDSignal: nanSlice(n),
		Histogram:  values,
		K:          nanSlice(n),
		D:          nanSlice(n),
		J:          nanSlice(n),
	}
}

func kdjSet(k, d []float64) *IndicatorSet {
	n := len(k)
	return &IndicatorSet{
		MACD:       nanSlice(n),
		MACDSignal: nanSlice(n),
		Histogram:  nanSlice(n),
		K:          k,
		D:          d,
		J:          nanSlice(n),
	}
}

func TestMACDRule_Buy(t *testing.T) {
	rule := macdRule{}

	tests := []struct {
		name      string
		histogram []float64
		t         int
		want      bool
	}{
		{
			name:      "crosses above zero",
			histogram: []float64{-0.5, 0.2},
			t:         1,
			want:      true,
		},
		{
			name:      "crosses from exactly zero",
			histogram: []float64{0, 0.2},
			t:         1,
			want:      true,
		},
		{
			name:      "already positive yesterday",
			histogram: []float64{0.1, 0.2},
			t:         1,
			want:      false,
		},
		{
			name:      "still negative today",
			histogram: []float64{-0.5, -0.1},
			t:         1,
			want:      false,
		},
		{
			name:      "first day has no yesterday",
			histogram: []float64{0.2},
			t:         0,
			want:      false,
		},
		{
			name:      "yesterday not warmed up yet",
			histogram: []float64{math.NaN(), 0.2},
			t:         1,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.Buy(histogramSet(tt.histogram...), tt.t))
		})
	}
}

func TestMACDRule_PeakSell(t *testing.T) {
	rule := macdRule{}

	// The histogram peaks at 5; the sell fires on the first declining day,
	// before the histogram crosses back below zero.
	ind := histogramSet(-1, 2, 5, 3, -1)
	assert.False(t, rule.Sell(ind, 1))
	assert.False(t, rule.Sell(ind, 2))
	assert.True(t, rule.Sell(ind, 3))
	assert.False(t, rule.Sell(ind, 4))
}

func TestMACDRule_PeakSell_Boundaries(t *testing.T) {
	rule := macdRule{}

	tests := []struct {
		name      string
		histogram []float64
		t         int
		want      bool
	}{
		{
			name:      "negative peak does not sell",
			histogram: []float64{-3, -1, -2},
			t:         2,
			want:      false,
		},
		{
			name:      "plateau is not a peak",
			histogram: []float64{1, 3, 3},
			t:         2,
			want:      false,
		},
		{
			name:      "needs two prior days",
			histogram: []float64{3, 2},
			t:         1,
			want:      false,
		},
		{
			name:      "warmup day before",
			histogram: []float64{math.NaN(), 3, 2},
			t:         2,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.Sell(histogramSet(tt.histogram...), tt.t))
		})
	}
}

func TestKDJRule_BuyAndSell(t *testing.T) {
	rule := kdjRule{oversold: 20, overbought: 80}

	// K crosses above D with both in the oversold band.
	buy := kdjSet([]float64{12, 18}, []float64{15, 16})
	assert.True(t, rule.Buy(buy, 1))
	assert.False(t, rule.Sell(buy, 1))

	// Same cross outside the band is ignored.
	midCross := kdjSet([]float64{40, 55}, []float64{50, 52})
	assert.False(t, rule.Buy(midCross, 1))

	// K crosses below D with both in the overbought band.
	sell := kdjSet([]float64{90, 85}, []float64{88, 87})
	assert.True(t, rule.Sell(sell, 1))
	assert.False(t, rule.Buy(sell, 1))

	// Cross down below the overbought band is ignored.
	lowCross := kdjSet([]float64{60, 55}, []float64{58, 57})
	assert.False(t, rule.Sell(lowCross, 1))
}

func TestNewRule_UnknownIndicator(t *testing.T) {
	_, err := NewRule("rsi", RuleConfig{})
	assert.Error(t, err)
}

func TestClassifier_Classify(t *testing.T) {
	cfg := RuleConfig{KDJOversold: 20, KDJOverbought: 80}

	macdOnly, err := NewClassifier(dto.IndicatorMACD, dto.IndicatorMACD, cfg)
	assert.NoError(t, err)

	buyDay := histogramSet(-0.5, 0.2)
	assert.Equal(t, dto.SignalBuy, macdOnly.Classify(buyDay, 1))

	sellDay := histogramSet(1, 3, 2)
	assert.Equal(t, dto.SignalSell, macdOnly.Classify(sellDay, 2))

	quietDay := histogramSet(0.1, 0.2, 0.3)
	assert.Equal(t, dto.SignalHold, macdOnly.Classify(quietDay, 2))
}

func TestClassifier_ConflictResolvesToHold(t *testing.T) {
	cfg := RuleConfig{KDJOversold: 20, KDJOverbought: 80}

	mixed, err := NewClassifier(dto.IndicatorMACD, dto.IndicatorKDJ, cfg)
	assert.NoError(t, err)

	// MACD histogram crosses up while KDJ crosses down overbought.
	ind := &IndicatorSet{
		MACD:       nanSlice(2),
		MACDSignal: nanSlice(2),
		Histogram:  []float64{-1, 0.5},
		K:          []float64{90, 85},
		D:          []float64{88, 87},
		J:          nanSlice(2),
	}

	assert.True(t, mixed.ShouldBuy(ind, 1))
	assert.True(t, mixed.ShouldSell(ind, 1))
	assert.Equal(t, dto.SignalHold, mixed.Classify(ind, 1))
	assert.Equal(t, "Conflicting signals from buy and sell indicators", mixed.Reasoning(ind, 1, dto.SignalHold))
}

func TestClassifier_Reasoning(t *testing.T) {
	cfg := RuleConfig{KDJOversold: 20, KDJOverbought: 80}

	macdOnly, err := NewClassifier(dto.IndicatorMACD, dto.IndicatorMACD, cfg)
	assert.NoError(t, err)

	buyDay := histogramSet(-0.5, 0.2)
	reason := macdOnly.Reasoning(buyDay, 1, dto.SignalBuy)
	assert.Contains(t, reason, "MACD golden cross")

	quietDay := histogramSet(0.1, 0.2, 0.3)
	reason = macdOnly.Reasoning(quietDay, 2, dto.SignalHold)
	assert.Contains(t, reason, "No crossover detected")
	assert.Contains(t, reason, "MACD histogram")

	warmup := histogramSet(math.NaN(), math.NaN())
	reason = macdOnly.Reasoning(warmup, 1, dto.SignalHold)
	assert.Contains(t, reason, "MACD histogram not available yet")
}
