package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMACD_WarmupAndLength(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}

	macd, signal, histogram := CalculateMACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)

	assert.Len(t, macd, len(closes))
	assert.Len(t, signal, len(closes))
	assert.Len(t, histogram, len(closes))

	// MACD needs the slow EMA, so the first defined value is at slowPeriod-1.
	for i := 0; i < MACDSlowPeriod-1; i++ {
		assert.True(t, math.IsNaN(macd[i]), "macd[%d] should be NaN", i)
	}
	assert.False(t, math.IsNaN(macd[MACDSlowPeriod-1]))

	// Signal and histogram additionally wait for the signal EMA seed.
	firstSignal := MACDSlowPeriod - 1 + MACDSignalPeriod - 1
	for i := 0; i < firstSignal; i++ {
		assert.True(t, math.IsNaN(signal[i]), "signal[%d] should be NaN", i)
		assert.True(t, math.IsNaN(histogram[i]), "histogram[%d] should be NaN", i)
	}
	for i := firstSignal; i < len(closes); i++ {
		assert.False(t, math.IsNaN(signal[i]), "signal[%d] should be defined", i)
		assert.False(t, math.IsNaN(histogram[i]), "histogram[%d] should be defined", i)
		assert.InDelta(t, macd[i]-signal[i], histogram[i], 1e-12)
	}
}

func TestCalculateMACD_ConstantSeries(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 42
	}

	macd, _, histogram := CalculateMACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)

	// Constant prices make every EMA equal the price.
	for i := MACDSlowPeriod - 1; i < len(closes); i++ {
		assert.InDelta(t, 0, macd[i], 1e-12)
	}
	last := len(closes) - 1
	assert.InDelta(t, 0, histogram[last], 1e-12)
}

func TestCalculateMACD_ShortSeries(t *testing.T) {
	closes := []float64{10, 11, 12}

	macd, signal, histogram := CalculateMACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)

	assert.Len(t, macd, 3)
	for i := range closes {
		assert.True(t, math.IsNaN(macd[i]))
		assert.True(t, math.IsNaN(signal[i]))
		assert.True(t, math.IsNaN(histogram[i]))
	}
}

func TestCalculateMACD_Deterministic(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}

	macd1, signal1, hist1 := CalculateMACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	macd2, signal2, hist2 := CalculateMACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)

	for i := range closes {
		assertSameValue(t, macd1[i], macd2[i])
		assertSameValue(t, signal1[i], signal2[i])
		assertSameValue(t, hist1[i], hist2[i])
	}
}

func assertSameValue(t *testing.T, a, b float64) {
	t.Helper()
	if math.IsNaN(a) {
		assert.True(t, math.IsNaN(b))
		return
	}
	assert.Equal(t, a, b)
}
