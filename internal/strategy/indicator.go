package strategy

import (
	"math"

	"stock-scanner/internal/dto"
)

const (
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	KDJPeriod        = 9
)

// IndicatorSet holds the computed indicator series for one stock, aligned
// index-for-index with the candles they were derived from. Entries before an
// indicator's lookback window has enough data are NaN, never fabricated.
type IndicatorSet struct {
	MACD       []float64
	MACDSignal []float64
	Histogram  []float64
	K          []float64
	D          []float64
	J          []float64
}

// Len returns the number of days covered by the set.
func (s *IndicatorSet) Len() int {
	return len(s.Histogram)
}

// Defined reports whether every value in vals is a real number.
func Defined(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Compute derives MACD and KDJ series from the given candles. The result is a
// pure function of the input: identical candles yield identical series.
func Compute(candles []dto.StockOHLCV) *IndicatorSet {
	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	set := &IndicatorSet{}
	set.MACD, set.MACDSignal, set.Histogram = CalculateMACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	set.K, set.D, set.J = CalculateKDJ(highs, lows, closes, KDJPeriod)
	return set
}

// ema computes an exponential moving average over values. The first defined
// output seeds from a simple average of the first period inputs; earlier
// indices are NaN. A NaN prefix in the input shifts the warmup accordingly.
func ema(values []float64, period int) []float64 {
	out := nanSlice(len(values))

	start := 0
	for start < len(values) && math.IsNaN(values[start]) {
		start++
	}
	seedAt := start + period - 1
	if seedAt >= len(values) {
		return out
	}

	var sum float64
	for i := start; i <= seedAt; i++ {
		sum += values[i]
	}
	out[seedAt] = sum / float64(period)

	alpha := 2.0 / float64(period+1)
	for i := seedAt + 1; i < len(values); i++ {
		out[i] = values[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
