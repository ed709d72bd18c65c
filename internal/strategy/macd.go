package strategy

// CalculateMACD computes the MACD line (fast EMA minus slow EMA), the signal
// line (EMA of the MACD line) and the histogram (MACD minus signal) for a
// series of closing prices. All three slices have the same length as closes;
// indices before the slow EMA and signal warmup are NaN.
func CalculateMACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (macd, signal, histogram []float64) {
	n := len(closes)
	macd = nanSlice(n)
	signal = nanSlice(n)
	histogram = nanSlice(n)

	if n < slowPeriod {
		return macd, signal, histogram
	}

	emaFast := ema(closes, fastPeriod)
	emaSlow := ema(closes, slowPeriod)

	for i := 0; i < n; i++ {
		if Defined(emaFast[i], emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}

	signal = ema(macd, signalPeriod)

	for i := 0; i < n; i++ {
		if Defined(macd[i], signal[i]) {
			histogram[i] = macd[i] - signal[i]
		}
	}
	return macd, signal, histogram
}
