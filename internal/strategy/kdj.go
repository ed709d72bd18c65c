package strategy

// CalculateKDJ computes the %K, %D and J lines from high/low/close series
// using a rolling stochastic over the given period. RSV windows shorter than
// period at the start of the series use the data available so far. K and D
// start at the 50 midpoint and are smoothed 2/3 previous + 1/3 current;
// J = 3K - 2D.
func CalculateKDJ(highs, lows, closes []float64, period int) (k, d, j []float64) {
	n := len(closes)
	k = nanSlice(n)
	d = nanSlice(n)
	j = nanSlice(n)

	if n < period {
		return k, d, j
	}

	rsv := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		lowMin := lows[start]
		highMax := highs[start]
		for w := start + 1; w <= i; w++ {
			if lows[w] < lowMin {
				lowMin = lows[w]
			}
			if highs[w] > highMax {
				highMax = highs[w]
			}
		}

		denom := highMax - lowMin
		if denom == 0 {
			denom = 1
		}
		rsv[i] = (closes[i] - lowMin) / denom * 100
	}

	k[0] = 50
	d[0] = 50
	for i := 1; i < n; i++ {
		k[i] = 2.0/3.0*k[i-1] + 1.0/3.0*rsv[i]
		d[i] = 2.0/3.0*d[i-1] + 1.0/3.0*k[i]
	}
	for i := 0; i < n; i++ {
		j[i] = 3*k[i] - 2*d[i]
	}
	return k, d, j
}
