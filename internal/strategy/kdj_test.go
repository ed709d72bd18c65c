package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateKDJ_InitialMidpoint(t *testing.T) {
	highs := []float64{12, 13, 14, 15, 16, 17, 18, 19, 20}
	lows := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18}
	closes := []float64{11, 12, 13, 14, 15, 16, 17, 18, 19}

	k, d, j := CalculateKDJ(highs, lows, closes, KDJPeriod)

	assert.Equal(t, 50.0, k[0])
	assert.Equal(t, 50.0, d[0])
	assert.Equal(t, 50.0, j[0])
}

func TestCalculateKDJ_SmoothingRecurrence(t *testing.T) {
	highs := []float64{12, 14, 13, 15}
	lows := []float64{10, 11, 11, 12}
	closes := []float64{11, 13, 12, 14}

	k, d, j := CalculateKDJ(highs, lows, closes, 3)

	// Windows shorter than the period use the data available so far.
	rsv1 := (13.0 - 10.0) / (14.0 - 10.0) * 100
	rsv2 := (12.0 - 10.0) / (14.0 - 10.0) * 100
	rsv3 := (14.0 - 11.0) / (15.0 - 11.0) * 100

	wantK1 := 2.0/3.0*50 + 1.0/3.0*rsv1
	wantD1 := 2.0/3.0*50 + 1.0/3.0*wantK1
	wantK2 := 2.0/3.0*wantK1 + 1.0/3.0*rsv2
	wantD2 := 2.0/3.0*wantD1 + 1.0/3.0*wantK2
	wantK3 := 2.0/3.0*wantK2 + 1.0/3.0*rsv3
	wantD3 := 2.0/3.0*wantD2 + 1.0/3.0*wantK3

	assert.InDelta(t, wantK1, k[1], 1e-9)
	assert.InDelta(t, wantD1, d[1], 1e-9)
	assert.InDelta(t, wantK2, k[2], 1e-9)
	assert.InDelta(t, wantD2, d[2], 1e-9)
	assert.InDelta(t, wantK3, k[3], 1e-9)
	assert.InDelta(t, wantD3, d[3], 1e-9)

	for i := range closes {
		assert.InDelta(t, 3*k[i]-2*d[i], j[i], 1e-9)
	}
}

func TestCalculateKDJ_FlatWindow(t *testing.T) {
	n := 12
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 50
		lows[i] = 50
		closes[i] = 50
	}

	k, d, _ := CalculateKDJ(highs, lows, closes, KDJPeriod)

	// A flat window has zero range; RSV falls back to zero instead of
	// dividing by zero, so K and D decay from the midpoint.
	for i := range closes {
		assert.False(t, math.IsNaN(k[i]))
		assert.False(t, math.IsNaN(d[i]))
	}
	assert.InDelta(t, 2.0/3.0*50, k[1], 1e-9)
	assert.Less(t, k[n-1], k[1])
}

func TestCalculateKDJ_ShortSeries(t *testing.T) {
	highs := []float64{12, 13}
	lows := []float64{10, 11}
	closes := []float64{11, 12}

	k, d, j := CalculateKDJ(highs, lows, closes, KDJPeriod)

	for i := range closes {
		assert.True(t, math.IsNaN(k[i]))
		assert.True(t, math.IsNaN(d[i]))
		assert.True(t, math.IsNaN(j[i]))
	}
}
