package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"screener_bot/internal/models"
)

func TestSMA(t *testing.T) {
	out := sma([]float64{1, 2, 3, 4, 5}, 3)
	assert.True(t, isNaN(out[0]))
	assert.True(t, isNaN(out[1]))
	assert.InDelta(t, 2, out[2], 1e-9)
	assert.InDelta(t, 3, out[3], 1e-9)
	assert.InDelta(t, 4, out[4], 1e-9)
}

func TestEMASeed(t *testing.T) {
	// сид — SMA первых period значений
	out := ema([]float64{2, 4, 6, 8}, 3)
	assert.True(t, isNaN(out[1]))
	assert.InDelta(t, 4, out[2], 1e-9)
	// k=0.5: 4 + 0.5*(8-4)
	assert.InDelta(t, 6, out[3], 1e-9)
}

func TestRSIExtremes(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = float64(100 + i)
		down[i] = float64(100 - i)
	}
	assert.InDelta(t, 100, last(rsiSeries(up, 14)), 1e-9)
	assert.InDelta(t, 0, last(rsiSeries(down, 14)), 1e-9)
}

func TestBollingerShortSeries(t *testing.T) {
	series := risingSeries(10, 1)
	_, err := bollingerPosition(series)
	assert.Error(t, err)
}

func TestOBVRising(t *testing.T) {
	series := risingSeries(30, 1)
	res, err := evalOBV(series, models.MonitorSettings{})
	assert.NoError(t, err)
	assert.True(t, res.Triggered)
	assert.Contains(t, res.Summary, "растёт")
}
