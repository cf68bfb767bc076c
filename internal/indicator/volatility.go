package indicator

import (
	"fmt"
	"math"

	"screener_bot/internal/models"
)

const (
	bollingerPeriod = 20
	bollingerDev    = 2.0
	adxPeriod       = 14
	adxTrendLevel   = 25
)

// Позиция закрытия относительно полос Боллинджера.
const (
	bandInside = "inside"
	bandUpper  = "upper"
	bandLower  = "lower"
)

func bollingerPosition(series []models.Candle) (string, error) {
	if len(series) < bollingerPeriod {
		return "", fmt.Errorf("недостаточно данных для Bollinger Bands: %d баров", len(series))
	}
	closes := models.Closes(series)
	mid := last(sma(closes, bollingerPeriod))
	dev := stddev(closes, bollingerPeriod, mid)
	if isNaN(mid) || isNaN(dev) {
		return "", fmt.Errorf("Bollinger Bands: NaN в расчёте")
	}
	close := last(closes)
	switch {
	case close > mid+bollingerDev*dev:
		return bandUpper, nil
	case close < mid-bollingerDev*dev:
		return bandLower, nil
	default:
		return bandInside, nil
	}
}

func evalBollinger(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	pos, err := bollingerPosition(series)
	if err != nil {
		return Result{}, err
	}
	state := "внутри"
	if pos == bandUpper {
		state = "выше верхней"
	} else if pos == bandLower {
		state = "ниже нижней"
	}
	return Result{
		Triggered: pos != bandInside,
		Summary:   fmt.Sprintf("Bollinger=%s", state),
	}, nil
}

// adxSeries — ADX Уайлдера по high/low/close.
func adxSeries(series []models.Candle, period int) []float64 {
	n := len(series)
	out := make([]float64, n)
	for i := range out {
		out[i] = nan
	}
	if n < 2*period+1 {
		return out
	}

	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		c := series[i]
		p := series[i-1]
		tr[i] = math.Max(c.High-c.Low, math.Max(math.Abs(c.High-p.Close), math.Abs(c.Low-p.Close)))
		up := c.High - p.High
		down := p.Low - c.Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	// сглаживание Уайлдера
	atr, pdi, mdi := 0.0, 0.0, 0.0
	for i := 1; i <= period; i++ {
		atr += tr[i]
		pdi += plusDM[i]
		mdi += minusDM[i]
	}

	dx := make([]float64, n)
	for i := range dx {
		dx[i] = nan
	}
	for i := period + 1; i < n; i++ {
		atr = atr - atr/float64(period) + tr[i]
		pdi = pdi - pdi/float64(period) + plusDM[i]
		mdi = mdi - mdi/float64(period) + minusDM[i]
		if atr == 0 {
			continue
		}
		plusDI := 100 * pdi / atr
		minusDI := 100 * mdi / atr
		if plusDI+minusDI == 0 {
			continue
		}
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}

	// ADX — сглаженный DX
	sum := 0.0
	for i := period + 1; i <= 2*period; i++ {
		if isNaN(dx[i]) {
			return out
		}
		sum += dx[i]
	}
	out[2*period] = sum / float64(period)
	for i := 2*period + 1; i < n; i++ {
		if isNaN(dx[i]) {
			out[i] = out[i-1]
			continue
		}
		out[i] = (out[i-1]*float64(period-1) + dx[i]) / float64(period)
	}
	return out
}

func evalADX(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	adx := last(adxSeries(series, adxPeriod))
	if isNaN(adx) {
		return Result{Summary: "ADX=NaN"}, nil
	}
	return Result{
		Triggered: adx > adxTrendLevel,
		Summary:   fmt.Sprintf("ADX=%.1f", adx),
	}, nil
}
