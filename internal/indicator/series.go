package indicator

import "math"

// Базовая математика по рядам. Везде вход — ряд в порядке времени,
// выход — ряд той же длины; позиции до прогрева заполнены NaN.

var nan = math.NaN()

func sma(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = nan
	}
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = nan
	}
	if period <= 0 || len(values) < period {
		return out
	}
	// сид — SMA первых period значений, дальше классическое сглаживание
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)
	out[period-1] = seed
	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = out[i-1] + k*(values[i]-out[i-1])
	}
	return out
}

// rsiSeries — RSI Уайлдера.
func rsiSeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = nan
	}
	if period <= 0 || len(closes) <= period {
		return out
	}
	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func stddev(values []float64, period int, mean float64) float64 {
	if period <= 0 || len(values) < period {
		return nan
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(period))
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return nan
	}
	return values[len(values)-1]
}

func prev(values []float64) float64 {
	if len(values) < 2 {
		return nan
	}
	return values[len(values)-2]
}

func isNaN(v float64) bool { return math.IsNaN(v) }
