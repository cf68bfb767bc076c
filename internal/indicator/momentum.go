package indicator

import (
	"fmt"

	"screener_bot/internal/models"
)

const (
	rsiPeriod      = 14
	rsiOverbought  = 70
	rsiOversold    = 30
	macdFast       = 12
	macdSlow       = 26
	macdSignal     = 9
	divergenceLook = 5 // глубина поиска экстремума для дивергенции
)

func evalRSI(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	rsi := last(rsiSeries(models.Closes(series), rsiPeriod))
	if isNaN(rsi) {
		return Result{Summary: "RSI=NaN"}, nil
	}
	return Result{
		Triggered: rsi > rsiOverbought || rsi < rsiOversold,
		Summary:   fmt.Sprintf("RSI=%.1f", rsi),
	}, nil
}

// macdState: линия, сигнальная и факт пересечения на последнем баре.
type macdState struct {
	macd, signal       float64
	crossUp, crossDown bool
}

func macdOf(closes []float64) macdState {
	fast := ema(closes, macdFast)
	slow := ema(closes, macdSlow)
	line := make([]float64, len(closes))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	// сигнальная считается только по валидной части линии
	valid := line[macdSlow-1:]
	sig := ema(valid, macdSignal)

	st := macdState{macd: last(line), signal: last(sig)}
	m, mPrev := last(line), prev(line)
	s, sPrev := last(sig), prev(sig)
	if !isNaN(m) && !isNaN(mPrev) && !isNaN(s) && !isNaN(sPrev) {
		st.crossUp = m > s && mPrev <= sPrev
		st.crossDown = m < s && mPrev >= sPrev
	}
	return st
}

func evalMACD(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	st := macdOf(models.Closes(series))
	state := "нейтральный"
	if st.crossUp {
		state = "бычий"
	} else if st.crossDown {
		state = "медвежий"
	}
	return Result{
		Triggered: st.crossUp || st.crossDown,
		Summary:   fmt.Sprintf("MACD=%s", state),
	}, nil
}

// evalDivergence — расхождение цены и RSI: цена обновляет экстремум
// за divergenceLook баров, RSI — нет.
func evalDivergence(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	closes := models.Closes(series)
	rsi := rsiSeries(closes, rsiPeriod)
	n := len(closes)
	if n < divergenceLook+1 || isNaN(rsi[n-1]) || isNaN(rsi[n-1-divergenceLook]) {
		return Result{Summary: "Дивергенция=NaN"}, nil
	}
	priceNow, priceThen := closes[n-1], closes[n-1-divergenceLook]
	rsiNow, rsiThen := rsi[n-1], rsi[n-1-divergenceLook]

	bullish := priceNow < priceThen && rsiNow > rsiThen
	bearish := priceNow > priceThen && rsiNow < rsiThen

	state := "нет"
	if bullish {
		state = "бычья"
	} else if bearish {
		state = "медвежья"
	}
	return Result{
		Triggered: bullish || bearish,
		Summary:   fmt.Sprintf("Дивергенция=%s", state),
	}, nil
}
