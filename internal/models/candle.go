package models

import "time"

// Timeframe — интервал свечей Bybit.
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
)

// Candle — одна свеча OHLCV, время начала бара.
type Candle struct {
	Ts     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceChangePct — изменение цены закрытия последнего бара к предыдущему, в процентах.
func PriceChangePct(series []Candle) float64 {
	if len(series) < 2 {
		return 0
	}
	prev := series[len(series)-2].Close
	if prev == 0 {
		return 0
	}
	return (series[len(series)-1].Close - prev) / prev * 100
}

// Closes — срез цен закрытия в порядке времени.
func Closes(series []Candle) []float64 {
	out := make([]float64, len(series))
	for i, c := range series {
		out[i] = c.Close
	}
	return out
}

// Volumes — срез объёмов в порядке времени.
func Volumes(series []Candle) []float64 {
	out := make([]float64, len(series))
	for i, c := range series {
		out[i] = c.Volume
	}
	return out
}
