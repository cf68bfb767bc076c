package indicator

import (
	"fmt"
	"math"

	"screener_bot/internal/models"
)

const (
	emaCrossFast = 12
	emaCrossSlow = 26

	// свечные паттерны: тень минимум вдвое длиннее тела,
	// противоположная тень меньше тела
	shadowBodyRatio = 2.0
)

func evalEMACrossover(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	closes := models.Closes(series)
	fast := ema(closes, emaCrossFast)
	slow := ema(closes, emaCrossSlow)

	f, fPrev := last(fast), prev(fast)
	s, sPrev := last(slow), prev(slow)
	if isNaN(f) || isNaN(fPrev) || isNaN(s) || isNaN(sPrev) {
		return Result{Summary: "EMA Crossover=NaN"}, nil
	}
	crossUp := f > s && fPrev <= sPrev
	crossDown := f < s && fPrev >= sPrev

	state := "нет"
	if crossUp {
		state = "бычий"
	} else if crossDown {
		state = "медвежий"
	}
	return Result{
		Triggered: crossUp || crossDown,
		Summary:   fmt.Sprintf("EMA Crossover=%s", state),
	}, nil
}

// evalCandlePatterns — Hammer (бычий разворот) и Shooting Star (медвежий)
// по последнему бару.
func evalCandlePatterns(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	c := series[len(series)-1]
	body := math.Abs(c.Close - c.Open)
	upper := c.High - math.Max(c.Open, c.Close)
	lower := math.Min(c.Open, c.Close) - c.Low

	if body == 0 {
		return Result{Summary: "Свечной паттерн=нет"}, nil
	}
	hammer := lower >= shadowBodyRatio*body && upper < body
	star := upper >= shadowBodyRatio*body && lower < body

	state := "нет"
	if hammer {
		state = "Hammer"
	} else if star {
		state = "Shooting Star"
	}
	return Result{
		Triggered: hammer || star,
		Summary:   fmt.Sprintf("Свечной паттерн=%s", state),
	}, nil
}
