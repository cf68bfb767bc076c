package indicator

import (
	"fmt"

	"screener_bot/internal/models"
	"screener_bot/pkg/logger"
)

// minBars — минимум свечей для анализа. Меньше — вердикт пустой,
// без ошибки.
const minBars = 50

// Evaluate — чистая агрегация: серия свечей + снапшот настроек → вердикт.
// Входы не мутируются. Ошибка отдельного индикатора гасится: он
// считается несработавшим и помечается в трейсе.
func Evaluate(symbol string, series []models.Candle, cfg models.MonitorSettings) models.Verdict {
	v := models.Verdict{
		Symbol: symbol,
		Total:  cfg.EnabledCount(),
	}
	if len(series) < minBars {
		v.Reason = fmt.Sprintf("доступно только %d свечей (менее %d)", len(series), minBars)
		return v
	}

	v.Price = series[len(series)-1].Close
	v.PriceChange = models.PriceChangePct(series)

	triggered := make(map[string]bool, len(Registry))
	for _, ind := range Registry {
		if !cfg.Enabled(ind.Name) {
			continue
		}
		res, err := ind.Eval(series, cfg)
		if err != nil {
			logger.Error("ошибка расчёта %s для %s: %v", ind.Name, symbol, err)
			v.Trace = append(v.Trace, fmt.Sprintf("%s=ошибка", ind.Name))
			continue
		}
		if res.Triggered {
			triggered[ind.Name] = true
			v.Triggered++
		}
		if res.Summary != "" {
			v.Trace = append(v.Trace, res.Summary)
		}
	}

	allRequired := true
	for _, name := range cfg.RequiredIndicators {
		if !triggered[name] {
			allRequired = false
			break
		}
	}
	v.IsSignal = allRequired && v.Triggered >= cfg.MinIndicators

	if v.IsSignal {
		switch {
		case v.PriceChange > cfg.PriceChangeThreshold:
			v.Type = models.SignalPump
		case v.PriceChange < -cfg.PriceChangeThreshold:
			v.Type = models.SignalDump
		}
	}
	if !v.IsSignal {
		v.Reason = fmt.Sprintf("сработало %d из %d", v.Triggered, v.Total)
	}
	return v
}
