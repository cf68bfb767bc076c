package indicator

import (
	"fmt"
	"math"

	"screener_bot/internal/models"
)

// Result — итог одного индикатора по последнему бару.
type Result struct {
	Triggered bool
	Summary   string
}

// Indicator — элемент таблицы анализатора: имя + функция расчёта.
// Все индикаторы считаются единообразно; ошибка расчёта не роняет
// анализ, индикатор просто не срабатывает.
type Indicator struct {
	Name string
	Eval func(series []models.Candle, cfg models.MonitorSettings) (Result, error)
}

// Registry — каталог в фиксированном порядке вывода.
var Registry = []Indicator{
	{models.IndPriceChange, evalPriceChange},
	{models.IndRSI, evalRSI},
	{models.IndMACD, evalMACD},
	{models.IndVolumeSurge, evalVolumeSurge},
	{models.IndBollinger, evalBollinger},
	{models.IndADX, evalADX},
	{models.IndDivergence, evalDivergence},
	{models.IndCandlePatterns, evalCandlePatterns},
	{models.IndVolumePreSurge, evalVolumePreSurge},
	{models.IndEMACrossover, evalEMACrossover},
	{models.IndOBV, evalOBV},
}

func evalPriceChange(series []models.Candle, cfg models.MonitorSettings) (Result, error) {
	pc := models.PriceChangePct(series)
	return Result{
		Triggered: math.Abs(pc) > cfg.PriceChangeThreshold,
		Summary:   fmt.Sprintf("Δцены=%+.2f%%", pc),
	}, nil
}
