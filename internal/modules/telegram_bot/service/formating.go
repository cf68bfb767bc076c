package service

import (
	"fmt"
	"strings"

	"screener_bot/internal/helper"
	"screener_bot/internal/models"
)

func formatStatus(cfg models.MonitorSettings) string {
	return fmt.Sprintf(
		"🚀 Бот активен: %v\n"+
			"Таймфрейм: %s\n"+
			"Порог цены: %.2f%%\n"+
			"Фильтр объёма: %s USDT\n"+
			"Индикаторы: %d/%d включено\n"+
			"Мин. индикаторов: %d\n"+
			"Обязательные: %d/%d\n\n"+
			"Выберите действие:",
		cfg.BotStatus,
		cfg.Timeframe,
		cfg.PriceChangeThreshold,
		helper.HumanNumber(cfg.VolumeFilter),
		cfg.EnabledCount(), len(cfg.IndicatorsEnabled),
		cfg.MinIndicators,
		len(cfg.RequiredIndicators), len(cfg.IndicatorsEnabled),
	)
}

// formatAlert собирает HTML-сообщение сигнала в стиле оригинального
// монитора: заголовок, цена, счётчик индикаторов, трейс, ссылка на
// TradingView.
func formatAlert(v models.Verdict, priceNow float64) string {
	var icon, label string
	switch v.Type {
	case models.SignalPump:
		icon, label = "🚀", "ПАМП"
	case models.SignalDump:
		icon, label = "📉", "ДАМП"
	default:
		icon, label = "⚪", "СИГНАЛ"
	}

	tvSymbol := strings.NewReplacer("/", "", ":", "").Replace(v.Symbol)
	tradingviewURL := fmt.Sprintf("https://www.tradingview.com/chart/?symbol=BYBIT:%s.P", tvSymbol)

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s %s</b> | <b>%.2f%% на момент сигнала</b>\n", icon, label, v.PriceChange)
	fmt.Fprintf(&b, "Монета: <code>%s</code>\n", v.Symbol)
	fmt.Fprintf(&b, "Цена сейчас: <b>%.8f USDT</b>\n", priceNow)
	fmt.Fprintf(&b, "Сработало %d из %d индикаторов\n", v.Triggered, v.Total)

	if len(v.Trace) > 0 {
		b.WriteString("\nИндикаторы (подтверждение):\n")
		for _, line := range v.Trace {
			fmt.Fprintf(&b, "• %s\n", line)
		}
	}

	fmt.Fprintf(&b, "\n<a href=\"%s\">Открыть график на TradingView</a>", tradingviewURL)
	return b.String()
}
