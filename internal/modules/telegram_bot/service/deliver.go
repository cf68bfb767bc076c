package service

import (
	"context"
	"fmt"

	"screener_bot/internal/models"
	"screener_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Deliver отправляет алерт в настроенный чат. Реализует monitor.Notifier.
func (t *Telegram) Deliver(ctx context.Context, v models.Verdict, series []models.Candle) error {
	if t.chatID == 0 {
		return fmt.Errorf("чат для сигналов не настроен")
	}

	// живая цена из WS-потока, если есть; иначе close последнего бара
	priceNow := v.Price
	if t.prices != nil {
		if px, ok := t.prices.LastPrice(v.Symbol); ok {
			priceNow = px
		}
	}

	msg := tgbotapi.NewMessage(t.chatID, formatAlert(v, priceNow))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("отправка сигнала %s: %w", v.Symbol, err)
	}
	logger.Info("[TG] сигнал отправлен: %s %s, сработало %d из %d",
		v.Symbol, v.Type, v.Triggered, v.Total)
	return nil
}
