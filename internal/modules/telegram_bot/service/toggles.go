package service

import (
	"context"
	"strings"

	"screener_bot/internal/models"
	"screener_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cbToggle   = "toggle_"
	cbRequired = "required_"
)

func (t *Telegram) sendIndicatorMenu(ctx context.Context, chatID int64) {
	cfg := t.store.Snapshot()
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range models.IndicatorNames {
		status := "❌"
		if cfg.Enabled(name) {
			status = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(status+" "+name, cbToggle+name),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Управление индикаторами:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := t.SendMessage(ctx, msg); err != nil {
		logger.Error("[TG] sendIndicatorMenu: %v", err)
	}
}

func (t *Telegram) sendRequiredMenu(ctx context.Context, chatID int64) {
	cfg := t.store.Snapshot()
	required := make(map[string]bool, len(cfg.RequiredIndicators))
	for _, name := range cfg.RequiredIndicators {
		required[name] = true
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range models.IndicatorNames {
		label := name
		if required[name] {
			label = "🔑 " + name
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbRequired+name),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Управление обязательными индикаторами:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := t.SendMessage(ctx, msg); err != nil {
		logger.Error("[TG] sendRequiredMenu: %v", err)
	}
}

func (t *Telegram) handleCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	// останавливаем спиннер на кнопке
	_, _ = t.bot.Request(tgbotapi.NewCallback(cb.ID, ""))

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbToggle):
		name := strings.TrimPrefix(data, cbToggle)
		err := t.store.Update(func(m *models.MonitorSettings) {
			m.IndicatorsEnabled[name] = !m.IndicatorsEnabled[name]
			// выключенный индикатор не может быть обязательным
			if !m.IndicatorsEnabled[name] {
				m.RequiredIndicators = remove(m.RequiredIndicators, name)
			}
		})
		if err != nil {
			_, _ = t.Send(ctx, chatID, "⚠️ Не удалось сохранить: "+err.Error())
			return
		}
		t.sendIndicatorMenu(ctx, chatID)

	case strings.HasPrefix(data, cbRequired):
		name := strings.TrimPrefix(data, cbRequired)
		err := t.store.Update(func(m *models.MonitorSettings) {
			if contains(m.RequiredIndicators, name) {
				m.RequiredIndicators = remove(m.RequiredIndicators, name)
			} else {
				m.RequiredIndicators = append(m.RequiredIndicators, name)
			}
		})
		if err != nil {
			_, _ = t.Send(ctx, chatID, "⚠️ Не удалось сохранить: "+err.Error())
			return
		}
		t.sendRequiredMenu(ctx, chatID)
	}
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, v := range list {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}
