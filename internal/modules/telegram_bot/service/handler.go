package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"screener_bot/internal/helper"
	"screener_bot/internal/models"
	"screener_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопки главного меню.
const (
	btnBotOff    = "📴 Выключить бота"
	btnBotOn     = "📡 Включить бота"
	btnTimeframe = "📊 Изменить таймфрейм"
	btnThreshold = "📈 Изменить порог цены"
	btnVolume    = "💹 Изменить фильтр объёма"
	btnReset     = "🛠️ Сбросить настройки"
	btnIndicator = "⚙️ Управление индикаторами"
	btnRequired  = "🔑 Управление обязательными"
	btnMinInd    = "📏 Мин. индикаторов"
)

// Ключи ожидаемого ввода.
const (
	awaitTimeframe = "timeframe"
	awaitThreshold = "threshold"
	awaitVolume    = "volume"
	awaitMinInd    = "min_indicators"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if msg := update.Message; msg != nil {
		chatID := msg.Chat.ID

		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				t.handleStart(ctx, chatID)
			case "test":
				_, _ = t.Send(ctx, chatID, "✅ Тест: Бот работает!")
			case "history":
				t.handleHistory(ctx, chatID)
			}
			return
		}

		t.handleTextMessage(ctx, msg)
		return
	}

	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		t.handleCallback(ctx, cb.Message.Chat.ID, cb)
		return
	}
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) {
	replyKb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBotOff),
			tgbotapi.NewKeyboardButton(btnBotOn),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTimeframe),
			tgbotapi.NewKeyboardButton(btnThreshold),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnVolume),
			tgbotapi.NewKeyboardButton(btnReset),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnIndicator),
			tgbotapi.NewKeyboardButton(btnRequired),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMinInd),
		),
	)

	msg := tgbotapi.NewMessage(chatID, formatStatus(t.store.Snapshot()))
	msg.ReplyMarkup = replyKb
	if _, err := t.SendMessage(ctx, msg); err != nil {
		logger.Error("[TG] handleStart: %v", err)
	}
}

func (t *Telegram) handleTextMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch text {
	case btnBotOn:
		t.setBotStatus(ctx, chatID, true)
		return
	case btnBotOff:
		t.setBotStatus(ctx, chatID, false)
		return
	case btnTimeframe:
		t.setAwait(chatID, awaitTimeframe)
		_, _ = t.Send(ctx, chatID, "Отправь таймфрейм: 1m, 5m, 15m или 1h")
		return
	case btnThreshold:
		t.setAwait(chatID, awaitThreshold)
		_, _ = t.Send(ctx, chatID, "Отправь порог изменения цены в % (например 0.5)")
		return
	case btnVolume:
		t.setAwait(chatID, awaitVolume)
		_, _ = t.Send(ctx, chatID, "Отправь минимальный 24ч-оборот в USDT (например 5M или 700K)")
		return
	case btnMinInd:
		t.setAwait(chatID, awaitMinInd)
		_, _ = t.Send(ctx, chatID, "Отправь минимальное число сработавших индикаторов")
		return
	case btnReset:
		if err := t.store.Reset(); err != nil {
			_, _ = t.Send(ctx, chatID, "⚠️ Не удалось сбросить: "+err.Error())
			return
		}
		_, _ = t.Send(ctx, chatID, "🛠️ Настройки сброшены к дефолтным")
		t.handleStart(ctx, chatID)
		return
	case btnIndicator:
		t.sendIndicatorMenu(ctx, chatID)
		return
	case btnRequired:
		t.sendRequiredMenu(ctx, chatID)
		return
	}

	// не кнопка — возможно, ждём значение
	if key := t.popAwait(chatID); key != "" {
		t.handleAwaitedInput(ctx, chatID, key, text)
	}
}

func (t *Telegram) setBotStatus(ctx context.Context, chatID int64, on bool) {
	err := t.store.Update(func(m *models.MonitorSettings) {
		m.BotStatus = on
	})
	if err != nil {
		_, _ = t.Send(ctx, chatID, "⚠️ Не удалось сохранить: "+err.Error())
		return
	}
	if on {
		_, _ = t.Send(ctx, chatID, "📡 Мониторинг включен")
	} else {
		_, _ = t.Send(ctx, chatID, "📴 Мониторинг выключен")
	}
}

func (t *Telegram) handleAwaitedInput(ctx context.Context, chatID int64, key, text string) {
	var err error
	switch key {
	case awaitTimeframe:
		tf := models.Timeframe(helper.NormTF(text))
		err = t.store.Update(func(m *models.MonitorSettings) { m.Timeframe = tf })
	case awaitThreshold:
		var v float64
		v, err = strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err == nil && v <= 0 {
			_, _ = t.Send(ctx, chatID, "Порог должен быть больше нуля")
			return
		}
		if err == nil {
			err = t.store.Update(func(m *models.MonitorSettings) { m.PriceChangeThreshold = v })
		}
	case awaitVolume:
		var v float64
		v, err = helper.ParseHumanNumber(text)
		if err == nil {
			err = t.store.Update(func(m *models.MonitorSettings) { m.VolumeFilter = v })
		}
	case awaitMinInd:
		var n int
		n, err = strconv.Atoi(text)
		if err == nil {
			err = t.store.Update(func(m *models.MonitorSettings) { m.MinIndicators = n })
		}
	default:
		return
	}

	if err != nil {
		_, _ = t.Send(ctx, chatID, "⚠️ Не принято: "+err.Error())
		return
	}
	_, _ = t.Send(ctx, chatID, "✅ Сохранено")
	t.handleStart(ctx, chatID)
}

func (t *Telegram) handleHistory(ctx context.Context, chatID int64) {
	if t.history == nil {
		_, _ = t.Send(ctx, chatID, "История сигналов отключена (нет postgres)")
		return
	}
	records, err := t.history.Last(ctx, 10)
	if err != nil {
		logger.Error("[TG] history: %v", err)
		_, _ = t.Send(ctx, chatID, "⚠️ Не удалось получить историю")
		return
	}
	if len(records) == 0 {
		_, _ = t.Send(ctx, chatID, "📭 История пуста")
		return
	}

	var b strings.Builder
	b.WriteString("📜 Последние сигналы:\n")
	for _, r := range records {
		icon := "🚀"
		if r.Type == models.SignalDump {
			icon = "📉"
		}
		b.WriteString(icon + " " + r.Symbol + " " +
			strconv.Itoa(r.Triggered) + "/" + strconv.Itoa(r.Total) + " " +
			r.CreatedAt.Format(time.DateTime) + "\n")
	}
	_, _ = t.Send(ctx, chatID, b.String())
}
