package service

import (
	"context"
	"fmt"

	"screener_bot/internal/modules/config"
	histsvc "screener_bot/internal/modules/history/service"
	settingsvc "screener_bot/internal/modules/settings/service"
	"screener_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// LastPricer — живые цены для строки "Цена сейчас" в алерте.
type LastPricer interface {
	LastPrice(symbol string) (float64, bool)
}

// Telegram — доставка сигналов и клавиатура управления настройками
// монитора.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	store   *settingsvc.Store
	history *histsvc.Repo // nil — история отключена
	prices  LastPricer
	await   *awaitStore
}

func NewTelegram(cfg *config.Config, store *settingsvc.Store, history *histsvc.Repo, prices LastPricer) (*Telegram, error) {
	b, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:     b,
		chatID:  cfg.Telegram.ChatID,
		store:   store,
		history: history,
		prices:  prices,
		await:   newAwaitStore(),
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbotapi.Message, error) {
	return t.bot.Send(tgbotapi.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbotapi.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (t *Telegram) SendMessage(_ context.Context, message tgbotapi.MessageConfig) (tgbotapi.Message, error) {
	return t.bot.Send(message)
}

// Start — long-polling для messages + callback_query.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				t.handleUpdate(ctx, upd)
			}
		}
	}()
	logger.Info("[TG] бот запущен, чат %d", t.chatID)
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
