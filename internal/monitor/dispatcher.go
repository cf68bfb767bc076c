package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"screener_bot/internal/indicator"
	"screener_bot/internal/models"
	"screener_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// Узкие контракты коллабораторов — реализации живут в своих модулях.

// CandleSource отдаёт свечи в порядке времени.
type CandleSource interface {
	Klines(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error)
}

// Notifier доставляет алерт получателю (Telegram).
type Notifier interface {
	Deliver(ctx context.Context, verdict models.Verdict, series []models.Candle) error
}

// HistoryRecorder пишет отправленный сигнал в историю. Может быть nil —
// тогда история отключена.
type HistoryRecorder interface {
	Record(ctx context.Context, verdict models.Verdict) error
}

// PriceFeed — живые цены для обогащения алертов; подписка обновляется
// на вселенную каждого тика. Может быть nil.
type PriceFeed interface {
	Subscribe(symbols []string)
}

// SettingsProvider отдаёт консистентный снапшот настроек на тик.
type SettingsProvider interface {
	Snapshot() models.MonitorSettings
}

// TickObserver получает отметку о завершении тика (health). Может быть nil.
type TickObserver interface {
	TouchTick(t time.Time)
}

// Dispatcher — один тик сканирования: вселенная, чистка состояния,
// ограниченный фан-аут по символам, доставка алертов.
type Dispatcher struct {
	settings SettingsProvider
	universe *UniverseCache
	candles  CandleSource
	notifier Notifier
	history  HistoryRecorder
	prices   PriceFeed
	state    *SignalState
	observer TickObserver
}

func NewDispatcher(
	settings SettingsProvider,
	universe *UniverseCache,
	candles CandleSource,
	notifier Notifier,
	history HistoryRecorder,
	prices PriceFeed,
	state *SignalState,
	observer TickObserver,
) *Dispatcher {
	return &Dispatcher{
		settings: settings,
		universe: universe,
		candles:  candles,
		notifier: notifier,
		history:  history,
		prices:   prices,
		state:    state,
		observer: observer,
	}
}

// RunTick выполняет один проход по вселенной. Никогда не паникует и не
// возвращает ошибку: все сбои по символам изолированы, частичный отказ —
// штатный режим.
func (d *Dispatcher) RunTick(ctx context.Context) {
	cfg := d.settings.Snapshot()
	if !cfg.BotStatus {
		logger.Info("[SCAN] мониторинг отключен по конфигу")
		return
	}

	span := opentracing.GlobalTracer().StartSpan("monitor.tick")
	defer span.Finish()

	start := time.Now()
	symbols := d.universe.Get(ctx, start, cfg)
	if len(symbols) == 0 {
		logger.Info("[SCAN] тикеры не найдены, проверка остановлена")
		return
	}
	if d.prices != nil {
		d.prices.Subscribe(symbols)
	}

	removed := d.state.Evict(start, SignalStateTTL)
	logger.Debug("[SCAN] очищено %d старых сигналов", removed)

	var processed, signals, alerts int64

	// допуск не более cfg.Concurrency одновременных оценок
	gate := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			gate <- struct{}{}
			defer func() { <-gate }()

			signal, delivered := d.processSymbol(ctx, symbol, cfg)
			if signal {
				atomic.AddInt64(&signals, 1)
			}
			if delivered {
				atomic.AddInt64(&alerts, 1)
			}
			atomic.AddInt64(&processed, 1)
		}(symbol)
	}
	wg.Wait()

	elapsed := time.Since(start)
	span.SetTag("symbols", atomic.LoadInt64(&processed))
	span.SetTag("signals", atomic.LoadInt64(&signals))
	span.SetTag("alerts", atomic.LoadInt64(&alerts))
	logger.Info("[SCAN] обработано %d тикеров, сигналов: %d, отправлено: %d, время: %.2f сек",
		atomic.LoadInt64(&processed), atomic.LoadInt64(&signals),
		atomic.LoadInt64(&alerts), elapsed.Seconds())
	if d.observer != nil {
		d.observer.TouchTick(time.Now())
	}
}

// processSymbol — fetch → evaluate → decide → notify → record.
// Возвращает (найден сигнал, алерт отправлен).
func (d *Dispatcher) processSymbol(ctx context.Context, symbol string, cfg models.MonitorSettings) (bool, bool) {
	series, err := d.candles.Klines(ctx, symbol, cfg.Timeframe, cfg.CandleLimit)
	if err != nil {
		logger.Error("[SCAN] %s: ошибка получения свечей: %v", symbol, err)
		return false, false
	}
	if len(series) == 0 {
		logger.Debug("[SCAN] %s: пустая серия свечей", symbol)
		return false, false
	}

	verdict := indicator.Evaluate(symbol, series, cfg)
	if !verdict.IsSignal {
		logger.Debug("[SCAN] %s: нет сигнала (%s)", symbol, verdict.Reason)
		return false, false
	}

	if !d.state.ShouldAlert(symbol, verdict.Triggered) {
		logger.Debug("[SCAN] %s: сигнал уже разослан на этой силе", symbol)
		return true, false
	}

	delivered := false
	// сигнал с типом none (импульс без движения цены) не доставляется,
	// но учитывается в дедупликации
	if verdict.Actionable() {
		if err := d.notifier.Deliver(ctx, verdict, series); err != nil {
			logger.Error("[SCAN] %s: ошибка отправки сигнала: %v", symbol, err)
		} else {
			delivered = true
		}
		if d.history != nil {
			if err := d.history.Record(ctx, verdict); err != nil {
				logger.Error("[SCAN] %s: ошибка записи истории: %v", symbol, err)
			}
		}
	}
	// состояние фиксируем после попытки доставки, удачной или нет —
	// иначе каждый тик будет поднимать шторм повторных отправок
	d.state.Record(symbol, verdict.Triggered, time.Now())
	return true, delivered
}
