package monitor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener_bot/internal/models"
)

// tickSeries — монотонный рост 1%/бар, достаточный для RSI в
// перекупленности и срабатывания порога цены.
func tickSeries(n int) []models.Candle {
	out := make([]models.Candle, n)
	price := 100.0
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		open := price
		price *= 1.01
		out[i] = models.Candle{
			Ts:     ts.Add(time.Duration(i) * time.Minute),
			Open:   open,
			High:   price * 1.001,
			Low:    open * 0.999,
			Close:  price,
			Volume: 1000,
		}
	}
	return out
}

type staticSettings struct {
	cfg models.MonitorSettings
}

func (s staticSettings) Snapshot() models.MonitorSettings { return s.cfg.Clone() }

// fakeCandles отдаёт одну и ту же серию на все символы; умеет
// имитировать сбой одного символа и считает одновременные вызовы.
type fakeCandles struct {
	series   []models.Candle
	failFor  string
	delay    time.Duration
	inflight atomic.Int64
	maxSeen  atomic.Int64
	calls    atomic.Int64
}

func (f *fakeCandles) Klines(_ context.Context, symbol string, _ models.Timeframe, _ int) ([]models.Candle, error) {
	cur := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if cur <= seen || f.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if symbol == f.failFor {
		return nil, assert.AnError
	}
	return append([]models.Candle(nil), f.series...), nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	verdicts []models.Verdict
	err      error
}

func (f *fakeNotifier) Deliver(_ context.Context, v models.Verdict, _ []models.Candle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.verdicts = append(f.verdicts, v)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.verdicts)
}

func scanCfg() models.MonitorSettings {
	cfg := models.DefaultMonitorSettings()
	cfg.BotStatus = true
	cfg.MinIndicators = 2
	cfg.PriceChangeThreshold = 0.5
	cfg.IndicatorsEnabled = map[string]bool{
		models.IndRSI:         true,
		models.IndPriceChange: true,
	}
	cfg.RequiredIndicators = nil
	return cfg
}

func newTestDispatcher(cfg models.MonitorSettings, symbols []string, candles *fakeCandles, notifier *fakeNotifier) (*Dispatcher, *SignalState) {
	state := NewSignalState()
	universe := NewUniverseCache(&fakeSource{symbols: symbols})
	d := NewDispatcher(staticSettings{cfg}, universe, candles, notifier, nil, nil, state, nil)
	return d, state
}

func TestRunTickDeliversSignals(t *testing.T) {
	cfg := scanCfg()
	candles := &fakeCandles{series: tickSeries(60)}
	notifier := &fakeNotifier{}
	d, _ := newTestDispatcher(cfg, []string{"BTCUSDT", "ETHUSDT"}, candles, notifier)

	d.RunTick(context.Background())

	require.Equal(t, 2, notifier.count())
	for _, v := range notifier.verdicts {
		assert.True(t, v.IsSignal)
		assert.Equal(t, models.SignalPump, v.Type)
	}
}

func TestRunTickDisabled(t *testing.T) {
	cfg := scanCfg()
	cfg.BotStatus = false
	candles := &fakeCandles{series: tickSeries(60)}
	notifier := &fakeNotifier{}
	d, _ := newTestDispatcher(cfg, []string{"BTCUSDT"}, candles, notifier)

	d.RunTick(context.Background())

	assert.Zero(t, candles.calls.Load())
	assert.Zero(t, notifier.count())
}

func TestRunTickConcurrencyBound(t *testing.T) {
	cfg := scanCfg()
	cfg.Concurrency = 3

	symbols := make([]string, 20)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("SYM%dUSDT", i)
	}
	candles := &fakeCandles{series: tickSeries(60), delay: 5 * time.Millisecond}
	notifier := &fakeNotifier{}
	d, _ := newTestDispatcher(cfg, symbols, candles, notifier)

	d.RunTick(context.Background())

	assert.EqualValues(t, 20, candles.calls.Load())
	assert.LessOrEqual(t, candles.maxSeen.Load(), int64(3))
}

func TestRunTickIsolatesSymbolErrors(t *testing.T) {
	cfg := scanCfg()
	candles := &fakeCandles{series: tickSeries(60), failFor: "BADUSDT"}
	notifier := &fakeNotifier{}
	d, _ := newTestDispatcher(cfg, []string{"BTCUSDT", "BADUSDT", "ETHUSDT"}, candles, notifier)

	d.RunTick(context.Background())

	// сбой одного символа не мешает остальным
	assert.Equal(t, 2, notifier.count())
}

func TestRunTickDedupAcrossTicks(t *testing.T) {
	cfg := scanCfg()
	candles := &fakeCandles{series: tickSeries(60)}
	notifier := &fakeNotifier{}
	d, _ := newTestDispatcher(cfg, []string{"BTCUSDT"}, candles, notifier)

	d.RunTick(context.Background())
	require.Equal(t, 1, notifier.count())

	// те же данные — сила сигнала не выросла, повторной отправки нет
	d.RunTick(context.Background())
	assert.Equal(t, 1, notifier.count())
}

func TestRunTickFailedDeliveryStillRecorded(t *testing.T) {
	cfg := scanCfg()
	candles := &fakeCandles{series: tickSeries(60)}
	notifier := &fakeNotifier{err: assert.AnError}
	d, state := newTestDispatcher(cfg, []string{"BTCUSDT"}, candles, notifier)

	d.RunTick(context.Background())

	// доставка упала, но состояние записано: следующий тик не
	// устраивает шторм повторов
	assert.Equal(t, 1, state.Len())
	assert.False(t, state.ShouldAlert("BTCUSDT", 2))
}

func TestProcessSymbolCounters(t *testing.T) {
	// сигнал и отправка считаются раздельно: подавленный дедупликацией
	// или бестиповый вердикт остаётся сигналом, но не алертом
	cfg := scanCfg()
	candles := &fakeCandles{series: tickSeries(60)}
	notifier := &fakeNotifier{}
	d, _ := newTestDispatcher(cfg, []string{"BTCUSDT"}, candles, notifier)

	signal, delivered := d.processSymbol(context.Background(), "BTCUSDT", cfg)
	assert.True(t, signal)
	assert.True(t, delivered)

	// повтор той же силы: сигнал есть, отправки нет
	signal, delivered = d.processSymbol(context.Background(), "BTCUSDT", cfg)
	assert.True(t, signal)
	assert.False(t, delivered)

	// сбой источника: ни сигнала, ни отправки
	candles.failFor = "BTCUSDT"
	signal, delivered = d.processSymbol(context.Background(), "BTCUSDT", cfg)
	assert.False(t, signal)
	assert.False(t, delivered)
}

func TestRunTickSignalWithoutTypeNotDelivered(t *testing.T) {
	// порог цены заведомо выше движения: is_signal без типа
	cfg := scanCfg()
	cfg.MinIndicators = 1
	cfg.PriceChangeThreshold = 50
	cfg.IndicatorsEnabled = map[string]bool{models.IndRSI: true}

	candles := &fakeCandles{series: tickSeries(60)}
	notifier := &fakeNotifier{}
	d, state := newTestDispatcher(cfg, []string{"BTCUSDT"}, candles, notifier)

	d.RunTick(context.Background())

	assert.Zero(t, notifier.count())
	// но в дедупликации такой вердикт участвует
	assert.Equal(t, 1, state.Len())
}
