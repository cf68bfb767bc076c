package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// slowSource тянет каждый запрос дольше интервала планировщика,
// чтобы проверить взаимоисключение тиков и misfire drop.
type slowSource struct {
	fakeSource
	delay time.Duration
}

func (s *slowSource) Tickers(ctx context.Context, minTurnover float64) ([]string, error) {
	time.Sleep(s.delay)
	return s.fakeSource.Tickers(ctx, minTurnover)
}

func TestSchedulerNoOverlap(t *testing.T) {
	cfg := scanCfg()
	cfg.CacheTickers = false
	cfg.ScanInterval = 20 * time.Millisecond
	cfg.MisfireGrace = 5 * time.Millisecond

	src := &slowSource{delay: 50 * time.Millisecond}
	src.err = assert.AnError // тик заканчивается сразу после запроса вселенной

	state := NewSignalState()
	universe := NewUniverseCache(src)
	d := NewDispatcher(staticSettings{cfg}, universe, &fakeCandles{}, &fakeNotifier{}, nil, nil, state, nil)

	sched := NewScheduler(d, staticSettings{cfg})
	sched.Start(context.Background())
	time.Sleep(200 * time.Millisecond)
	sched.Stop()
	time.Sleep(60 * time.Millisecond) // дать тику в полёте завершиться

	calls := src.calls.Load()
	// тики шли, но строго по одному; пропущенные запуски не копятся
	assert.GreaterOrEqual(t, calls, int64(1))
	assert.LessOrEqual(t, calls, int64(5))
}

func TestSchedulerRescheduleKeepsTicking(t *testing.T) {
	cfg := scanCfg()
	cfg.CacheTickers = false
	cfg.ScanInterval = 30 * time.Millisecond
	cfg.MisfireGrace = 30 * time.Millisecond

	src := &fakeSource{err: assert.AnError}
	state := NewSignalState()
	universe := NewUniverseCache(src)
	d := NewDispatcher(staticSettings{cfg}, universe, &fakeCandles{}, &fakeNotifier{}, nil, nil, state, nil)

	sched := NewScheduler(d, staticSettings{cfg})
	ctx := context.Background()
	sched.Start(ctx)

	next := cfg.Clone()
	next.ScanInterval = 15 * time.Millisecond
	sched.Reschedule(ctx)(next)

	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	assert.Greater(t, src.calls.Load(), int64(2))
}

func TestSchedulerStopNotBlockedByBusyMutex(t *testing.T) {
	// остановка под мьютексом: запуск, пришедшийся на занятый mu, не
	// должен подвешивать цикл планирования (Stop ждёт done под mu)
	cfg := scanCfg()
	cfg.BotStatus = false // тик мгновенный
	cfg.ScanInterval = 10 * time.Millisecond
	cfg.MisfireGrace = 5 * time.Millisecond

	src := &fakeSource{}
	state := NewSignalState()
	universe := NewUniverseCache(src)
	d := NewDispatcher(staticSettings{cfg}, universe, &fakeCandles{}, &fakeNotifier{}, nil, nil, state, nil)

	sched := NewScheduler(d, staticSettings{cfg})
	sched.Start(context.Background())

	sched.mu.Lock()
	cancel, done := sched.cancel, sched.done
	time.Sleep(30 * time.Millisecond) // несколько запусков приходятся на занятый mu
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		sched.mu.Unlock()
		t.Fatal("цикл планирования завис на мьютексе во время остановки")
	}
	sched.mu.Unlock()
	sched.Stop()
}

func TestSchedulerRescheduleNoChange(t *testing.T) {
	cfg := scanCfg()
	cfg.ScanInterval = time.Hour
	cfg.MisfireGrace = time.Minute

	src := &fakeSource{}
	state := NewSignalState()
	universe := NewUniverseCache(src)
	d := NewDispatcher(staticSettings{cfg}, universe, &fakeCandles{}, &fakeNotifier{}, nil, nil, state, nil)

	sched := NewScheduler(d, staticSettings{cfg})
	sched.Start(context.Background())

	// изменение без смены интервала не перезапускает цикл
	sub := sched.Reschedule(context.Background())
	sub(cfg.Clone())
	sched.Stop()

	assert.Zero(t, src.calls.Load())
}
