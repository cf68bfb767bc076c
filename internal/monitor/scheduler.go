package monitor

import (
	"context"
	"sync"
	"time"

	"screener_bot/internal/models"
	"screener_bot/pkg/logger"
)

// Scheduler запускает тики диспетчера с фиксированным интервалом.
// Тики взаимоисключающие: если предыдущий ещё идёт, новый запуск ждёт
// не дольше misfire grace и затем просто пропускается (не копится).
// Изменение настроек переустанавливает интервал (Reschedule).
type Scheduler struct {
	mu       sync.Mutex
	d        *Dispatcher
	interval time.Duration
	grace    time.Duration

	// тик в полёте держит гейт; тик живёт на runCtx и не прерывается
	// при переустановке расписания
	gate   chan struct{}
	runCtx context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(d *Dispatcher, settings SettingsProvider) *Scheduler {
	cfg := settings.Snapshot()
	return &Scheduler{
		d:        d,
		interval: cfg.ScanInterval,
		grace:    cfg.MisfireGrace,
		gate:     make(chan struct{}, 1),
	}
}

// Start поднимает цикл планирования.
func (s *Scheduler) Start(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runCtx = parent
	s.startLocked(parent)
}

func (s *Scheduler) startLocked(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done

	// runCtx фиксируется здесь: fire не трогает мьютекс, иначе цикл
	// может навсегда повиснуть на mu, пока Stop под mu ждёт done
	interval, grace, runCtx := s.interval, s.grace, s.runCtx
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		logger.Info("[SCHED] интервал %s, misfire grace %s", interval, grace)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.fire(ctx, runCtx, grace)
			}
		}
	}()
}

// fire пытается занять гейт в пределах grace; не успели — misfire,
// запуск отбрасывается.
func (s *Scheduler) fire(ctx, runCtx context.Context, grace time.Duration) {
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case s.gate <- struct{}{}:
	case <-timer.C:
		logger.Info("[SCHED] misfire: предыдущий тик ещё идёт, запуск пропущен")
		return
	case <-ctx.Done():
		return
	}

	go func() {
		defer func() { <-s.gate }()
		s.d.RunTick(runCtx)
	}()
}

// Reschedule возвращает подписчика для хранилища настроек: отменяет
// запланированные запуски и ставит новый интервал. Текущий тик не
// прерывается.
func (s *Scheduler) Reschedule(parent context.Context) func(models.MonitorSettings) {
	return func(cfg models.MonitorSettings) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cfg.ScanInterval == s.interval && cfg.MisfireGrace == s.grace {
			return
		}
		logger.Info("[SCHED] перезапуск расписания: %s -> %s", s.interval, cfg.ScanInterval)
		s.stopLocked()
		s.interval = cfg.ScanInterval
		s.grace = cfg.MisfireGrace
		s.startLocked(parent)
	}
}

// Stop гасит цикл планирования и ждёт его завершения; тик в полёте
// не прерывается.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}
