package monitor

import (
	"sync"
	"time"
)

// SignalStateTTL — сколько живёт запись о разосланном сигнале.
const SignalStateTTL = time.Hour

type signalEntry struct {
	count  int
	seenAt time.Time
}

// SignalState — дедупликация сигналов по символам: повторный алерт
// уходит только при эскалации (строго больше сработавших индикаторов).
// Живёт в памяти процесса; после рестарта пуст, возможен повторный
// алерт по уже разосланным символам — осознанный cold start.
type SignalState struct {
	mu      sync.Mutex
	entries map[string]signalEntry
}

func NewSignalState() *SignalState {
	return &SignalState{entries: make(map[string]signalEntry)}
}

// ShouldAlert — нет записи или вердикт сильнее предыдущего.
func (s *SignalState) ShouldAlert(symbol string, count int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[symbol]
	return !ok || count > e.count
}

// Record перезаписывает запись новым счётчиком и временем. Вызывается
// только после положительного ShouldAlert.
func (s *SignalState) Record(symbol string, count int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[symbol] = signalEntry{count: count, seenAt: now}
}

// Evict удаляет протухшие записи независимо от того, торгуется ли
// символ сейчас. Возвращает число удалённых.
func (s *SignalState) Evict(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for sym, e := range s.entries {
		if now.Sub(e.seenAt) > ttl {
			delete(s.entries, sym)
			removed++
		}
	}
	return removed
}

func (s *SignalState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
