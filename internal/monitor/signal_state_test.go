package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalStateMonotonicDedup(t *testing.T) {
	s := NewSignalState()
	now := time.Now()

	// первый сигнал всегда проходит
	assert.True(t, s.ShouldAlert("BTCUSDT", 2))
	s.Record("BTCUSDT", 2, now)

	// та же сила — дубль
	assert.False(t, s.ShouldAlert("BTCUSDT", 2))
	// слабее — тоже дубль
	assert.False(t, s.ShouldAlert("BTCUSDT", 1))
	// эскалация проходит
	assert.True(t, s.ShouldAlert("BTCUSDT", 3))
	s.Record("BTCUSDT", 3, now)
	assert.False(t, s.ShouldAlert("BTCUSDT", 3))

	// другой символ не пересекается
	assert.True(t, s.ShouldAlert("ETHUSDT", 1))
}

func TestSignalStateEvict(t *testing.T) {
	s := NewSignalState()
	base := time.Now()

	s.Record("OLDUSDT", 2, base.Add(-2*time.Hour))
	s.Record("FRESHUSDT", 2, base.Add(-time.Minute))

	removed := s.Evict(base, SignalStateTTL)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	// после чистки старый символ снова может алертить
	assert.True(t, s.ShouldAlert("OLDUSDT", 1))
	assert.False(t, s.ShouldAlert("FRESHUSDT", 2))
}
