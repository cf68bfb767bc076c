package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener_bot/internal/models"
)

func tmpStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	s, err := NewStore(path)
	require.NoError(t, err)
	return s, path
}

func TestNewStoreCreatesDefaults(t *testing.T) {
	s, path := tmpStore(t)

	_, err := os.Stat(path)
	assert.NoError(t, err, "файл настроек должен быть создан")

	cfg := s.Snapshot()
	def := models.DefaultMonitorSettings()
	assert.Equal(t, def.Timeframe, cfg.Timeframe)
	assert.Equal(t, def.PriceChangeThreshold, cfg.PriceChangeThreshold)
	assert.Equal(t, def.Concurrency, cfg.Concurrency)
	assert.Equal(t, def.ExcludedKeywords, cfg.ExcludedKeywords)
}

func TestUpdatePersists(t *testing.T) {
	s, path := tmpStore(t)

	err := s.Update(func(m *models.MonitorSettings) {
		m.BotStatus = true
		m.Timeframe = models.Timeframe5m
		m.PriceChangeThreshold = 1.5
	})
	require.NoError(t, err)

	// новое чтение файла видит изменения
	reopened, err := NewStore(path)
	require.NoError(t, err)
	cfg := reopened.Snapshot()
	assert.True(t, cfg.BotStatus)
	assert.Equal(t, models.Timeframe5m, cfg.Timeframe)
	assert.Equal(t, 1.5, cfg.PriceChangeThreshold)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	s, _ := tmpStore(t)
	before := s.Snapshot()

	err := s.Update(func(m *models.MonitorSettings) {
		m.MinIndicators = 0
	})
	require.Error(t, err)

	// неудачная мутация не меняет текущие настройки
	assert.Equal(t, before.MinIndicators, s.Snapshot().MinIndicators)

	err = s.Update(func(m *models.MonitorSettings) {
		m.RequiredIndicators = []string{"неизвестный"}
	})
	assert.Error(t, err)

	err = s.Update(func(m *models.MonitorSettings) {
		m.Timeframe = "3m"
	})
	assert.Error(t, err)
}

func TestSubscribeNotified(t *testing.T) {
	s, _ := tmpStore(t)

	var got []models.MonitorSettings
	s.Subscribe(func(m models.MonitorSettings) {
		got = append(got, m)
	})

	require.NoError(t, s.Update(func(m *models.MonitorSettings) {
		m.ScanInterval = 90 * time.Second
	}))

	require.Len(t, got, 1)
	assert.Equal(t, 90*time.Second, got[0].ScanInterval)
}

func TestSubscribeNotifiesAll(t *testing.T) {
	s, _ := tmpStore(t)

	var first, second int
	s.Subscribe(func(models.MonitorSettings) { first++ })
	s.Subscribe(func(models.MonitorSettings) { second++ })

	require.NoError(t, s.Update(func(m *models.MonitorSettings) {
		m.BotStatus = true
	}))

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestReopenKeepsMutationsOverDefaults(t *testing.T) {
	s, path := tmpStore(t)

	// мутации, отличные от всех дефолтов, включая map и срез
	require.NoError(t, s.Update(func(m *models.MonitorSettings) {
		m.IndicatorsEnabled[models.IndOBV] = false
		m.RequiredIndicators = []string{models.IndRSI}
		m.MinIndicators = 3
		m.ExcludedKeywords = []string{"MEME"}
	}))

	reopened, err := NewStore(path)
	require.NoError(t, err)
	cfg := reopened.Snapshot()

	assert.False(t, cfg.IndicatorsEnabled[models.IndOBV])
	assert.Equal(t, []string{models.IndRSI}, cfg.RequiredIndicators)
	assert.Equal(t, 3, cfg.MinIndicators)
	assert.Equal(t, []string{"MEME"}, cfg.ExcludedKeywords)
}

func TestSnapshotIsolated(t *testing.T) {
	s, _ := tmpStore(t)

	cfg := s.Snapshot()
	cfg.IndicatorsEnabled[models.IndRSI] = false
	cfg.ExcludedKeywords = append(cfg.ExcludedKeywords, "XXX")

	fresh := s.Snapshot()
	assert.True(t, fresh.IndicatorsEnabled[models.IndRSI])
	assert.NotContains(t, fresh.ExcludedKeywords, "XXX")
}

func TestReset(t *testing.T) {
	s, _ := tmpStore(t)

	require.NoError(t, s.Update(func(m *models.MonitorSettings) {
		m.BotStatus = true
		m.MinIndicators = 4
	}))
	require.NoError(t, s.Reset())

	cfg := s.Snapshot()
	def := models.DefaultMonitorSettings()
	assert.Equal(t, def.BotStatus, cfg.BotStatus)
	assert.Equal(t, def.MinIndicators, cfg.MinIndicators)
}
