package service

import (
	"fmt"
	"os"
	"sync"
	"time"

	"screener_bot/internal/helper"
	"screener_bot/internal/models"
	"screener_bot/pkg/logger"

	"github.com/spf13/viper"
)

// Ключи файла настроек монитора.
const (
	keyBotStatus      = "bot_status"
	keyTimeframe      = "timeframe"
	keyPriceThreshold = "price_change_threshold"
	keyVolumeFilter   = "volume_filter"
	keyMinIndicators  = "min_indicators"
	keyRequired       = "required_indicators"
	keyEnabled        = "indicators_enabled"
	keyCacheTickers   = "cache_tickers"
	keyCacheDuration  = "cache_duration" // секунды
	keyScanInterval   = "scan_interval"  // секунды
	keyMisfireGrace   = "misfire_grace"  // секунды
	keyExcluded       = "excluded_keywords"
	keyCandleLimit    = "candle_limit"
	keyConcurrency    = "concurrency"
)

// Store — мутабельные настройки мониторинга поверх viper-файла.
// Телеграм-клавиатура мутирует их через Update; каждый тик монитора
// берёт консистентный Snapshot.
type Store struct {
	mu      sync.Mutex
	v       *viper.Viper
	current models.MonitorSettings
	subs    []func(models.MonitorSettings)
}

// NewStore читает файл настроек (создаёт с дефолтами, если его нет).
// Битый файл — фатальная ошибка старта.
func NewStore(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// дефолты только через SetDefault: Set перекрывает значения из
	// файла и сохранённые настройки перестают переживать рестарт
	setDefaults(v, models.DefaultMonitorSettings())

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			logger.Info("[SETTINGS] файл %s не найден, создаю с дефолтами", path)
			if err := v.WriteConfigAs(path); err != nil {
				return nil, fmt.Errorf("не удалось создать файл настроек %s: %w", path, err)
			}
		} else {
			return nil, fmt.Errorf("не удалось прочитать настройки %s: %w", path, err)
		}
	}

	s := &Store{v: v}
	cur, err := load(v)
	if err != nil {
		return nil, err
	}
	s.current = cur
	return s, nil
}

// Snapshot — копия настроек, не связанная с хранилищем.
func (s *Store) Snapshot() models.MonitorSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Update применяет мутацию, сохраняет файл и оповещает подписчиков.
func (s *Store) Update(mut func(*models.MonitorSettings)) error {
	s.mu.Lock()
	next := s.current.Clone()
	mut(&next)
	if err := validate(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	setAll(s.v, next)
	if err := s.v.WriteConfig(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("не удалось сохранить настройки: %w", err)
	}
	s.current = next
	subs := make([]func(models.MonitorSettings), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.Clone())
	}
	return nil
}

// Reset возвращает дефолты (кнопка "Сбросить настройки").
func (s *Store) Reset() error {
	return s.Update(func(m *models.MonitorSettings) {
		*m = models.DefaultMonitorSettings()
	})
}

// Subscribe — колбэк на каждое изменение настроек (решедул, ресабскрайб).
func (s *Store) Subscribe(fn func(models.MonitorSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func setDefaults(v *viper.Viper, m models.MonitorSettings) {
	v.SetDefault(keyBotStatus, m.BotStatus)
	v.SetDefault(keyTimeframe, string(m.Timeframe))
	v.SetDefault(keyPriceThreshold, m.PriceChangeThreshold)
	v.SetDefault(keyVolumeFilter, m.VolumeFilter)
	v.SetDefault(keyMinIndicators, m.MinIndicators)
	v.SetDefault(keyRequired, m.RequiredIndicators)
	v.SetDefault(keyEnabled, m.IndicatorsEnabled)
	v.SetDefault(keyCacheTickers, m.CacheTickers)
	v.SetDefault(keyCacheDuration, int(m.CacheDuration/time.Second))
	v.SetDefault(keyScanInterval, int(m.ScanInterval/time.Second))
	v.SetDefault(keyMisfireGrace, int(m.MisfireGrace/time.Second))
	v.SetDefault(keyExcluded, m.ExcludedKeywords)
	v.SetDefault(keyCandleLimit, m.CandleLimit)
	v.SetDefault(keyConcurrency, m.Concurrency)
}

func setAll(v *viper.Viper, m models.MonitorSettings) {
	v.Set(keyBotStatus, m.BotStatus)
	v.Set(keyTimeframe, string(m.Timeframe))
	v.Set(keyPriceThreshold, m.PriceChangeThreshold)
	v.Set(keyVolumeFilter, m.VolumeFilter)
	v.Set(keyMinIndicators, m.MinIndicators)
	v.Set(keyRequired, m.RequiredIndicators)
	v.Set(keyEnabled, m.IndicatorsEnabled)
	v.Set(keyCacheTickers, m.CacheTickers)
	v.Set(keyCacheDuration, int(m.CacheDuration/time.Second))
	v.Set(keyScanInterval, int(m.ScanInterval/time.Second))
	v.Set(keyMisfireGrace, int(m.MisfireGrace/time.Second))
	v.Set(keyExcluded, m.ExcludedKeywords)
	v.Set(keyCandleLimit, m.CandleLimit)
	v.Set(keyConcurrency, m.Concurrency)
}

func load(v *viper.Viper) (models.MonitorSettings, error) {
	m := models.MonitorSettings{
		BotStatus:            v.GetBool(keyBotStatus),
		Timeframe:            models.Timeframe(helper.NormTF(v.GetString(keyTimeframe))),
		PriceChangeThreshold: v.GetFloat64(keyPriceThreshold),
		VolumeFilter:         v.GetFloat64(keyVolumeFilter),
		MinIndicators:        v.GetInt(keyMinIndicators),
		RequiredIndicators:   v.GetStringSlice(keyRequired),
		IndicatorsEnabled:    map[string]bool{},
		CacheTickers:         v.GetBool(keyCacheTickers),
		CacheDuration:        time.Duration(v.GetInt(keyCacheDuration)) * time.Second,
		ScanInterval:         time.Duration(v.GetInt(keyScanInterval)) * time.Second,
		MisfireGrace:         time.Duration(v.GetInt(keyMisfireGrace)) * time.Second,
		ExcludedKeywords:     v.GetStringSlice(keyExcluded),
		CandleLimit:          v.GetInt(keyCandleLimit),
		Concurrency:          v.GetInt(keyConcurrency),
	}
	enabled := v.GetStringMap(keyEnabled)
	for _, name := range models.IndicatorNames {
		if raw, ok := enabled[name]; ok {
			b, _ := raw.(bool)
			m.IndicatorsEnabled[name] = b
		} else {
			m.IndicatorsEnabled[name] = true
		}
	}
	if err := validate(&m); err != nil {
		return models.MonitorSettings{}, err
	}
	return m, nil
}

func validate(m *models.MonitorSettings) error {
	switch m.Timeframe {
	case models.Timeframe1m, models.Timeframe5m, models.Timeframe15m, models.Timeframe1h:
	default:
		return fmt.Errorf("неизвестный таймфрейм %q", m.Timeframe)
	}
	if m.MinIndicators < 1 {
		return fmt.Errorf("min_indicators должен быть >= 1")
	}
	if m.ScanInterval <= 0 || m.CacheDuration <= 0 {
		return fmt.Errorf("интервалы должны быть положительными")
	}
	if m.Concurrency < 1 {
		return fmt.Errorf("concurrency должен быть >= 1")
	}
	for _, name := range m.RequiredIndicators {
		if !m.IndicatorsEnabled[name] {
			return fmt.Errorf("обязательный индикатор %q выключен или неизвестен", name)
		}
	}
	return nil
}
