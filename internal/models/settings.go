package models

import "time"

// Имена индикаторов — фиксированный каталог анализатора.
const (
	IndPriceChange    = "price_change"
	IndRSI            = "rsi"
	IndMACD           = "macd"
	IndVolumeSurge    = "volume_surge"
	IndBollinger      = "bollinger"
	IndADX            = "adx"
	IndDivergence     = "rsi_macd_divergence"
	IndCandlePatterns = "candle_patterns"
	IndVolumePreSurge = "volume_pre_surge"
	IndEMACrossover   = "ema_crossover"
	IndOBV            = "obv"
)

// IndicatorNames — каталог в порядке вычисления/вывода.
var IndicatorNames = []string{
	IndPriceChange,
	IndRSI,
	IndMACD,
	IndVolumeSurge,
	IndBollinger,
	IndADX,
	IndDivergence,
	IndCandlePatterns,
	IndVolumePreSurge,
	IndEMACrossover,
	IndOBV,
}

// MonitorSettings — снапшот настроек мониторинга. Каждый тик работает
// со своей копией, поэтому структура передаётся по значению; Clone
// отвязывает map/slice от хранилища.
type MonitorSettings struct {
	BotStatus            bool
	Timeframe            Timeframe
	PriceChangeThreshold float64 // %
	VolumeFilter         float64 // USDT, 24h turnover
	MinIndicators        int
	RequiredIndicators   []string
	IndicatorsEnabled    map[string]bool
	CacheTickers         bool
	CacheDuration        time.Duration
	ScanInterval         time.Duration
	MisfireGrace         time.Duration
	ExcludedKeywords     []string
	CandleLimit          int
	Concurrency          int
}

// DefaultMonitorSettings — дефолты как у оригинального монитора.
func DefaultMonitorSettings() MonitorSettings {
	enabled := make(map[string]bool, len(IndicatorNames))
	for _, name := range IndicatorNames {
		enabled[name] = true
	}
	return MonitorSettings{
		BotStatus:            false,
		Timeframe:            Timeframe1m,
		PriceChangeThreshold: 0.5,
		VolumeFilter:         5_000_000,
		MinIndicators:        1,
		RequiredIndicators:   []string{},
		IndicatorsEnabled:    enabled,
		CacheTickers:         true,
		CacheDuration:        5 * time.Minute,
		ScanInterval:         60 * time.Second,
		MisfireGrace:         30 * time.Second,
		ExcludedKeywords:     []string{"ALPHA", "WEB3", "AI", "BOT"},
		CandleLimit:          200,
		Concurrency:          25,
	}
}

// Clone — глубокая копия (map и срезы не разделяются с оригиналом).
func (s MonitorSettings) Clone() MonitorSettings {
	out := s
	out.RequiredIndicators = append([]string(nil), s.RequiredIndicators...)
	out.ExcludedKeywords = append([]string(nil), s.ExcludedKeywords...)
	out.IndicatorsEnabled = make(map[string]bool, len(s.IndicatorsEnabled))
	for k, v := range s.IndicatorsEnabled {
		out.IndicatorsEnabled[k] = v
	}
	return out
}

// EnabledCount — сколько индикаторов включено.
func (s MonitorSettings) EnabledCount() int {
	n := 0
	for _, on := range s.IndicatorsEnabled {
		if on {
			n++
		}
	}
	return n
}

// Enabled — включён ли индикатор (неизвестное имя считается выключенным).
func (s MonitorSettings) Enabled(name string) bool {
	return s.IndicatorsEnabled[name]
}
