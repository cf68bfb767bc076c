package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"screener_bot/internal/models"
	"screener_bot/pkg/logger"
)

// SymbolSource — источник списка торгуемых инструментов
// (Bybit: линейные фьючерсы с фильтром по 24h-обороту).
type SymbolSource interface {
	Tickers(ctx context.Context, minTurnover float64) ([]string, error)
}

// UniverseCache — TTL-кэш списка тикеров, общий для всех тиков.
// Обновляется целиком; пустой результат и ошибки не кэшируются,
// следующий тик повторит запрос.
type UniverseCache struct {
	mu        sync.Mutex
	source    SymbolSource
	symbols   []string
	fetchedAt time.Time
}

func NewUniverseCache(source SymbolSource) *UniverseCache {
	return &UniverseCache{source: source}
}

// Get возвращает текущую вселенную. При включённом кэше и свежей
// записи — из кэша; иначе перезапрашивает у источника и применяет
// фильтр исключений.
func (u *UniverseCache) Get(ctx context.Context, now time.Time, cfg models.MonitorSettings) []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	if cfg.CacheTickers && len(u.symbols) > 0 && now.Sub(u.fetchedAt) < cfg.CacheDuration {
		logger.Info("[UNIVERSE] использую кэшированные тикеры (%d)", len(u.symbols))
		return append([]string(nil), u.symbols...)
	}

	raw, err := u.source.Tickers(ctx, cfg.VolumeFilter)
	if err != nil {
		// кэш не трогаем: его возраст остаётся прежним, следующий тик
		// повторит запрос
		logger.Error("[UNIVERSE] ошибка получения тикеров: %v", err)
		return nil
	}

	symbols := exclude(raw, cfg.ExcludedKeywords)
	if len(symbols) == 0 {
		logger.Error("[UNIVERSE] пустой список тикеров после фильтра")
		return nil
	}

	u.symbols = symbols
	u.fetchedAt = now
	logger.Info("[UNIVERSE] получено %d тикеров после фильтра", len(symbols))
	return append([]string(nil), symbols...)
}

// exclude отбрасывает символы с запрещёнными подстроками (без учёта
// регистра).
func exclude(symbols []string, keywords []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		upper := strings.ToUpper(s)
		blocked := false
		for _, k := range keywords {
			if k != "" && strings.Contains(upper, strings.ToUpper(k)) {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, s)
		}
	}
	return out
}
