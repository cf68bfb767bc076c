package models

import "time"

// SignalType — направление сигнала.
type SignalType string

const (
	SignalNone SignalType = ""
	SignalPump SignalType = "pump"
	SignalDump SignalType = "dump"
)

// Verdict — результат агрегации индикаторов по одному символу за один тик.
// Живёт только внутри тика, никуда не сохраняется.
type Verdict struct {
	Symbol      string
	IsSignal    bool
	Type        SignalType
	Triggered   int
	Total       int
	Price       float64 // close последнего бара
	PriceChange float64 // % к предыдущему бару
	Trace       []string
	Reason      string // почему вердикт пустой (мало баров и т.п.)
}

// Actionable — вердикт, по которому имеет смысл слать уведомление.
// IsSignal с типом none (импульс есть, но цена стоит) не доставляется,
// но участвует в дедупликации.
func (v Verdict) Actionable() bool {
	return v.IsSignal && v.Type != SignalNone
}

// SignalRecord — строка истории отправленных сигналов (таблица signals).
type SignalRecord struct {
	ID          int64
	Symbol      string
	Type        SignalType
	Triggered   int
	Total       int
	Price       float64
	PriceChange float64
	CreatedAt   time.Time
}
