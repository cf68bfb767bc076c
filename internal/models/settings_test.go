package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsolation(t *testing.T) {
	orig := DefaultMonitorSettings()
	clone := orig.Clone()

	clone.IndicatorsEnabled[IndRSI] = false
	clone.RequiredIndicators = append(clone.RequiredIndicators, IndMACD)
	clone.ExcludedKeywords[0] = "XXX"

	assert.True(t, orig.IndicatorsEnabled[IndRSI])
	assert.Empty(t, orig.RequiredIndicators)
	assert.Equal(t, "ALPHA", orig.ExcludedKeywords[0])
}

func TestEnabledCount(t *testing.T) {
	s := DefaultMonitorSettings()
	assert.Equal(t, len(IndicatorNames), s.EnabledCount())

	s.IndicatorsEnabled[IndOBV] = false
	assert.Equal(t, len(IndicatorNames)-1, s.EnabledCount())

	// неизвестное имя выключено
	assert.False(t, s.Enabled("нет такого"))
}

func TestPriceChangePct(t *testing.T) {
	series := []Candle{{Close: 100}, {Close: 101}}
	assert.InDelta(t, 1.0, PriceChangePct(series), 1e-9)
	assert.Zero(t, PriceChangePct(series[:1]))
	assert.Zero(t, PriceChangePct([]Candle{{Close: 0}, {Close: 5}}))
}

func TestVerdictActionable(t *testing.T) {
	assert.True(t, Verdict{IsSignal: true, Type: SignalPump}.Actionable())
	assert.True(t, Verdict{IsSignal: true, Type: SignalDump}.Actionable())
	assert.False(t, Verdict{IsSignal: true, Type: SignalNone}.Actionable())
	assert.False(t, Verdict{IsSignal: false, Type: SignalPump}.Actionable())
}
