package indicator

import (
	"fmt"

	"screener_bot/internal/models"
)

const (
	volumeAvgPeriod   = 20
	volumeSurgeRatio  = 2.0 // всплеск объёма
	volumePreSurgeMin = 1.2 // предварительный рост объёма: +20%..+50% к среднему
	volumePreSurgeMax = 1.5
	obvTrendBars      = 3 // сколько последних баров OBV должны расти/падать
)

func volumeRatio(series []models.Candle) float64 {
	vols := models.Volumes(series)
	avg := last(sma(vols, volumeAvgPeriod))
	if isNaN(avg) || avg == 0 {
		return nan
	}
	return last(vols) / avg
}

func evalVolumeSurge(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	ratio := volumeRatio(series)
	if isNaN(ratio) {
		return Result{Summary: "объём=NaN"}, nil
	}
	return Result{
		Triggered: ratio > volumeSurgeRatio,
		Summary:   fmt.Sprintf("объём x%.2f", ratio),
	}, nil
}

// evalVolumePreSurge — умеренный рост объёма (20-50%) до основного всплеска.
func evalVolumePreSurge(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	ratio := volumeRatio(series)
	if isNaN(ratio) {
		return Result{Summary: "Рост объёма=NaN"}, nil
	}
	growing := ratio >= volumePreSurgeMin && ratio <= volumePreSurgeMax
	state := "нет"
	if growing {
		state = "да"
	}
	return Result{
		Triggered: growing,
		Summary:   fmt.Sprintf("Рост объёма=%s", state),
	}, nil
}

// obvSeries — On-Balance Volume.
func obvSeries(series []models.Candle) []float64 {
	out := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		switch {
		case series[i].Close > series[i-1].Close:
			out[i] = out[i-1] + series[i].Volume
		case series[i].Close < series[i-1].Close:
			out[i] = out[i-1] - series[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

func evalOBV(series []models.Candle, _ models.MonitorSettings) (Result, error) {
	obv := obvSeries(series)
	if len(obv) < obvTrendBars+1 {
		return Result{Summary: "OBV=NaN"}, nil
	}
	rising, falling := true, true
	for i := len(obv) - obvTrendBars; i < len(obv); i++ {
		if obv[i] <= obv[i-1] {
			rising = false
		}
		if obv[i] >= obv[i-1] {
			falling = false
		}
	}
	state := "стабилен"
	if rising {
		state = "растёт"
	} else if falling {
		state = "падает"
	}
	return Result{
		Triggered: rising || falling,
		Summary:   fmt.Sprintf("OBV=%s", state),
	}, nil
}
