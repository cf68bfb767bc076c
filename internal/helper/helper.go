package helper

import (
	"fmt"
	"strconv"
	"strings"
)

// NormTF приводит таймфрейм к каноническому виду ("60m" -> "1h").
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "60m", "1h":
		return "1h"
	case "15m":
		return "15m"
	case "5m":
		return "5m"
	case "1m", "":
		return "1m"
	default:
		return s
	}
}

// HumanNumber — 5000000 -> "5M", 12500 -> "12.5K".
func HumanNumber(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000_000:
		return trimZero(v/1_000_000_000) + "B"
	case abs >= 1_000_000:
		return trimZero(v/1_000_000) + "M"
	case abs >= 1_000:
		return trimZero(v/1_000) + "K"
	default:
		return trimZero(v)
	}
}

func trimZero(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// ParseHumanNumber — "5m"/"5M" -> 5000000, "700k" -> 700000, "1.2b" -> 1.2e9.
func ParseHumanNumber(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ",", ".")
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "b"):
		mult = 1_000_000_000
		s = strings.TrimSuffix(s, "b")
	case strings.HasSuffix(s, "m"):
		mult = 1_000_000
		s = strings.TrimSuffix(s, "m")
	case strings.HasSuffix(s, "k"):
		mult = 1_000
		s = strings.TrimSuffix(s, "k")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("не удалось разобрать число %q", raw)
	}
	return v * mult, nil
}
