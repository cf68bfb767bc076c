package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"screener_bot/internal/models"
)

// intervalOf — таймфрейм монитора → интервал Bybit.
func intervalOf(tf models.Timeframe) string {
	switch tf {
	case models.Timeframe5m:
		return "5"
	case models.Timeframe15m:
		return "15"
	case models.Timeframe1h:
		return "60"
	default:
		return "1"
	}
}

type klinesResponse struct {
	retCheck
	Result struct {
		List [][]string `json:"list"`
	} `json:"result"`
}

// Klines возвращает последние limit свечей символа в порядке времени.
// Bybit отдаёт их от новых к старым; здесь разворачиваем.
func (c *Client) Klines(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error) {
	q := url.Values{}
	q.Set("category", "linear")
	q.Set("symbol", symbol)
	q.Set("interval", intervalOf(tf))
	q.Set("limit", strconv.Itoa(limit))

	var resp klinesResponse
	if err := c.getJSON(ctx, "/v5/market/kline", q, &resp); err != nil {
		return nil, fmt.Errorf("kline %s: %w", symbol, err)
	}
	if err := resp.err(); err != nil {
		return nil, err
	}

	rows := resp.Result.List
	out := make([]models.Candle, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		// формат строки: [startTime, open, high, low, close, volume, turnover]
		row := rows[i]
		if len(row) < 6 {
			continue
		}
		ms, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		c := models.Candle{Ts: time.UnixMilli(ms)}
		vals := [5]*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume}
		ok := true
		for j, dst := range vals {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				ok = false
				break
			}
			*dst = v
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}
