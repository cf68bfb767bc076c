package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type tickersResponse struct {
	retCheck
	Result struct {
		List []struct {
			Symbol      string `json:"symbol"`
			Turnover24h string `json:"turnover24h"`
		} `json:"list"`
	} `json:"result"`
}

// Tickers возвращает символы линейных USDT-фьючерсов с 24h-оборотом
// не ниже minTurnover.
func (c *Client) Tickers(ctx context.Context, minTurnover float64) ([]string, error) {
	q := url.Values{}
	q.Set("category", "linear")

	var resp tickersResponse
	if err := c.getJSON(ctx, "/v5/market/tickers", q, &resp); err != nil {
		return nil, fmt.Errorf("tickers: %w", err)
	}
	if err := resp.err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(resp.Result.List))
	for _, item := range resp.Result.List {
		if !strings.HasSuffix(item.Symbol, "USDT") && !strings.HasSuffix(item.Symbol, "USDTPERP") {
			continue
		}
		turnover, err := strconv.ParseFloat(item.Turnover24h, 64)
		if err != nil {
			continue
		}
		if turnover >= minTurnover {
			out = append(out, item.Symbol)
		}
	}
	return out, nil
}
