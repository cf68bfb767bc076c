package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener_bot/internal/models"
)

func TestTickersFiltering(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/tickers", r.URL.Path)
		assert.Equal(t, "linear", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`{
			"retCode": 0, "retMsg": "OK",
			"result": {"list": [
				{"symbol": "BTCUSDT",     "turnover24h": "900000000"},
				{"symbol": "SMALLUSDT",   "turnover24h": "100000"},
				{"symbol": "ETHUSDTPERP", "turnover24h": "50000000"},
				{"symbol": "BTCUSDC",     "turnover24h": "900000000"},
				{"symbol": "BROKENUSDT",  "turnover24h": "n/a"}
			]}
		}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	got, err := c.Tickers(context.Background(), 5_000_000)
	require.NoError(t, err)

	// остаются только USDT-контракты с достаточным оборотом;
	// нечитаемый оборот пропускается молча
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDTPERP"}, got)
}

func TestTickersAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"retCode": 10001, "retMsg": "params error", "result": {}}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	_, err := c.Tickers(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10001")
}

func TestKlinesOrderAndParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/kline", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "5", r.URL.Query().Get("interval"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		// Bybit отдаёт от новых к старым
		_, _ = w.Write([]byte(`{
			"retCode": 0, "retMsg": "OK",
			"result": {"list": [
				["1735689900000", "102", "103", "101", "102.5", "30", "3075"],
				["1735689600000", "101", "102", "100", "102",   "20", "2040"],
				["1735689300000", "100", "101", "99",  "101",   "10", "1010"]
			]}
		}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	got, err := c.Klines(context.Background(), "BTCUSDT", models.Timeframe5m, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// серия развёрнута в порядок времени
	assert.True(t, got[0].Ts.Before(got[1].Ts))
	assert.True(t, got[1].Ts.Before(got[2].Ts))
	assert.Equal(t, 101.0, got[0].Close)
	assert.Equal(t, 102.5, got[2].Close)
	assert.Equal(t, 30.0, got[2].Volume)
}

func TestKlinesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	_, err := c.Klines(context.Background(), "BTCUSDT", models.Timeframe1m, 10)
	assert.Error(t, err)
}

func TestIntervalOf(t *testing.T) {
	assert.Equal(t, "1", intervalOf(models.Timeframe1m))
	assert.Equal(t, "5", intervalOf(models.Timeframe5m))
	assert.Equal(t, "15", intervalOf(models.Timeframe15m))
	assert.Equal(t, "60", intervalOf(models.Timeframe1h))
}
