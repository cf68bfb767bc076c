package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
)

const defaultBaseURL = "https://api.bybit.com"

// Client — REST-клиент Bybit v5 (публичные эндпоинты market/*).
type Client struct {
	http *http.Client
	base string
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 10 * time.Second},
		base: defaultBaseURL,
	}
}

// NewClientWithBase — для тестов с httptest-сервером.
func NewClientWithBase(base string) *Client {
	c := NewClient()
	c.base = base
	return c
}

// getJSON выполняет GET и декодирует ответ sonic-ом в out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}
	return sonic.Unmarshal(body, out)
}

// retCheck — общий конверт ответов Bybit v5.
type retCheck struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
}

func (r retCheck) err() error {
	if r.RetCode != 0 {
		return fmt.Errorf("bybit error: code=%d msg=%s", r.RetCode, r.RetMsg)
	}
	return nil
}
