package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"screener_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const (
	publicLinearURL = "wss://stream.bybit.com/v5/public/linear"
	subChunk        = 10 // лимит args в одном subscribe-запросе
)

// ConnObserver уведомляется о состоянии соединения (health). Может быть nil.
type ConnObserver interface {
	SetWSConnected(v bool)
}

// Client держит поток публичных тикеров Bybit и отдаёт последнюю цену
// по символу. Подписка равна текущей вселенной сканера; при её смене
// соединение переустанавливается с новым списком.
type Client struct {
	dialer *websocket.Dialer

	mu       sync.RWMutex
	prices   map[string]float64
	desired  []string
	resub    chan struct{}
	observer ConnObserver
}

func NewClient() *Client {
	return &Client{
		dialer: websocket.DefaultDialer,
		prices: make(map[string]float64),
		resub:  make(chan struct{}, 1),
	}
}

// SetConnObserver подключает наблюдателя состояния соединения.
// Вызывается до Start.
func (c *Client) SetConnObserver(o ConnObserver) { c.observer = o }

func (c *Client) setConnected(v bool) {
	if c.observer != nil {
		c.observer.SetWSConnected(v)
	}
}

// LastPrice — последняя цена из потока, если символ в подписке.
func (c *Client) LastPrice(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	px, ok := c.prices[symbol]
	return px, ok
}

// Subscribe задаёт желаемый набор символов. Если набор изменился,
// соединение будет переустановлено.
func (c *Client) Subscribe(symbols []string) {
	sorted := append([]string(nil), symbols...)
	sort.Strings(sorted)

	c.mu.Lock()
	same := len(sorted) == len(c.desired)
	if same {
		for i := range sorted {
			if sorted[i] != c.desired[i] {
				same = false
				break
			}
		}
	}
	c.desired = sorted
	c.mu.Unlock()

	if !same {
		select {
		case c.resub <- struct{}{}:
		default:
		}
	}
}

// Start — цикл reconnect: dial, подписка пачками, ping каждые 20s,
// чтение тикеров. Смена подписки рвёт соединение, цикл поднимет новое.
func (c *Client) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		c.mu.RLock()
		symbols := append([]string(nil), c.desired...)
		c.mu.RUnlock()
		if len(symbols) == 0 {
			select {
			case <-ctx.Done():
				return
			case <-c.resub:
				continue
			}
		}

		logger.Info("[WS] connect %s, %d symbols", publicLinearURL, len(symbols))
		conn, _, err := c.dialer.DialContext(ctx, publicLinearURL, nil)
		if err != nil {
			logger.Error("[WS] dial error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		if err := c.subscribeAll(conn, symbols); err != nil {
			logger.Error("[WS] subscribe error: %v", err)
			_ = conn.Close()
			continue
		}
		c.setConnected(true)

		// keepalive ping + разрыв при смене подписки
		stop := make(chan struct{})
		go func() {
			t := time.NewTicker(20 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					_ = conn.Close()
					return
				case <-stop:
					return
				case <-c.resub:
					logger.Info("[WS] подписка изменилась, переподключаюсь")
					_ = conn.Close()
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"op": "ping"})
				}
			}
		}()

		c.readLoop(conn)
		c.setConnected(false)
		close(stop)
		_ = conn.Close()
	}
}

func (c *Client) subscribeAll(conn *websocket.Conn, symbols []string) error {
	for start := 0; start < len(symbols); start += subChunk {
		end := start + subChunk
		if end > len(symbols) {
			end = len(symbols)
		}
		args := make([]string, 0, end-start)
		for _, s := range symbols[start:end] {
			args = append(args, "tickers."+s)
		}
		if err := conn.WriteJSON(map[string]any{"op": "subscribe", "args": args}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Debug("[WS] read error: %v", err)
			return
		}

		var frame struct {
			Topic string `json:"topic"`
			Data  struct {
				Symbol    string `json:"symbol"`
				LastPrice string `json:"lastPrice"`
			} `json:"data"`
		}
		if err := sonic.Unmarshal(msg, &frame); err != nil {
			continue
		}
		if frame.Data.Symbol == "" || frame.Data.LastPrice == "" {
			continue
		}
		px, err := strconv.ParseFloat(frame.Data.LastPrice, 64)
		if err != nil {
			continue
		}

		c.mu.Lock()
		c.prices[frame.Data.Symbol] = px
		c.mu.Unlock()
	}
}
