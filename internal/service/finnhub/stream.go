package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	domrepo "SignalScan/internal/domain/repository"
	xlogger "SignalScan/pkg/logger"

	"github.com/gorilla/websocket"
)

// Stream maintains a last-traded-price map from the Finnhub trade WebSocket.
// It is an optional overlay: scan results fall back to the last bar close
// when no live price is known for a symbol.
type Stream struct {
	apiKey       string
	websocketURL string
	pingInterval time.Duration
	logger       *xlogger.Logger

	mu     sync.RWMutex
	prices map[string]float64
	subs   map[string]struct{}

	connMu sync.Mutex
	conn   *websocket.Conn
}

// NewStream creates a quote stream. Call Run to connect and start reading.
func NewStream(apiKey, websocketURL string, pingInterval time.Duration, logger *xlogger.Logger) *Stream {
	if pingInterval <= 0 {
		pingInterval = 15 * time.Second
	}
	return &Stream{
		apiKey:       apiKey,
		websocketURL: websocketURL,
		pingInterval: pingInterval,
		logger:       logger,
		prices:       make(map[string]float64),
		subs:         make(map[string]struct{}),
	}
}

// LastPrice returns the most recent streamed trade price for symbol.
func (s *Stream) LastPrice(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[symbol]
	return p, ok
}

// Subscribe registers interest in a symbol. Safe before or after Run.
func (s *Stream) Subscribe(symbols ...string) {
	s.mu.Lock()
	pending := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if _, ok := s.subs[sym]; !ok {
			s.subs[sym] = struct{}{}
			pending = append(pending, sym)
		}
	}
	s.mu.Unlock()

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return
	}
	for _, sym := range pending {
		_ = s.conn.WriteJSON(map[string]string{"type": "subscribe", "symbol": sym})
	}
}

type streamTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	T int64   `json:"t"`
}

type streamMessage struct {
	Type string        `json:"type"`
	Data []streamTrade `json:"data"`
}

// Run connects and reads until ctx is cancelled, reconnecting on read errors.
func (s *Stream) Run(ctx context.Context) error {
	for {
		if err := s.connect(ctx); err != nil {
			s.logger.Warn("quote stream connect failed", xlogger.Error(err))
		} else {
			s.readLoop(ctx)
		}

		select {
		case <-ctx.Done():
			s.close()
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (s *Stream) connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	s.mu.RLock()
	symbols := make([]string, 0, len(s.subs))
	for sym := range s.subs {
		symbols = append(symbols, sym)
	}
	s.mu.RUnlock()
	for _, sym := range symbols {
		if err := conn.WriteJSON(map[string]string{"type": "subscribe", "symbol": sym}); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}

	s.logger.Info("quote stream connected", xlogger.Int("symbols", len(symbols)))
	return nil
}

func (s *Stream) readLoop(ctx context.Context) {
	pingDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pingDone:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.connMu.Lock()
				if s.conn != nil {
					_ = s.conn.WriteMessage(websocket.PingMessage, nil)
				}
				s.connMu.Unlock()
			}
		}
	}()
	defer close(pingDone)

	for {
		if ctx.Err() != nil {
			return
		}
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()
		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			s.logger.Warn("quote stream read failed", xlogger.Error(err))
			s.close()
			return
		}

		var m streamMessage
		if err := json.Unmarshal(b, &m); err != nil || m.Type != "trade" {
			continue
		}
		s.mu.Lock()
		for _, t := range m.Data {
			s.prices[t.S] = t.P
		}
		s.mu.Unlock()
	}
}

func (s *Stream) close() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

var _ domrepo.QuoteSource = (*Stream)(nil)
