package fixtures

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/shared/metrics"
)

const writeTimeout = 5 * time.Second

// Hub mantém um polling por conexão websocket; fechar a conexão cancela o polling
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	feed     *Feed
	health   HealthSource
	interval time.Duration

	mu    sync.Mutex
	conns map[*websocket.Conn]context.CancelFunc
}

// NewHub: allowOrigin nil mantém a checagem de mesma origem do upgrader
func NewHub(log *zap.Logger, feed *Feed, health HealthSource, interval time.Duration, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		feed:     feed,
		health:   health,
		interval: interval,
		conns:    make(map[*websocket.Conn]context.CancelFunc),
	}
}

// Count devolve o número de conexões abertas
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// HandleWS gerencia o ciclo de vida de uma conexão: polling do feed pedido em
// background, ping/pong e refresh manual no loop de leitura
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	feed := r.URL.Query().Get("feed")
	if feed == "" {
		feed = FeedLive
	}
	if feed != FeedLive && feed != FeedToday && feed != FeedHealth {
		http.Error(w, "unknown feed", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	h.mu.Lock()
	h.conns[conn] = cancel
	h.mu.Unlock()
	metrics.WebSocketClients.Inc()

	var wmu sync.Mutex
	send := func(m ServerMsg) error {
		wmu.Lock()
		defer wmu.Unlock()
		m.TsUnixMs = time.Now().UnixMilli()
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(m)
	}
	push := func(ctx context.Context) {
		if err := send(h.fetch(ctx, feed)); err != nil {
			cancel()
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		Poll(ctx, h.interval, push)
	}()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "ping":
			_ = send(ServerMsg{Type: "pong"})
		case "refresh":
			push(ctx)
		}
	}

	cancel()
	_ = conn.Close()
	<-done

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	metrics.WebSocketClients.Dec()
}

// Shutdown cancela todos os pollings e fecha as conexões
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c, cancel := range h.conns {
		cancel()
		_ = c.Close()
	}
}

func (h *Hub) fetch(ctx context.Context, feed string) ServerMsg {
	if feed == FeedHealth {
		b, err := json.Marshal(CheckHealth(ctx, h.health))
		if err != nil {
			return ServerMsg{Type: "error", Feed: feed, Error: err.Error()}
		}
		return ServerMsg{Type: "update", Feed: feed, Data: b}
	}

	raw, err := h.feed.Get(ctx, feed)
	if err != nil {
		if ctx.Err() == nil {
			h.log.Warn("fixtures poll failed", zap.String("feed", feed), zap.Error(err))
		}
		return ServerMsg{Type: "error", Feed: feed, Error: "Failed to fetch matches"}
	}
	return ServerMsg{Type: "update", Feed: feed, Data: raw}
}
