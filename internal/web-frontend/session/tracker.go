package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State é o que as páginas e a API enxergam da sessão
type State struct {
	User            *User `json:"user"`
	IsLoading       bool  `json:"isLoading"`
	IsInitialized   bool  `json:"isInitialized"`
	IsAuthenticated bool  `json:"isAuthenticated"`
	IsAdmin         bool  `json:"isAdmin"`
}

// Tracker roda a varredura de inicialização de cada carga de página e expõe o
// estado da sessão. Cargas simultâneas do mesmo sid compartilham uma varredura.
type Tracker struct {
	log          *zap.Logger
	client       *Client
	maxStaleness time.Duration
	now          func() time.Time

	group    singleflight.Group
	mu       sync.Mutex
	inflight map[string]int
}

// NewTracker: maxStaleness 0 mantém o usuário em cache indefinidamente em falhas transitórias
func NewTracker(log *zap.Logger, client *Client, maxStaleness time.Duration) *Tracker {
	return &Tracker{
		log:          log,
		client:       client,
		maxStaleness: maxStaleness,
		now:          time.Now,
		inflight:     make(map[string]int),
	}
}

// Initialize executa a varredura e devolve o estado final da carga de página
func (t *Tracker) Initialize(ctx context.Context, sid string) State {
	t.enter(sid)
	_, _, _ = t.group.Do(sid, func() (any, error) {
		t.sweep(ctx, sid)
		return nil, nil
	})
	t.leave(sid)

	return t.Snapshot(ctx, sid)
}

// Snapshot lê o estado atual sem chamar o backend
func (t *Tracker) Snapshot(ctx context.Context, sid string) State {
	loading := t.loading(sid)
	st := State{IsLoading: loading, IsInitialized: !loading}

	sess, err := t.client.load(ctx, sid)
	if err != nil {
		t.log.Warn("session snapshot", zap.String("sid", sid), zap.Error(err))
		return st
	}
	if sess.Authenticated() {
		st.User = sess.User
		st.IsAuthenticated = true
		st.IsAdmin = t.client.IsAdmin(sess.User)
	}
	return st
}

// sweep: lê o store, adota o usuário em cache e revalida. Com usuário em cache,
// falha transitória mantém a sessão até maxStaleness desde o último refresh.
func (t *Tracker) sweep(ctx context.Context, sid string) {
	sess, err := t.client.load(ctx, sid)
	if err != nil {
		t.log.Warn("session init load", zap.String("sid", sid), zap.Error(err))
		return
	}
	if sess.Token == "" {
		return
	}

	cached := sess.User != nil
	err = t.client.refresh(ctx, sid, cached)
	if err == nil || !cached || ctx.Err() != nil {
		return
	}

	// refresh já apagou a sessão se a falha não foi transitória
	cur, lerr := t.client.load(ctx, sid)
	if lerr != nil || !cur.Authenticated() {
		return
	}

	if t.maxStaleness > 0 && t.now().Sub(cur.RefreshedAt) > t.maxStaleness {
		t.log.Info("cached user too stale, clearing", zap.String("sid", sid), zap.Time("refreshed_at", cur.RefreshedAt))
		if cerr := t.client.clear(ctx, sid, ReasonStale); cerr != nil {
			t.log.Error("clear stale session", zap.String("sid", sid), zap.Error(cerr))
		}
		return
	}
	t.log.Info("keeping cached user after transient refresh failure", zap.String("sid", sid), zap.Error(err))
}

func (t *Tracker) enter(sid string) {
	t.mu.Lock()
	t.inflight[sid]++
	t.mu.Unlock()
}

func (t *Tracker) leave(sid string) {
	t.mu.Lock()
	if t.inflight[sid] <= 1 {
		delete(t.inflight, sid)
	} else {
		t.inflight[sid]--
	}
	t.mu.Unlock()
}

func (t *Tracker) loading(sid string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inflight[sid] > 0
}
