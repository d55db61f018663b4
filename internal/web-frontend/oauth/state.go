package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
)

// StateStore guarda o state CSRF de cada sid; vale para uma única leitura
type StateStore struct {
	store cache.Store
	ttl   time.Duration
}

func NewStateStore(store cache.Store, ttl time.Duration) *StateStore {
	return &StateStore{store: store, ttl: ttl}
}

func stateKey(sid string) string { return "oauth:state:" + sid }

// Begin gera e grava um state novo, substituindo qualquer anterior
func (s *StateStore) Begin(ctx context.Context, sid string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	if err := s.store.Set(ctx, stateKey(sid), []byte(state), s.ttl); err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}
	return state, nil
}

// Consume lê e apaga o state numa só operação. Ausente devolve "".
func (s *StateStore) Consume(ctx context.Context, sid string) (string, error) {
	b, err := s.store.GetDel(ctx, stateKey(sid))
	if errors.Is(err, cache.ErrMiss) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}
	return string(b), nil
}
