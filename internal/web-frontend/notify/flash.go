package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
)

type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Info    Level = "info"
)

// Message é uma notificação descartável mostrada na próxima página
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Flash enfileira notificações por sid até a próxima leitura
type Flash struct {
	store cache.Store
	ttl   time.Duration
}

func NewFlash(store cache.Store, ttl time.Duration) *Flash {
	return &Flash{store: store, ttl: ttl}
}

func flashKey(sid string) string { return "flash:" + sid }

func (f *Flash) Push(ctx context.Context, sid string, lvl Level, text string) error {
	b, err := json.Marshal(Message{Level: lvl, Text: text})
	if err != nil {
		return err
	}
	if err := f.store.RPush(ctx, flashKey(sid), b, f.ttl); err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

// Pop devolve as mensagens pendentes na ordem e esvazia a fila
func (f *Flash) Pop(ctx context.Context, sid string) ([]Message, error) {
	raw, err := f.store.PopAll(ctx, flashKey(sid))
	if err != nil {
		return nil, fmt.Errorf("pop flash: %w", err)
	}
	out := make([]Message, 0, len(raw))
	for _, b := range raw {
		var m Message
		if err := json.Unmarshal(b, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
