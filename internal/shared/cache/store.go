package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indica chave inexistente ou expirada
var ErrMiss = errors.New("cache: miss")

// Store é o contrato de chave/valor usado pela sessão, bet slip, OAuth e flash.
// Implementações: RedisStore (produção) e Memory (testes e dev sem Redis).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	GetDel(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	RPush(ctx context.Context, key string, val []byte, ttl time.Duration) error
	PopAll(ctx context.Context, key string) ([][]byte, error)
}
