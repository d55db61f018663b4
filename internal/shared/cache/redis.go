package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis abre o cliente e valida a conexão com um ping
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}

// RedisStore implementa Store sobre um cliente go-redis
type RedisStore struct{ R *redis.Client }

func NewRedisStore(r *redis.Client) *RedisStore { return &RedisStore{R: r} }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.R.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.R.Set(ctx, key, val, ttl).Err()
}

// GetDel lê e remove a chave numa única operação (GETDEL)
func (s *RedisStore) GetDel(ctx context.Context, key string) ([]byte, error) {
	b, err := s.R.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.R.Del(ctx, key).Err()
}

// RPush acrescenta ao fim da lista e renova o TTL
func (s *RedisStore) RPush(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	pipe := s.R.TxPipeline()
	pipe.RPush(ctx, key, val)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// PopAll devolve e remove todos os itens da lista
func (s *RedisStore) PopAll(ctx context.Context, key string) ([][]byte, error) {
	pipe := s.R.TxPipeline()
	lr := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	vals := lr.Val()
	out := make([][]byte, 0, len(vals))
	for _, v := range vals {
		out = append(out, []byte(v))
	}
	return out, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.R.Ping(ctx).Err()
}
