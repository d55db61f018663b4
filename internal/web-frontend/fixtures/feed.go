package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
)

type Source interface {
	Fixtures(ctx context.Context, feed string) (json.RawMessage, error)
}

// Feed serve os feeds de partidas com cache curto; várias telas abertas
// disparam no máximo uma busca por feed ao serviço de partidas
type Feed struct {
	log   *zap.Logger
	src   Source
	store cache.Store
	ttl   time.Duration
	group singleflight.Group
}

func NewFeed(log *zap.Logger, src Source, store cache.Store, ttl time.Duration) *Feed {
	return &Feed{log: log, src: src, store: store, ttl: ttl}
}

func feedKey(feed string) string { return "fixtures:" + feed }

// Get devolve o JSON do feed, do cache quando ainda fresco
func (f *Feed) Get(ctx context.Context, feed string) (json.RawMessage, error) {
	b, err := f.store.Get(ctx, feedKey(feed))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		f.log.Warn("fixtures cache read", zap.String("feed", feed), zap.Error(err))
	}

	v, err, _ := f.group.Do(feed, func() (any, error) {
		raw, err := f.src.Fixtures(ctx, feed)
		if err != nil {
			return nil, err
		}
		if err := f.store.Set(ctx, feedKey(feed), raw, f.ttl); err != nil {
			f.log.Warn("fixtures cache write", zap.String("feed", feed), zap.Error(err))
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}
