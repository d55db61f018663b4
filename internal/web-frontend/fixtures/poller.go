package fixtures

import (
	"context"
	"time"
)

// Poll chama fn imediatamente e depois a cada intervalo, até ctx ser cancelado
func Poll(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if ctx.Err() != nil {
		return
	}
	fn(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn(ctx)
		}
	}
}
