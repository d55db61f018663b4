package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
)

func TestFlashPushPop(t *testing.T) {
	ctx := context.Background()
	f := NewFlash(cache.NewMemory(), time.Minute)

	require.NoError(t, f.Push(ctx, "sid", Error, "Security verification failed. Please try again."))
	require.NoError(t, f.Push(ctx, "sid", Success, "Successfully placed 1 bet(s)"))

	msgs, err := f.Pop(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, []Message{
		{Level: Error, Text: "Security verification failed. Please try again."},
		{Level: Success, Text: "Successfully placed 1 bet(s)"},
	}, msgs)

	msgs, err = f.Pop(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	other, err := f.Pop(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, other)
}
