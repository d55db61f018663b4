package oauth

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
)

func TestAuthURL(t *testing.T) {
	mem := cache.NewMemory()
	states := NewStateStore(mem, time.Minute)
	s := NewStarter("client-123", "http://localhost:3000/auth/callback", states)

	raw, err := s.AuthURL(context.Background(), "sid")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))

	stored, err := states.Consume(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, q.Get("state"), stored)
}

func TestAuthURLNotConfigured(t *testing.T) {
	s := NewStarter("", "", NewStateStore(cache.NewMemory(), time.Minute))
	_, err := s.AuthURL(context.Background(), "sid")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
