package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
)

func TestTokenStoreLoadValid(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(cache.NewMemory(), time.Hour)
	tok := mintToken(t, time.Now().Add(time.Hour))

	require.NoError(t, store.Save(ctx, "sid-1", tok, testUser("a@b.c", "10")))

	sess, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, tok, sess.Token)
	assert.Equal(t, "a@b.c", sess.User.Email)
	assert.False(t, sess.RefreshedAt.IsZero())
}

func TestTokenStoreClearsExpiredAndMalformed(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)

	cases := map[string]string{
		"expired":   mintToken(t, past),
		"malformed": "not-a-jwt",
		"no exp":    noExp,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			mem := cache.NewMemory()
			store := NewTokenStore(mem, time.Hour)
			require.NoError(t, store.Save(ctx, "sid", tok, testUser("a@b.c", "1")))

			sess, err := store.Load(ctx, "sid")
			assert.ErrorIs(t, err, ErrTokenExpired)
			assert.Equal(t, Session{}, sess)
			assert.Equal(t, 0, mem.Len())
		})
	}
}

func TestTokenStoreExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_800_000_000, 0)
	store := NewTokenStore(cache.NewMemory(), time.Hour)
	store.now = func() time.Time { return now }
	tok := mintToken(t, now)

	require.NoError(t, store.SaveToken(ctx, "sid", tok))

	// exp == agora ainda vale; um segundo depois não
	sess, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, tok, sess.Token)

	now = now.Add(time.Second)
	_, err = store.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenStoreOrphanUserIsLoggedOut(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory()
	store := NewTokenStore(mem, time.Hour)
	require.NoError(t, mem.Set(ctx, sessionKey("sid"), []byte(`{"token":"","user":{"id":"u1"}}`), 0))

	sess, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, 0, mem.Len())
}

func TestTokenStoreTokenOnlyIsNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(cache.NewMemory(), time.Hour)
	require.NoError(t, store.SaveToken(ctx, "sid", mintToken(t, time.Now().Add(time.Hour))))

	sess, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.False(t, sess.Authenticated())
}
