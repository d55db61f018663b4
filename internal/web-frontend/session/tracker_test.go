package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/web-frontend/backend"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

func TestInitializeKeepsCachedUserOnNetworkFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "sid", mintToken(t, time.Now().Add(time.Hour)), testUser("a@b.c", "10")))
	f.api.profile = func(string) (dto.ProfileResponse, error) { return dto.ProfileResponse{}, errNetwork }

	st := NewTracker(zap.NewNop(), f.client, 0).Initialize(ctx, "sid")

	assert.True(t, st.IsInitialized)
	assert.False(t, st.IsLoading)
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "a@b.c", st.User.Email)
	assert.Equal(t, 1, f.api.count("profile"))
}

func TestInitializeWithoutCachedUserLogsOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SaveToken(ctx, "sid", mintToken(t, time.Now().Add(time.Hour))))
	f.api.profile = func(string) (dto.ProfileResponse, error) { return dto.ProfileResponse{}, errNetwork }

	st := NewTracker(zap.NewNop(), f.client, 0).Initialize(ctx, "sid")

	assert.True(t, st.IsInitialized)
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
	assert.Equal(t, 0, f.mem.Len())
}

func TestInitializeExplicitRejectionClearsCachedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "sid", mintToken(t, time.Now().Add(time.Hour)), testUser("a@b.c", "10")))
	f.api.profile = func(string) (dto.ProfileResponse, error) { return dto.ProfileResponse{}, backend.ErrUnauthorized }

	st := NewTracker(zap.NewNop(), f.client, 0).Initialize(ctx, "sid")

	assert.False(t, st.IsAuthenticated)
	assert.Equal(t, 0, f.mem.Len())
}

func TestInitializeDropsStaleCachedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	refreshed := time.Now().Add(-48 * time.Hour)
	f.store.now = func() time.Time { return refreshed }
	require.NoError(t, f.store.Save(ctx, "sid", mintToken(t, time.Now().Add(time.Hour)), testUser("a@b.c", "10")))
	f.store.now = time.Now
	f.api.profile = func(string) (dto.ProfileResponse, error) { return dto.ProfileResponse{}, errNetwork }

	st := NewTracker(zap.NewNop(), f.client, 24*time.Hour).Initialize(ctx, "sid")

	assert.False(t, st.IsAuthenticated)
	assert.Contains(t, f.logouts, ReasonStale)
}

func TestInitializeAdoptsFreshProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "sid", mintToken(t, time.Now().Add(time.Hour)), testUser("admin@admin.com", "10")))
	f.api.profile = okProfile(testUser("admin@admin.com", "15"))

	st := NewTracker(zap.NewNop(), f.client, time.Hour).Initialize(ctx, "sid")

	require.True(t, st.IsAuthenticated)
	assert.True(t, st.IsAdmin)
	assert.Equal(t, "15", st.User.Balance.String())
}

func TestSnapshotReportsLoadingDuringSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "sid", mintToken(t, time.Now().Add(time.Hour)), testUser("a@b.c", "10")))

	entered := make(chan struct{})
	release := make(chan struct{})
	f.api.profile = func(string) (dto.ProfileResponse, error) {
		close(entered)
		<-release
		return dto.ProfileResponse{Success: true, User: testUser("a@b.c", "10")}, nil
	}

	tr := NewTracker(zap.NewNop(), f.client, 0)
	done := make(chan State)
	go func() { done <- tr.Initialize(ctx, "sid") }()

	<-entered
	mid := tr.Snapshot(ctx, "sid")
	assert.True(t, mid.IsLoading)
	assert.False(t, mid.IsInitialized)

	close(release)
	final := <-done
	assert.False(t, final.IsLoading)
	assert.True(t, final.IsInitialized)
	assert.True(t, final.IsAuthenticated)
}

func TestInitializeWithoutSession(t *testing.T) {
	f := newFixture(t)

	st := NewTracker(zap.NewNop(), f.client, 0).Initialize(context.Background(), "sid")

	assert.True(t, st.IsInitialized)
	assert.False(t, st.IsAuthenticated)
	assert.Equal(t, 0, f.api.total())
}
