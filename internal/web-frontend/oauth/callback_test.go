package oauth

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

type fakeExchanger struct {
	mu    sync.Mutex
	calls int
	fn    func(context.Context, dto.GoogleCallbackRequest) (dto.AuthResponse, error)
}

func (f *fakeExchanger) GoogleCallback(ctx context.Context, req dto.GoogleCallbackRequest) (dto.AuthResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn == nil {
		return dto.AuthResponse{Success: true, Token: "tok-" + req.Code}, nil
	}
	return f.fn(ctx, req)
}

type fakeSetter struct {
	tokens []string
	err    error
}

func (f *fakeSetter) SetTokenAndRefresh(_ context.Context, _ string, token string) error {
	f.tokens = append(f.tokens, token)
	return f.err
}

type harness struct {
	mem    *cache.Memory
	states *StateStore
	api    *fakeExchanger
	setter *fakeSetter
	h      *Handler
}

func newHarness() *harness {
	hs := &harness{mem: cache.NewMemory(), api: &fakeExchanger{}, setter: &fakeSetter{}}
	hs.states = NewStateStore(hs.mem, time.Minute)
	hs.h = NewHandler(zap.NewNop(), hs.states, hs.api, hs.setter)
	return hs
}

func TestStateMismatchFailsClosedAndConsumesState(t *testing.T) {
	hs := newHarness()
	ctx := context.Background()
	_, err := hs.states.Begin(ctx, "sid")
	require.NoError(t, err)

	out, err := hs.h.New("sid", Params{Code: "valid-code", State: "forged"}).Run(ctx)
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Equal(t, "/login", out.Redirect)
	assert.Equal(t, MsgSecurityFailed, out.Message)
	assert.Equal(t, 0, hs.api.calls)
	assert.Empty(t, hs.setter.tokens)
	assert.Equal(t, 0, hs.mem.Len())
}

func TestMissingStoredStateFailsClosed(t *testing.T) {
	hs := newHarness()

	out, err := hs.h.New("sid", Params{Code: "c", State: ""}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MsgSecurityFailed, out.Message)
	assert.Equal(t, 0, hs.api.calls)
}

func TestCodeExchangeSuccess(t *testing.T) {
	hs := newHarness()
	ctx := context.Background()
	state, err := hs.states.Begin(ctx, "sid")
	require.NoError(t, err)

	out, err := hs.h.New("sid", Params{Code: "abc", State: state}).Run(ctx)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "/", out.Redirect)
	assert.Equal(t, MsgGoogleSuccess, out.Message)
	assert.Equal(t, []string{"tok-abc"}, hs.setter.tokens)

	// o mesmo state não serve duas vezes
	again, err := hs.h.New("sid", Params{Code: "abc", State: state}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, MsgSecurityFailed, again.Message)
}

func TestCodeExchangeFailures(t *testing.T) {
	cases := []struct {
		name string
		fn   func(context.Context, dto.GoogleCallbackRequest) (dto.AuthResponse, error)
		set  error
		msg  string
	}{
		{
			name: "backend message",
			fn: func(context.Context, dto.GoogleCallbackRequest) (dto.AuthResponse, error) {
				return dto.AuthResponse{Success: false, Message: "Account disabled"}, nil
			},
			msg: "Account disabled",
		},
		{
			name: "no token",
			fn: func(context.Context, dto.GoogleCallbackRequest) (dto.AuthResponse, error) {
				return dto.AuthResponse{Success: true}, nil
			},
			msg: MsgExchangeFailed,
		},
		{
			name: "transport",
			fn: func(context.Context, dto.GoogleCallbackRequest) (dto.AuthResponse, error) {
				return dto.AuthResponse{}, errors.New("connection refused")
			},
			msg: MsgExchangeError,
		},
		{
			name: "refresh fails",
			set:  errors.New("no user"),
			msg:  MsgAuthFailed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hs := newHarness()
			hs.api.fn = tc.fn
			hs.setter.err = tc.set
			ctx := context.Background()
			state, err := hs.states.Begin(ctx, "sid")
			require.NoError(t, err)

			out, err := hs.h.New("sid", Params{Code: "abc", State: state}).Run(ctx)
			require.NoError(t, err)
			assert.False(t, out.Success)
			assert.Equal(t, "/login", out.Redirect)
			assert.Equal(t, tc.msg, out.Message)
		})
	}
}

func TestStaleExchangeIsNotApplied(t *testing.T) {
	hs := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	state, err := hs.states.Begin(ctx, "sid")
	require.NoError(t, err)
	hs.api.fn = func(context.Context, dto.GoogleCallbackRequest) (dto.AuthResponse, error) {
		cancel()
		return dto.AuthResponse{Success: true, Token: "late"}, nil
	}

	out, err := hs.h.New("sid", Params{Code: "abc", State: state}).Run(ctx)
	require.NoError(t, err)
	assert.True(t, out.Stale)
	assert.Empty(t, hs.setter.tokens)
}

func TestProviderErrors(t *testing.T) {
	cases := map[string]string{
		"access_denied": "Google authentication was cancelled.",
		"oauth_failed":  "Google authentication failed. Please try again.",
		"oauth_error":   "Google authentication error. Please try again.",
		"server_error":  MsgAuthFailed,
	}
	for code, msg := range cases {
		hs := newHarness()
		out, err := hs.h.New("sid", Params{Error: code, Code: "ignored"}).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, KindProviderError, out.Kind)
		assert.Equal(t, msg, out.Message, code)
		assert.Equal(t, "/login", out.Redirect)
		assert.Equal(t, 0, hs.api.calls)
	}
}

func TestLegacyTokenAndNoData(t *testing.T) {
	hs := newHarness()
	out, err := hs.h.New("sid", Params{Token: "bare"}).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, MsgTokenSuccess, out.Message)
	assert.Equal(t, []string{"bare"}, hs.setter.tokens)

	hs.setter.err = errors.New("refresh failed")
	out, err = hs.h.New("sid", Params{Token: "bare"}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MsgTokenFailed, out.Message)

	out, err = hs.h.New("sid", Params{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KindNoData, out.Kind)
	assert.Equal(t, MsgNoData, out.Message)
	assert.Equal(t, "/login", out.Redirect)
}

func TestRunExecutesOnce(t *testing.T) {
	hs := newHarness()
	cb := hs.h.New("sid", Params{Token: "bare"})

	_, err := cb.Run(context.Background())
	require.NoError(t, err)
	_, err = cb.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyHandled)
	assert.Len(t, hs.setter.tokens, 1)
}

func TestParamsFromQuery(t *testing.T) {
	q, err := url.ParseQuery("code=c1&state=s1&scope=email")
	require.NoError(t, err)
	p := ParamsFrom(q)
	assert.Equal(t, Params{Code: "c1", State: "s1"}, p)
	assert.Equal(t, KindCodeExchange, p.Kind())
}
