package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func testUser(email string, balance string) *User {
	return &User{
		ID:       "u1",
		Email:    email,
		FullName: "Ada Lovelace",
		Balance:  decimal.RequireFromString(balance),
		IsActive: true,
	}
}

var errNetwork = &backend.NetworkError{Op: "auth profile", Err: context.DeadlineExceeded}

// fakeBackend conta chamadas por operação; funções nil devolvem valor zero
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	login    func(dto.LoginRequest) (dto.AuthResponse, error)
	profile  func(token string) (dto.ProfileResponse, error)
	placeBet func(token string, req dto.PlaceBetRequest) (dto.Envelope, error)
	addFunds func(token string, req dto.AddFundsRequest) (dto.Envelope, error)
}

func (f *fakeBackend) hit(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.calls {
		n += v
	}
	return n
}

func (f *fakeBackend) Login(_ context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	f.hit("login")
	if f.login == nil {
		return dto.AuthResponse{}, nil
	}
	return f.login(req)
}

func (f *fakeBackend) Register(_ context.Context, _ dto.RegisterRequest) (dto.AuthResponse, error) {
	f.hit("register")
	return dto.AuthResponse{}, nil
}

func (f *fakeBackend) Profile(_ context.Context, token string) (dto.ProfileResponse, error) {
	f.hit("profile")
	if f.profile == nil {
		return dto.ProfileResponse{}, nil
	}
	return f.profile(token)
}

func (f *fakeBackend) Deposit(_ context.Context, _ string, _ dto.MoneyRequest) (dto.Envelope, error) {
	f.hit("deposit")
	return dto.Envelope{Success: true}, nil
}

func (f *fakeBackend) Withdraw(_ context.Context, _ string, _ dto.MoneyRequest) (dto.Envelope, error) {
	f.hit("withdraw")
	return dto.Envelope{Success: true}, nil
}

func (f *fakeBackend) Transactions(_ context.Context, _ string, _, _ int) (dto.Envelope, error) {
	f.hit("transactions")
	return dto.Envelope{Success: true}, nil
}

func (f *fakeBackend) PlaceBet(_ context.Context, token string, req dto.PlaceBetRequest) (dto.Envelope, error) {
	f.hit("place_bet")
	if f.placeBet == nil {
		return dto.Envelope{Success: true}, nil
	}
	return f.placeBet(token, req)
}

func (f *fakeBackend) UserBets(_ context.Context, _ string, _, _ int, _ string) (dto.BetsPage, error) {
	f.hit("user_bets")
	return dto.BetsPage{Success: true}, nil
}

func (f *fakeBackend) BettingStats(_ context.Context, _ string) (dto.StatsResponse, error) {
	f.hit("stats")
	return dto.StatsResponse{Success: true}, nil
}

func (f *fakeBackend) AddFunds(_ context.Context, token string, req dto.AddFundsRequest) (dto.Envelope, error) {
	f.hit("add_funds")
	if f.addFunds == nil {
		return dto.Envelope{Success: true}, nil
	}
	return f.addFunds(token, req)
}

func (f *fakeBackend) Users(_ context.Context, _ string, _, _ int, _ string) (dto.Envelope, error) {
	f.hit("users")
	return dto.Envelope{Success: true}, nil
}

func (f *fakeBackend) CreateAdmin(_ context.Context) (dto.Envelope, error) {
	f.hit("create_admin")
	return dto.Envelope{Success: true}, nil
}

type fixture struct {
	mem     *cache.Memory
	store   *TokenStore
	api     *fakeBackend
	client  *Client
	logouts []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{mem: cache.NewMemory(), api: &fakeBackend{}}
	f.store = NewTokenStore(f.mem, time.Hour)
	f.client = NewClient(zap.NewNop(), f.api, f.store, "admin@admin.com", Hooks{
		OnLogout: func(_ context.Context, _ string, reason string) { f.logouts = append(f.logouts, reason) },
	})
	return f
}

func okProfile(u *User) func(string) (dto.ProfileResponse, error) {
	return func(string) (dto.ProfileResponse, error) {
		return dto.ProfileResponse{Success: true, User: u}, nil
	}
}
