package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/radieske/sports-bet-web/internal/shared/metrics"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

var (
	// ErrAuthExpired é o único erro que escapa de uma chamada autenticada: o backend
	// respondeu 401 e a sessão já foi apagada
	ErrAuthExpired      = errors.New("authentication expired")
	ErrNotAuthenticated = errors.New("session: not authenticated")
	ErrForbidden        = errors.New("session: admin only")
	ErrRefreshRejected  = errors.New("session: profile refresh rejected")
	ErrNoUser           = errors.New("session: no user after token refresh")
)

// Mensagens exibidas ao usuário
const (
	MsgAuthExpired  = "Authentication expired"
	MsgNetworkError = "Network error. Please try again."
	MsgAuthFailed   = "Authentication failed. Please try again."
)

// Motivos de encerramento de sessão (métricas e eventos)
const (
	ReasonLogout        = "logout"
	ReasonExpired       = "expired"
	ReasonRefreshFailed = "refresh_failed"
	ReasonStale         = "stale"
)

// Backend é o subconjunto do cliente de serviços que a sessão usa
type Backend interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Profile(ctx context.Context, token string) (dto.ProfileResponse, error)
	Deposit(ctx context.Context, token string, req dto.MoneyRequest) (dto.Envelope, error)
	Withdraw(ctx context.Context, token string, req dto.MoneyRequest) (dto.Envelope, error)
	Transactions(ctx context.Context, token string, page, limit int) (dto.Envelope, error)
	PlaceBet(ctx context.Context, token string, req dto.PlaceBetRequest) (dto.Envelope, error)
	UserBets(ctx context.Context, token string, page, limit int, status string) (dto.BetsPage, error)
	BettingStats(ctx context.Context, token string) (dto.StatsResponse, error)
	AddFunds(ctx context.Context, token string, req dto.AddFundsRequest) (dto.Envelope, error)
	Users(ctx context.Context, token string, page, limit int, search string) (dto.Envelope, error)
	CreateAdmin(ctx context.Context) (dto.Envelope, error)
}

// Hooks recebe o ciclo de vida da sessão; campos nil são ignorados
type Hooks struct {
	OnLogin  func(ctx context.Context, sid string, user *User, method string)
	OnLogout func(ctx context.Context, sid string, reason string)
}

// Client é o único escritor do TokenStore: login, registro, refresh, logout e
// chamadas autenticadas passam por aqui
type Client struct {
	log        *zap.Logger
	api        Backend
	store      *TokenStore
	adminEmail string
	hooks      Hooks
	group      singleflight.Group
}

func NewClient(log *zap.Logger, api Backend, store *TokenStore, adminEmail string, hooks Hooks) *Client {
	return &Client{log: log, api: api, store: store, adminEmail: adminEmail, hooks: hooks}
}

// Login autentica por email/senha e persiste a sessão em caso de sucesso
func (c *Client) Login(ctx context.Context, sid, email, password string) dto.AuthResponse {
	res, err := c.api.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	return c.adopt(ctx, sid, "password", res, err)
}

func (c *Client) Register(ctx context.Context, sid string, req dto.RegisterRequest) dto.AuthResponse {
	res, err := c.api.Register(ctx, req)
	return c.adopt(ctx, sid, "register", res, err)
}

func (c *Client) adopt(ctx context.Context, sid, method string, res dto.AuthResponse, err error) dto.AuthResponse {
	if err != nil {
		c.log.Warn("auth request failed", zap.String("method", method), zap.Error(err))
		metrics.Logins.WithLabelValues(method, "error").Inc()
		return dto.AuthResponse{Message: MsgNetworkError}
	}
	if !res.Success {
		metrics.Logins.WithLabelValues(method, "rejected").Inc()
		return res
	}
	if res.Token == "" {
		// sucesso sem token não autentica nada
		c.log.Warn("auth success without token", zap.String("method", method))
		metrics.Logins.WithLabelValues(method, "rejected").Inc()
		return dto.AuthResponse{Message: MsgAuthFailed}
	}

	if res.User == nil {
		// sem usuário na resposta: busca o perfil com o token novo
		if err := c.setTokenAndRefresh(ctx, sid, res.Token, method); err != nil {
			return dto.AuthResponse{Message: MsgNetworkError}
		}
		sess, _ := c.load(ctx, sid)
		res.User = sess.User
		return res
	}

	if err := c.store.Save(ctx, sid, res.Token, res.User); err != nil {
		c.log.Error("persist session", zap.String("sid", sid), zap.Error(err))
		metrics.Logins.WithLabelValues(method, "error").Inc()
		return dto.AuthResponse{Message: MsgNetworkError}
	}
	c.loggedIn(ctx, sid, res.User, method)
	return res
}

// Refresh busca o perfil com o token guardado e substitui o usuário inteiro.
// Qualquer falha (rede, 401, success=false) apaga a sessão.
func (c *Client) Refresh(ctx context.Context, sid string) error {
	return c.refresh(ctx, sid, false)
}

// SetTokenAndRefresh grava o token e busca o perfil. Sem usuário ao final, a
// sessão fica apagada e o erro é devolvido.
func (c *Client) SetTokenAndRefresh(ctx context.Context, sid, token string) error {
	return c.setTokenAndRefresh(ctx, sid, token, "token")
}

func (c *Client) setTokenAndRefresh(ctx context.Context, sid, token, method string) error {
	if err := c.store.SaveToken(ctx, sid, token); err != nil {
		return err
	}
	err := c.refresh(ctx, sid, false)
	if err == nil {
		sess, lerr := c.load(ctx, sid)
		if lerr == nil && sess.Authenticated() {
			c.loggedIn(ctx, sid, sess.User, method)
			return nil
		}
		err = ErrNoUser
	}
	// não deixa token sem usuário para trás, nem se o contexto caiu
	_ = c.store.Clear(context.WithoutCancel(ctx), sid)
	metrics.Logins.WithLabelValues(method, "error").Inc()
	return fmt.Errorf("set token: %w", err)
}

// Logout apaga a sessão local; não chama o backend
func (c *Client) Logout(ctx context.Context, sid string) error {
	return c.clear(ctx, sid, ReasonLogout)
}

// Load devolve a sessão atual do sid sem ir à rede
func (c *Client) Load(ctx context.Context, sid string) (Session, error) {
	return c.load(ctx, sid)
}

func (c *Client) IsAdmin(u *User) bool {
	return u != nil && c.adminEmail != "" && strings.EqualFold(u.Email, c.adminEmail)
}

func (c *Client) refresh(ctx context.Context, sid string, keepOnTransient bool) error {
	key := sid
	if keepOnTransient {
		key += "#keep"
	}
	_, err, _ := c.group.Do(key, func() (any, error) {
		return nil, c.doRefresh(ctx, sid, keepOnTransient)
	})
	return err
}

func (c *Client) doRefresh(ctx context.Context, sid string, keepOnTransient bool) error {
	sess, err := c.load(ctx, sid)
	if err != nil {
		return err
	}
	if sess.Token == "" {
		return ErrNotAuthenticated
	}

	res, err := c.api.Profile(ctx, sess.Token)
	if ctx.Err() != nil {
		// quem pediu já foi embora; não age sobre a resposta
		return ctx.Err()
	}

	switch {
	case err == nil && res.Success && res.User != nil:
		if err := c.store.Save(ctx, sid, sess.Token, res.User); err != nil {
			return err
		}
		metrics.SessionRefreshes.WithLabelValues("ok").Inc()
		return nil
	case err != nil && keepOnTransient && backend.IsTransient(err):
		metrics.SessionRefreshes.WithLabelValues("transient").Inc()
		return fmt.Errorf("refresh profile: %w", err)
	case err == nil:
		err = ErrRefreshRejected
	}

	metrics.SessionRefreshes.WithLabelValues("failed").Inc()
	reason := ReasonRefreshFailed
	if errors.Is(err, backend.ErrUnauthorized) {
		reason = ReasonExpired
	}
	c.log.Info("session refresh failed, clearing", zap.String("sid", sid), zap.String("reason", reason), zap.Error(err))
	if cerr := c.clear(ctx, sid, reason); cerr != nil {
		return cerr
	}
	return fmt.Errorf("refresh profile: %w", err)
}

// load converte token vencido em sessão vazia e avisa os hooks
func (c *Client) load(ctx context.Context, sid string) (Session, error) {
	sess, err := c.store.Load(ctx, sid)
	if errors.Is(err, ErrTokenExpired) {
		c.cleared(ctx, sid, ReasonExpired)
		return Session{}, nil
	}
	return sess, err
}

func (c *Client) clear(ctx context.Context, sid, reason string) error {
	if err := c.store.Clear(ctx, sid); err != nil {
		return err
	}
	c.cleared(ctx, sid, reason)
	return nil
}

func (c *Client) cleared(ctx context.Context, sid, reason string) {
	metrics.SessionsCleared.WithLabelValues(reason).Inc()
	if c.hooks.OnLogout != nil {
		c.hooks.OnLogout(ctx, sid, reason)
	}
}

func (c *Client) loggedIn(ctx context.Context, sid string, u *User, method string) {
	metrics.Logins.WithLabelValues(method, "ok").Inc()
	if c.hooks.OnLogin != nil {
		c.hooks.OnLogin(ctx, sid, u, method)
	}
}
