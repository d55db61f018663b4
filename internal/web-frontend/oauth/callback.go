package oauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/shared/metrics"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

var ErrAlreadyHandled = errors.New("oauth: callback already handled")

// Mensagens exibidas ao usuário
const (
	MsgSecurityFailed = "Security verification failed. Please try again."
	MsgExchangeFailed = "Google authentication failed"
	MsgExchangeError  = "Failed to complete Google authentication"
	MsgAuthFailed     = "Authentication failed. Please try again."
	MsgTokenFailed    = "Failed to process authentication token."
	MsgNoData         = "No authentication data received. Please try again."
	MsgGoogleSuccess  = "Successfully logged in with Google!"
	MsgTokenSuccess   = "Successfully logged in!"
	loginRedirect     = "/login"
	landingRedirect   = "/"
)

var providerMessages = map[string]string{
	"access_denied": "Google authentication was cancelled.",
	"oauth_failed":  "Google authentication failed. Please try again.",
	"oauth_error":   "Google authentication error. Please try again.",
}

// ProviderMessage traduz o código de erro do provedor; desconhecido vira genérico
func ProviderMessage(code string) string {
	if m, ok := providerMessages[code]; ok {
		return m
	}
	return MsgAuthFailed
}

type Kind int

const (
	KindProviderError Kind = iota
	KindCodeExchange
	KindLegacyToken
	KindNoData
)

func (k Kind) String() string {
	switch k {
	case KindProviderError:
		return "provider_error"
	case KindCodeExchange:
		return "code_exchange"
	case KindLegacyToken:
		return "legacy_token"
	default:
		return "no_data"
	}
}

type Params struct {
	Code  string
	State string
	Error string
	Token string
}

func ParamsFrom(q url.Values) Params {
	return Params{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Error: q.Get("error"),
		Token: q.Get("token"),
	}
}

// Kind escolhe o ramo: erro do provedor > código > token avulso > nada
func (p Params) Kind() Kind {
	switch {
	case p.Error != "":
		return KindProviderError
	case p.Code != "":
		return KindCodeExchange
	case p.Token != "":
		return KindLegacyToken
	}
	return KindNoData
}

// Outcome é o resultado terminal do callback. Stale indica que quem pediu
// foi embora antes da resposta e nada foi aplicado.
type Outcome struct {
	Kind     Kind
	Success  bool
	Redirect string
	Message  string
	Stale    bool
}

type Exchanger interface {
	GoogleCallback(ctx context.Context, req dto.GoogleCallbackRequest) (dto.AuthResponse, error)
}

type TokenSetter interface {
	SetTokenAndRefresh(ctx context.Context, sid, token string) error
}

type Handler struct {
	log      *zap.Logger
	states   *StateStore
	api      Exchanger
	sessions TokenSetter
}

func NewHandler(log *zap.Logger, states *StateStore, api Exchanger, sessions TokenSetter) *Handler {
	return &Handler{log: log, states: states, api: api, sessions: sessions}
}

// Callback é uma carga da página de callback
type Callback struct {
	h      *Handler
	sid    string
	params Params

	mu      sync.Mutex
	handled bool
}

func (h *Handler) New(sid string, p Params) *Callback {
	return &Callback{h: h, sid: sid, params: p}
}

// Run executa a máquina de estados uma única vez por instância
func (c *Callback) Run(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.handled {
		c.mu.Unlock()
		return Outcome{}, ErrAlreadyHandled
	}
	c.handled = true
	c.mu.Unlock()

	out := c.run(ctx)
	result := "ok"
	switch {
	case out.Stale:
		result = "stale"
	case !out.Success:
		result = "failed"
	}
	metrics.OAuthCallbacks.WithLabelValues(out.Kind.String(), result).Inc()
	return out, nil
}

func (c *Callback) run(ctx context.Context) Outcome {
	kind := c.params.Kind()
	switch kind {
	case KindProviderError:
		c.h.log.Info("oauth provider error", zap.String("code", c.params.Error))
		return fail(kind, ProviderMessage(c.params.Error))
	case KindCodeExchange:
		return c.exchange(ctx)
	case KindLegacyToken:
		if err := c.h.sessions.SetTokenAndRefresh(ctx, c.sid, c.params.Token); err != nil {
			if ctx.Err() != nil {
				return Outcome{Kind: kind, Stale: true}
			}
			c.h.log.Warn("legacy token rejected", zap.Error(err))
			return fail(kind, MsgTokenFailed)
		}
		return Outcome{Kind: kind, Success: true, Redirect: landingRedirect, Message: MsgTokenSuccess}
	}
	return fail(kind, MsgNoData)
}

func (c *Callback) exchange(ctx context.Context) Outcome {
	kind := KindCodeExchange

	// o state é apagado antes da comparação, com ou sem match
	stored, err := c.h.states.Consume(ctx, c.sid)
	if err != nil {
		c.h.log.Error("consume oauth state", zap.Error(err))
		return fail(kind, MsgSecurityFailed)
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(c.params.State)) != 1 {
		c.h.log.Warn("oauth state mismatch", zap.String("sid", c.sid))
		return fail(kind, MsgSecurityFailed)
	}

	res, err := c.h.api.GoogleCallback(ctx, dto.GoogleCallbackRequest{Code: c.params.Code, State: c.params.State})
	if ctx.Err() != nil {
		return Outcome{Kind: kind, Stale: true}
	}
	if err != nil {
		c.h.log.Warn("google code exchange", zap.Error(err))
		return fail(kind, MsgExchangeError)
	}
	if !res.Success || res.Token == "" {
		msg := res.Message
		if msg == "" {
			msg = MsgExchangeFailed
		}
		return fail(kind, msg)
	}

	if err := c.h.sessions.SetTokenAndRefresh(ctx, c.sid, res.Token); err != nil {
		if ctx.Err() != nil {
			return Outcome{Kind: kind, Stale: true}
		}
		c.h.log.Warn("set token after google exchange", zap.Error(err))
		return fail(kind, MsgAuthFailed)
	}
	return Outcome{Kind: kind, Success: true, Redirect: landingRedirect, Message: MsgGoogleSuccess}
}

func fail(kind Kind, msg string) Outcome {
	return Outcome{Kind: kind, Redirect: loginRedirect, Message: msg}
}
