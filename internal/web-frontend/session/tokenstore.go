package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
)

// ErrTokenExpired é devolvido por Load depois de apagar um token vencido ou ilegível
var ErrTokenExpired = errors.New("session: token expired")

// TokenStore persiste a sessão de cada sid no cache.
// Token e usuário vivem na mesma chave, então a escrita do par é atômica.
type TokenStore struct {
	store  cache.Store
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenStore(store cache.Store, ttl time.Duration) *TokenStore {
	return &TokenStore{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		parser: jwt.NewParser(),
	}
}

func sessionKey(sid string) string { return "session:" + sid }

// Load devolve a sessão válida do sid ou uma sessão vazia.
// Token vencido, sem exp ou ilegível é apagado e sinalizado com ErrTokenExpired.
// Usuário sem token também é apagado, mas sem erro.
func (t *TokenStore) Load(ctx context.Context, sid string) (Session, error) {
	b, err := t.store.Get(ctx, sessionKey(sid))
	if errors.Is(err, cache.ErrMiss) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, t.clearAs(ctx, sid, nil)
	}

	if s.Token == "" {
		// usuário órfão é estado inválido
		return Session{}, t.clearAs(ctx, sid, nil)
	}

	exp, err := t.expiry(s.Token)
	if err != nil || exp.Before(t.now()) {
		return Session{}, t.clearAs(ctx, sid, ErrTokenExpired)
	}
	return s, nil
}

// Save grava token e usuário juntos e marca o momento da validação
func (t *TokenStore) Save(ctx context.Context, sid, token string, user *User) error {
	return t.write(ctx, sid, Session{Token: token, User: user, RefreshedAt: t.now()})
}

// SaveToken grava só o token; usado antes da primeira busca de perfil
func (t *TokenStore) SaveToken(ctx context.Context, sid, token string) error {
	return t.write(ctx, sid, Session{Token: token})
}

func (t *TokenStore) Clear(ctx context.Context, sid string) error {
	if err := t.store.Del(ctx, sessionKey(sid)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (t *TokenStore) write(ctx context.Context, sid string, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := t.store.Set(ctx, sessionKey(sid), b, t.ttlFor(s.Token)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ttlFor limita o TTL da chave ao vencimento do token, quando conhecido
func (t *TokenStore) ttlFor(token string) time.Duration {
	exp, err := t.expiry(token)
	if err != nil {
		return t.ttl
	}
	if until := exp.Sub(t.now()); until > 0 && until < t.ttl {
		return until
	}
	return t.ttl
}

// expiry lê a claim exp sem validar assinatura; quem valida é o serviço de autenticação
func (t *TokenStore) expiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := t.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token without exp")
	}
	return exp.Time, nil
}

func (t *TokenStore) clearAs(ctx context.Context, sid string, reason error) error {
	if err := t.Clear(ctx, sid); err != nil {
		return err
	}
	return reason
}
