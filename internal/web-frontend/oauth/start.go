package oauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

var ErrNotConfigured = errors.New("oauth: google client not configured")

const MsgNotConfigured = "Google OAuth is not configured. Please contact administrator."

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// Starter monta a URL de autorização do Google. A troca do código fica com o
// serviço de autenticação, então só o lado de redirecionamento é usado aqui.
type Starter struct {
	cfg    *oauth2.Config
	states *StateStore
}

func NewStarter(clientID, redirectURL string, states *StateStore) *Starter {
	s := &Starter{states: states}
	if clientID != "" {
		s.cfg = &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURL,
			Endpoint:    googleEndpoint,
			Scopes:      []string{"openid", "email", "profile"},
		}
	}
	return s
}

// AuthURL gera o state CSRF do sid e devolve para onde mandar o navegador
func (s *Starter) AuthURL(ctx context.Context, sid string) (string, error) {
	if s.cfg == nil {
		return "", ErrNotConfigured
	}
	state, err := s.states.Begin(ctx, sid)
	if err != nil {
		return "", err
	}
	return s.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}
