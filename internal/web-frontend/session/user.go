package session

import (
	"time"

	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

type User = dto.User

// Session é o par (token, usuário) de um navegador, gravado como um único registro
type Session struct {
	Token       string    `json:"token"`
	User        *User     `json:"user,omitempty"`
	RefreshedAt time.Time `json:"refreshedAt,omitempty"`
}

// Authenticated exige token e usuário; usuário sem token nunca conta
func (s Session) Authenticated() bool { return s.Token != "" && s.User != nil }
