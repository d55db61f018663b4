package betslip

import (
	"errors"

	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
)

var (
	ErrInvalidStake     = errors.New("betslip: invalid stake")
	ErrInvalidStakes    = errors.New("betslip: invalid stakes in batch")
	ErrInvalidSelection = errors.New("betslip: invalid selection")
	ErrItemNotFound     = errors.New("betslip: item not found")
	ErrEmptyCart        = errors.New("betslip: empty cart")
)

// Message traduz os erros do bet slip para o texto exibido ao usuário
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidStake):
		return "Please enter a valid stake amount"
	case errors.Is(err, ErrInvalidStakes):
		return "Please enter valid stakes for all bets"
	case errors.Is(err, ErrInvalidSelection):
		return "Invalid selection"
	case errors.Is(err, ErrItemNotFound):
		return "Bet not found in slip"
	case errors.Is(err, ErrEmptyCart):
		return "Your bet slip is empty"
	case errors.Is(err, session.ErrNotAuthenticated):
		return "Please login to place bets"
	case errors.Is(err, session.ErrAuthExpired):
		return session.MsgAuthExpired
	}
	return "Failed to place bet"
}
