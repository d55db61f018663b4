package betslip

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Limites do texto de stake. O expoente é conferido antes de qualquer
// comparação: Cmp e StringFixed reescalam o coeficiente.
const (
	maxStakeLen      = 24
	maxStakeExponent = 12
)

var maxStake = decimal.New(1, 9)

// ParseStake aceita o texto digitado; vazio, ilegível, <= 0 ou acima de maxStake é inválido
func ParseStake(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxStakeLen {
		return decimal.Zero, ErrInvalidStake
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidStake
	}
	if e := d.Exponent(); e > maxStakeExponent || e < -maxStakeExponent {
		return decimal.Zero, ErrInvalidStake
	}
	if !d.IsPositive() || d.GreaterThan(maxStake) {
		return decimal.Zero, ErrInvalidStake
	}
	return d, nil
}

// PotentialWin é stake x odds sem arredondamento
func PotentialWin(stake decimal.Decimal, odds float64) decimal.Decimal {
	return stake.Mul(decimal.NewFromFloat(odds))
}

// FormatMoney arredonda para 2 casas; só para exibição
func FormatMoney(d decimal.Decimal) string { return d.StringFixed(2) }
