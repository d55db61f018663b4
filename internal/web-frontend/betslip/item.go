package betslip

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Selection é o que a página envia ao clicar numa odd
type Selection struct {
	FixtureID int64   `json:"fixtureId"`
	HomeTeam  string  `json:"homeTeam"`
	AwayTeam  string  `json:"awayTeam"`
	BetType   string  `json:"betType"`
	Selection string  `json:"selection"`
	Odds      float64 `json:"odds"`
}

// Item é uma seleção no bet slip; o stake fica fora, no mapa do Cart
type Item struct {
	ID        string  `json:"id"`
	FixtureID int64   `json:"fixtureId"`
	Match     string  `json:"match"`
	BetType   string  `json:"betType"`
	Selection string  `json:"selection"`
	Odds      float64 `json:"odds"`
	HomeTeam  string  `json:"homeTeam"`
	AwayTeam  string  `json:"awayTeam"`
}

// ItemID deriva o id da tripla (partida, mercado, seleção); a mesma aposta nunca aparece duas vezes
func ItemID(fixtureID int64, betType, selection string) string {
	return strconv.FormatInt(fixtureID, 10) + "-" + betType + "-" + selection
}

func NewItem(s Selection) (Item, error) {
	switch {
	case s.FixtureID <= 0:
		return Item{}, fmt.Errorf("%w: fixture id", ErrInvalidSelection)
	case strings.TrimSpace(s.BetType) == "" || strings.TrimSpace(s.Selection) == "":
		return Item{}, fmt.Errorf("%w: bet type and selection required", ErrInvalidSelection)
	case !(s.Odds > 1.0):
		return Item{}, fmt.Errorf("%w: odds must be above 1.0", ErrInvalidSelection)
	}
	return Item{
		ID:        ItemID(s.FixtureID, s.BetType, s.Selection),
		FixtureID: s.FixtureID,
		Match:     s.HomeTeam + " vs " + s.AwayTeam,
		BetType:   s.BetType,
		Selection: s.Selection,
		Odds:      s.Odds,
		HomeTeam:  s.HomeTeam,
		AwayTeam:  s.AwayTeam,
	}, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeBetType: "Match Winner" -> "match_winner"
func NormalizeBetType(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(s), "_")
}

func NormalizeSelection(s string) string { return strings.ToLower(s) }
