package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type PlaceBetRequest struct {
	FixtureID int64   `json:"fixtureId"`
	BetType   string  `json:"betType"`
	Selection string  `json:"selection"`
	Stake     float64 `json:"stake"`
	Odds      float64 `json:"odds"`
}

// BetsPage mantém cada aposta como JSON opaco; só a paginação é interpretada
type BetsPage struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Bets       []json.RawMessage `json:"bets"`
	Pagination Pagination        `json:"pagination"`
}

type Pagination struct {
	Page    int  `json:"page,omitempty"`
	Limit   int  `json:"limit,omitempty"`
	Total   int  `json:"total,omitempty"`
	HasNext bool `json:"hasNext"`
}

type StatsResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Stats   *StatsSummary `json:"stats,omitempty"`
}

type StatsSummary struct {
	TotalBets        int64           `json:"totalBets"`
	WinRate          float64         `json:"winRate"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	ActiveBets       int64           `json:"activeBets"`
	ActiveStake      decimal.Decimal `json:"activeStake"`
	CurrentStreak    int64           `json:"currentStreak"`
	LongestWinStreak int64           `json:"longestWinStreak"`
}
