package dto

import "github.com/shopspring/decimal"

// User é o snapshot do perfil devolvido pelo serviço de autenticação
type User struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	FullName  string          `json:"fullName"`
	Balance   decimal.Decimal `json:"balance"`
	Stats     UserStats       `json:"stats"`
	IsActive  bool            `json:"isActive"`
}

type UserStats struct {
	TotalBets     int64           `json:"totalBets"`
	WonBets       int64           `json:"wonBets"`
	LostBets      int64           `json:"lostBets"`
	PendingBets   int64           `json:"pendingBets"`
	TotalWinnings decimal.Decimal `json:"totalWinnings"`
	TotalLosses   decimal.Decimal `json:"totalLosses"`
}
