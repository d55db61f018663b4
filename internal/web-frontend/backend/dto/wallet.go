package dto

import "github.com/shopspring/decimal"

// MoneyRequest serve para depósito e saque
type MoneyRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
}

type BalanceResponse struct {
	Success bool             `json:"success"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
	Message string           `json:"message,omitempty"`
}

type AddFundsRequest struct {
	UserID      string  `json:"userId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}
