package dto

import "staybook/internal/domain/shared/money"

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(m money.Money) Money {
	return Money{Amount: m.Amount, Currency: m.Currency}
}
