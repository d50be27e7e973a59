package domain

import "github.com/shopspring/decimal"

// Account Model
type Account struct {
	Username string          `gorm:"primaryKey;size:64" json:"username"`              // Foreign key to User
	Balance  decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"` // Cash balance
}
