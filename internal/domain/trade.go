package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade sides
const (
	TradeTypeBuy  = "buy"  // Purchase
	TradeTypeSell = "sell" // Disposal
)

// Trade Model, append-only
type Trade struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	Username  string          `gorm:"size:64;index;not null" json:"username"`   // Foreign key to User
	Ticker    string          `gorm:"size:16;not null" json:"ticker"`           // Asset ticker symbol
	Price     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"` // Execution price per share
	Shares    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"shares"` // Traded share quantity
	Type      string          `gorm:"size:8;not null" json:"type"`              // buy or sell
	AssetType string          `gorm:"size:16;not null" json:"asset_type"`       // stock or crypto
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`         // Timestamp of execution
}
