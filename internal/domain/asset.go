package domain

import "github.com/shopspring/decimal"

// Asset types
const (
	AssetTypeStock  = "stock"  // Exchange-listed stock
	AssetTypeCrypto = "crypto" // Cryptocurrency
)

// OwnedAsset Model, one row per (user, ticker) holding
type OwnedAsset struct {
	Username  string          `gorm:"primaryKey;size:64" json:"username"`        // Foreign key to User
	Ticker    string          `gorm:"primaryKey;size:16" json:"ticker"`          // Asset ticker symbol
	Shares    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"shares"` // Held share quantity
	AssetType string          `gorm:"size:16;not null" json:"asset_type"`        // stock or crypto
}

// TableName keeps the table name of the original schema
func (OwnedAsset) TableName() string { return "owned_stocks" }
