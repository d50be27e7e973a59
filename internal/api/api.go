// Package api contains the HTTP handlers of the exchange. Handlers are
// constructed with their dependencies, in the form of the narrow Store and
// Quoter interfaces below, and returned as gin handler functions.
package api

import (
	"exchange_system/internal/domain"

	"github.com/shopspring/decimal"
)

// Store is the data-access surface the handlers depend on
type Store interface {
	UserExists(username string) (bool, error)
	AddUser(username string) error
	AccountBalance(username string) (decimal.Decimal, error)
	Buy(username, ticker string, price, shares decimal.Decimal, assetType string) error
	Sell(username, ticker string, price, shares decimal.Decimal) error
	GetAssets(username string) ([]domain.OwnedAsset, error)
	GetTradeHistory(username string) ([]domain.Trade, error)
	GetAllUsers() ([]domain.User, error)
	DeleteUser(username string) error
}
