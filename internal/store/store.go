package store

import (
	"errors" // Sentinel errors and errors.Is

	"exchange_system/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Upsert and row-lock clauses
)

// Typed errors surfaced to callers
var (
	ErrUserNotFound       = errors.New("user not found")                  // Unknown username
	ErrUserExists         = errors.New("user already exists")             // Duplicate username on AddUser
	ErrAccountNotFound    = errors.New("account not found")               // Missing account row
	ErrAssetNotFound      = errors.New("asset not owned")                 // No holding for (user, ticker)
	ErrInsufficientShares = errors.New("insufficient shares to sell")     // Sell exceeds held quantity
)

// Store mediates all reads and writes over users, accounts, holdings and trades
type Store struct {
	db *gorm.DB // Pooled database handle
}

// New creates a Store over a database handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UserExists reports whether a username is registered
func (s *Store) UserExists(username string) (bool, error) {
	var count int64 // Matching row count
	if err := s.db.Model(&domain.User{}).Where("name = ?", username).Count(&count).Error; err != nil {
		logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("User lookup failed")
		return false, err
	}
	return count > 0, nil
}

// IsAdmin reports whether a user carries the admin flag
func (s *Store) IsAdmin(username string) (bool, error) {
	var user domain.User // Fetch user from database
	if err := s.db.Where("name = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound // Unknown user
		}
		logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("Admin lookup failed")
		return false, err
	}
	return user.IsAdmin, nil
}

// AddUser inserts a User and its zero-balance Account in one transaction
func (s *Store) AddUser(username string) error {
	// Atomic insert of both rows
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Create the user row
		if err := tx.Create(&domain.User{Name: username}).Error; err != nil {
			return err // Return error to rollback
		}
		// Create the account row with a zero balance
		if err := tx.Create(&domain.Account{Username: username, Balance: decimal.Zero}).Error; err != nil {
			return err // Return error to rollback
		}
		return nil // Commit transaction
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("Add user failed")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists // Duplicate username
		}
		return err
	}
	return nil
}

// AccountBalance returns the cash balance of a user's account
func (s *Store) AccountBalance(username string) (decimal.Decimal, error) {
	var account domain.Account // Fetch account from database
	if err := s.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrAccountNotFound // Missing account
		}
		logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("Balance lookup failed")
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Buy upserts the holding, appends a trade and debits the account, atomically
func (s *Store) Buy(username, ticker string, price, shares decimal.Decimal, assetType string) error {
	cost := price.Mul(shares) // Total cost of the purchase
	// All three writes or none
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Upsert the holding, accumulating shares on conflict
		holding := domain.OwnedAsset{Username: username, Ticker: ticker, Shares: shares, AssetType: assetType}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "ticker"}},
			DoUpdates: clause.Assignments(map[string]any{"shares": gorm.Expr("shares + ?", shares)}),
		}).Create(&holding).Error; err != nil {
			return err // Return error to rollback
		}
		// Append the trade record
		trade := domain.Trade{
			Username:  username,             // Buyer
			Ticker:    ticker,               // Asset ticker
			Price:     price,                // Execution price
			Shares:    shares,               // Purchased quantity
			Type:      domain.TradeTypeBuy,  // Trade side
			AssetType: assetType,            // stock or crypto
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err // Return error to rollback
		}
		// Debit the account balance
		res := tx.Model(&domain.Account{}).Where("username = ?", username).
			Update("balance", gorm.Expr("balance - ?", cost))
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return ErrAccountNotFound // No account to debit
		}
		return nil // Commit transaction
	})
	if err != nil {
		// Log the error with context
		logrus.WithFields(logrus.Fields{
			"username": username,       // Buyer
			"ticker":   ticker,         // Asset ticker
			"shares":   shares.String(), // Purchased quantity
			"cost":     cost.String(),  // Total cost
			"error":    err.Error(),    // Error message
		}).Error("Buy failed")
		return err
	}
	// Log successful purchase
	logrus.WithFields(logrus.Fields{
		"username": username,        // Buyer
		"ticker":   ticker,          // Asset ticker
		"shares":   shares.String(), // Purchased quantity
		"cost":     cost.String(),   // Total cost
		"type":     domain.TradeTypeBuy,
	}).Info("Trade executed")
	return nil
}

// Sell decrements the holding, appends a trade and credits the account, atomically.
// Selling more shares than held is rejected with ErrInsufficientShares.
func (s *Store) Sell(username, ticker string, price, shares decimal.Decimal) error {
	proceeds := price.Mul(shares) // Total proceeds of the sale
	// All three writes or none
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the holding row for the duration of the transaction
		var holding domain.OwnedAsset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("username = ? AND ticker = ?", username, ticker).
			First(&holding).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound // Nothing held for this ticker
			}
			return err // Return error to rollback
		}
		// Reject overselling
		if holding.Shares.LessThan(shares) {
			return ErrInsufficientShares
		}
		remaining := holding.Shares.Sub(shares) // Shares left after the sale
		if remaining.IsZero() {
			// Drop the holding entirely when sold out
			if err := tx.Where("username = ? AND ticker = ?", username, ticker).
				Delete(&domain.OwnedAsset{}).Error; err != nil {
				return err // Return error to rollback
			}
		} else {
			// Decrement the held quantity
			if err := tx.Model(&domain.OwnedAsset{}).
				Where("username = ? AND ticker = ?", username, ticker).
				Update("shares", remaining).Error; err != nil {
				return err // Return error to rollback
			}
		}
		// Append the trade record, carrying the holding's asset type
		trade := domain.Trade{
			Username:  username,             // Seller
			Ticker:    ticker,               // Asset ticker
			Price:     price,                // Execution price
			Shares:    shares,               // Sold quantity
			Type:      domain.TradeTypeSell, // Trade side
			AssetType: holding.AssetType,    // stock or crypto
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err // Return error to rollback
		}
		// Credit the account balance
		res := tx.Model(&domain.Account{}).Where("username = ?", username).
			Update("balance", gorm.Expr("balance + ?", proceeds))
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return ErrAccountNotFound // No account to credit
		}
		return nil // Commit transaction
	})
	if err != nil {
		// Log the error with context
		logrus.WithFields(logrus.Fields{
			"username": username,        // Seller
			"ticker":   ticker,          // Asset ticker
			"shares":   shares.String(), // Sold quantity
			"error":    err.Error(),     // Error message
		}).Error("Sell failed")
		return err
	}
	// Log successful sale
	logrus.WithFields(logrus.Fields{
		"username": username,          // Seller
		"ticker":   ticker,            // Asset ticker
		"shares":   shares.String(),   // Sold quantity
		"proceeds": proceeds.String(), // Total proceeds
		"type":     domain.TradeTypeSell,
	}).Info("Trade executed")
	return nil
}

// OwnedShares returns the held quantity for a (user, ticker) pair, zero when unheld
func (s *Store) OwnedShares(username, ticker string) (decimal.Decimal, error) {
	var holding domain.OwnedAsset
	err := s.db.Where("username = ? AND ticker = ?", username, ticker).First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil // Nothing held
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"username": username, "ticker": ticker, "error": err.Error()}).Error("Holding lookup failed")
		return decimal.Zero, err
	}
	return holding.Shares, nil
}

// GetAssets returns all holdings of a user
func (s *Store) GetAssets(username string) ([]domain.OwnedAsset, error) {
	var assets []domain.OwnedAsset
	if err := s.db.Where("username = ?", username).Order("ticker").Find(&assets).Error; err != nil {
		logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("Assets lookup failed")
		return nil, err
	}
	return assets, nil
}

// GetTradeHistory returns a user's trades, newest first
func (s *Store) GetTradeHistory(username string) ([]domain.Trade, error) {
	var trades []domain.Trade
	if err := s.db.Where("username = ?", username).Order("created_at desc").Find(&trades).Error; err != nil {
		logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("Trade history lookup failed")
		return nil, err
	}
	return trades, nil
}

// GetAllUsers returns every registered user
func (s *Store) GetAllUsers() ([]domain.User, error) {
	var users []domain.User
	if err := s.db.Order("name").Find(&users).Error; err != nil {
		logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("User listing failed")
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a user and all dependent rows in one transaction
func (s *Store) DeleteUser(username string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Dependent rows first: trades, holdings, account, then the user
		if err := tx.Where("username = ?", username).Delete(&domain.Trade{}).Error; err != nil {
			return err // Return error to rollback
		}
		if err := tx.Where("username = ?", username).Delete(&domain.OwnedAsset{}).Error; err != nil {
			return err // Return error to rollback
		}
		if err := tx.Where("username = ?", username).Delete(&domain.Account{}).Error; err != nil {
			return err // Return error to rollback
		}
		res := tx.Where("name = ?", username).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound // Nothing to delete
		}
		return nil // Commit transaction
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("Delete user failed")
		return err
	}
	logrus.WithFields(logrus.Fields{"username": username}).Info("User deleted")
	return nil
}
