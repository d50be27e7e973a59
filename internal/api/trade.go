package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"exchange_system/internal/domain" // Domain models
	"exchange_system/internal/quoter" // Price fetching
	"exchange_system/internal/store"  // Typed store errors
	"exchange_system/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// invalidateLeaderboard drops the cached ranking after a write that changes
// net worth; the next leaderboard render recomputes it
func invalidateLeaderboard(c *gin.Context, rdb *redis.Client) {
	if rdb != nil {
		_ = utils.DeleteCache(c.Request.Context(), rdb, leaderboardCacheKey)
	}
}

// BuyRequest carries a purchase order
type BuyRequest struct {
	Ticker    string          `json:"ticker" binding:"required"`                        // Asset ticker
	Shares    decimal.Decimal `json:"shares" binding:"required"`                        // Share quantity
	AssetType string          `json:"asset_type" binding:"required,oneof=stock crypto"` // stock or crypto
}

// SellRequest carries a sale order
type SellRequest struct {
	Ticker string          `json:"ticker" binding:"required"` // Asset ticker
	Shares decimal.Decimal `json:"shares" binding:"required"` // Share quantity
}

// BuyHandler executes a purchase at the current market price
func BuyHandler(st Store, q quoter.Quoter, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("username") // Set by the session middleware
		var req BuyRequest                  // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || !req.Shares.IsPositive() {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ticker := strings.ToUpper(req.Ticker) // Tickers are stored uppercase
		// Quote the current market price; clients never set their own price
		price, err := quoter.FetchPrice(c.Request.Context(), q, ticker, req.AssetType)
		if err != nil {
			logrus.WithFields(logrus.Fields{"ticker": ticker, "error": err.Error()}).Error("Price lookup failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch price"})
			return
		}
		// Execute the purchase atomically
		if err := st.Buy(username, ticker, price, req.Shares, req.AssetType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Buy failed"})
			return
		}
		// Invalidate the cached leaderboard, net worth changed
		invalidateLeaderboard(c, rdb)
		c.JSON(http.StatusOK, gin.H{
			"message": "Trade executed successfully",           // Confirmation
			"ticker":  ticker,                                  // Purchased ticker
			"shares":  req.Shares,                              // Purchased quantity
			"price":   price.StringFixed(2),                    // Execution price
			"cost":    price.Mul(req.Shares).StringFixed(2),    // Total cost
		})
	}
}

// SellHandler executes a sale at the current market price
func SellHandler(st Store, q quoter.Quoter, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("username") // Set by the session middleware
		var req SellRequest                 // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || !req.Shares.IsPositive() {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ticker := strings.ToUpper(req.Ticker) // Tickers are stored uppercase
		// The asset type of the sale comes from the user's own holding
		holding, ok, err := findHolding(st, username, ticker)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sell failed"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You don't own this asset"})
			return
		}
		// Quote the current market price
		price, err := quoter.FetchPrice(c.Request.Context(), q, ticker, holding.AssetType)
		if err != nil {
			logrus.WithFields(logrus.Fields{"ticker": ticker, "error": err.Error()}).Error("Price lookup failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch price"})
			return
		}
		// Execute the sale atomically; overselling is rejected
		if err := st.Sell(username, ticker, price, req.Shares); err != nil {
			if errors.Is(err, store.ErrInsufficientShares) || errors.Is(err, store.ErrAssetNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient shares"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sell failed"})
			return
		}
		// Invalidate the cached leaderboard, net worth changed
		invalidateLeaderboard(c, rdb)
		c.JSON(http.StatusOK, gin.H{
			"message":  "Trade executed successfully",        // Confirmation
			"ticker":   ticker,                               // Sold ticker
			"shares":   req.Shares,                           // Sold quantity
			"price":    price.StringFixed(2),                 // Execution price
			"proceeds": price.Mul(req.Shares).StringFixed(2), // Total proceeds
		})
	}
}

// TradeHistoryHandler returns the signed-in user's trades, newest first
func TradeHistoryHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("username") // Set by the session middleware
		trades, err := st.GetTradeHistory(username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trades"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"trades": trades,      // Trade records
			"count":  len(trades), // Number of trades
		})
	}
}

// findHolding returns the user's holding for a ticker, if any
func findHolding(st Store, username, ticker string) (domain.OwnedAsset, bool, error) {
	assets, err := st.GetAssets(username)
	if err != nil {
		return domain.OwnedAsset{}, false, err
	}
	for _, asset := range assets {
		if asset.Ticker == ticker {
			return asset, true, nil
		}
	}
	return domain.OwnedAsset{}, false, nil
}
