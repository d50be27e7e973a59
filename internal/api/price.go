package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"exchange_system/internal/quoter" // Price fetching

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// StockPriceHandler quotes a single stock ticker from the query string
func StockPriceHandler(q quoter.Quoter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker"))) // Read ticker from query string
		// Validate the ticker is present
		if ticker == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ticker"})
			return
		}
		price, err := q.FetchStockPrice(c.Request.Context(), ticker) // Quote the provider
		if err != nil {
			logrus.WithFields(logrus.Fields{"ticker": ticker, "error": err.Error()}).Error("Price lookup failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch price"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ticker": ticker,               // Quoted ticker
			"price":  price.StringFixed(2), // Price to exactly 2 decimals
		})
	}
}
