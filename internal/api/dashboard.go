package api

import (
	"net/http" // HTTP status codes

	"exchange_system/internal/quoter" // Price fetching

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// DashboardHandler renders the signed-in user's balance, holdings and net worth
func DashboardHandler(store Store, q quoter.Quoter) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("username") // Set by the session middleware
		// Price the holdings and compute net worth
		worth, balance, assets, err := netWorth(c.Request.Context(), store, newPriceMemo(q), username)
		if err != nil {
			logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("Dashboard render failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute net worth"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"title":        "Quorum Exchange Dashboard", // Page title
			"username":     username,                    // Signed-in user
			"cash_balance": balance,                     // Cash balance
			"assets":       assets,                      // Holdings with current prices
			"networth":     worth.StringFixed(2),        // Net worth to 2 decimals
		})
	}
}
