package api

import (
	"context"  // Disconnect cancellation
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Push interval

	"exchange_system/internal/domain" // Asset types
	"exchange_system/internal/quoter" // Price fetching

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/gorilla/websocket"  // WebSocket upgrader
	"github.com/shopspring/decimal" // Decimal money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// PriceUpdate is one pushed price tick
type PriceUpdate struct {
	Ticker    string          `json:"ticker"`     // Quoted ticker
	AssetType string          `json:"asset_type"` // stock or crypto
	Price     decimal.Decimal `json:"price"`      // Current market price
	Timestamp time.Time       `json:"timestamp"`  // Quote time
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Same-origin browser clients only in practice
	},
}

// PriceStreamHandler streams quoted prices for the requested tickers over a
// websocket, one round of quotes every interval
func PriceStreamHandler(q quoter.Quoter, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Parse the requested tickers before upgrading
		raw := strings.TrimSpace(c.Query("tickers"))
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tickers"})
			return
		}
		assetType := c.DefaultQuery("type", domain.AssetTypeStock) // Asset type of the whole stream
		if assetType != domain.AssetTypeStock && assetType != domain.AssetTypeCrypto {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset type"})
			return
		}
		tickers := strings.Split(strings.ToUpper(raw), ",")
		// Upgrade the HTTP connection to a websocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("WebSocket upgrade failed")
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// The request context is not cancelled once the connection is hijacked,
		// so a read pump detects the client closing the socket
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return // Close frame or dead connection
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return // Client went away
			case <-ticker.C:
				// One round of quotes, then push each to the client
				for _, t := range tickers {
					price, err := quoter.FetchPrice(ctx, q, t, assetType)
					if err != nil {
						logrus.WithFields(logrus.Fields{"ticker": t, "error": err.Error()}).Warn("Stream quote failed")
						continue // A failed quote skips one tick, the stream lives on
					}
					update := PriceUpdate{
						Ticker:    t,          // Quoted ticker
						AssetType: assetType,  // stock or crypto
						Price:     price,      // Current price
						Timestamp: time.Now(), // Quote time
					}
					if err := conn.WriteJSON(update); err != nil {
						return // Write error ends the stream
					}
				}
			}
		}
	}
}
