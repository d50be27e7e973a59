package api

import (
	"net/http" // HTTP status codes
	"sort"     // Sorting the ranking
	"time"     // Cache TTL

	"exchange_system/internal/quoter" // Price fetching
	"exchange_system/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// leaderboardTTL bounds how long a computed ranking may be served from cache
const leaderboardTTL = 15 * time.Second

// leaderboardCacheKey is the single cache entry for the whole ranking; write
// paths that change net worth delete it
const leaderboardCacheKey = "leaderboard"

// LeaderboardEntry is one row of the net-worth ranking
type LeaderboardEntry struct {
	Username string `json:"username"` // Ranked user
	NetWorth string `json:"networth"` // Net worth to 2 decimals
}

// LeaderboardHandler ranks every user by net worth, descending. The full
// ranking is cached briefly since it is the most expensive render.
func LeaderboardHandler(store Store, q quoter.Quoter, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context() // Redis reads are cancelled with the request
		cacheKey := leaderboardCacheKey
		var cached []LeaderboardEntry
		// If a cached ranking is found, return it
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"title":  "Quorum Exchange Leaderboard", // Page title
					"users":  cached,                        // Ranked users
					"cached": true,                          // Indicate response is from cache
				})
				return
			}
		}
		users, err := store.GetAllUsers() // Every registered user
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		// One memo for the whole request: each distinct ticker is quoted once
		memo := newPriceMemo(q)
		type ranked struct {
			username string
			worth    decimal.Decimal
		}
		ranking := make([]ranked, 0, len(users))
		for _, user := range users {
			worth, _, _, err := netWorth(c.Request.Context(), store, memo, user.Name)
			if err != nil {
				logrus.WithFields(logrus.Fields{"username": user.Name, "error": err.Error()}).Error("Leaderboard render failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute net worth"})
				return
			}
			ranking = append(ranking, ranked{username: user.Name, worth: worth})
		}
		// Descending by net worth; ties break by username so the order is total
		sort.Slice(ranking, func(i, j int) bool {
			if !ranking[i].worth.Equal(ranking[j].worth) {
				return ranking[i].worth.GreaterThan(ranking[j].worth)
			}
			return ranking[i].username < ranking[j].username
		})
		entries := make([]LeaderboardEntry, len(ranking))
		for i, r := range ranking {
			entries[i] = LeaderboardEntry{
				Username: r.username,            // Ranked user
				NetWorth: r.worth.StringFixed(2), // Net worth to 2 decimals
			}
		}
		// Cache the computed ranking
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, entries, leaderboardTTL)
		}
		c.JSON(http.StatusOK, gin.H{
			"title":  "Quorum Exchange Leaderboard", // Page title
			"users":  entries,                       // Ranked users
			"cached": false,                         // Indicate response is not from cache
		})
	}
}
