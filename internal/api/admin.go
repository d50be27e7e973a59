package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"exchange_system/internal/store" // Typed store errors

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// ListUsersHandler returns every registered user
func ListUsersHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := st.GetAllUsers() // Fetch all users
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users": users,      // Registered users
			"total": len(users), // Total number of users
		})
	}
}

// DeleteUserHandler removes a user together with its account, holdings and trades
func DeleteUserHandler(st Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.ToLower(c.Param("username")) // Target username
		if err := st.DeleteUser(username); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("User deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		// The deleted user must drop out of the cached ranking
		invalidateLeaderboard(c, rdb)
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
