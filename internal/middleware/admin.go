package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminChecker reports whether a user carries the admin flag
type AdminChecker interface {
	IsAdmin(username string) (bool, error)
}

// AdminOnlyMiddleware checks the user's admin flag from the store on each request
func AdminOnlyMiddleware(store AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, exists := c.Get("username") // Get username from context
		// Check if username exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		admin, err := store.IsAdmin(username.(string)) // Fetch the admin flag
		if err != nil || !admin {
			// If lookup fails or user is not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
