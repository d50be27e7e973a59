package middleware

import (
	"net/http" // HTTP status codes

	"exchange_system/internal/utils" // Session token helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// SessionCookie is the name of the cookie carrying the signed session token
const SessionCookie = "session"

// SessionUsername returns the signed-in username from a request, if any
func SessionUsername(c *gin.Context, secret string) (string, bool) {
	token, err := c.Cookie(SessionCookie) // Read the session cookie
	if err != nil {
		return "", false // No session cookie
	}
	claims, err := utils.ParseSessionToken(token, secret) // Validate the token
	if err != nil {
		return "", false // Invalid or expired session
	}
	return claims.Username, true
}

// SessionAuthMiddleware requires a valid session cookie and stores the
// username in the context; otherwise it redirects to the login page and stops
func SessionAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := SessionUsername(c, secret)
		if !ok {
			// Redirect and return immediately, nothing after this may run
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("username", username) // Store username in context
		c.Next()                    // Proceed to the next handler
	}
}
