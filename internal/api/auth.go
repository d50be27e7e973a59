package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation

	"exchange_system/internal/middleware" // Session helpers
	"exchange_system/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// LoginRequest carries the username from the login form
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"` // Username must be provided
}

// isValidUsername checks if the username contains only lowercase letters and digits
func isValidUsername(username string) bool {
	matched, _ := regexp.MatchString(`^[a-z0-9]+$`, username) // Regex to match alphanumeric characters only
	return matched                                            // Return whether it matched
}

// HomeHandler redirects to the dashboard when a session is present, else to login
func HomeHandler(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.SessionUsername(c, secret); ok {
			c.Redirect(http.StatusFound, "/dashboard") // Signed in
			return
		}
		c.Redirect(http.StatusFound, "/login") // Not signed in
	}
}

// LoginFormHandler renders the login prompt
func LoginFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"title": "Quorum Stock and Crypto Exchange"})
	}
}

// LoginHandler signs a user in, creating the user on first login
func LoginHandler(store Store, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		username := strings.ToLower(req.Username) // Usernames are stored lowercase
		// Validate username
		if !isValidUsername(username) {
			// If username is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be alphanumeric only"})
			return
		}
		exists, err := store.UserExists(username) // Check for an existing user
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true})
			return
		}
		// Create the user and its zero-balance account on first login
		if !exists {
			if err := store.AddUser(username); err != nil {
				logrus.WithFields(logrus.Fields{"username": username, "error": err.Error()}).Error("Login failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": true})
				return
			}
		}
		// Sign the session token and store it in the session cookie
		token, err := utils.GenerateSessionToken(username, secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true})
			return
		}
		c.SetCookie(middleware.SessionCookie, token, 86400, "/", "", false, true)
		c.Redirect(http.StatusFound, "/") // Redirect home
	}
}

// LogoutHandler clears the session cookie
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
		c.Redirect(http.StatusFound, "/login")
	}
}
