package middleware

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestTimeout gives every request a context deadline so gateway calls
// made on its behalf fail instead of hanging.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,64}$`)

// RequireUserID rejects routes whose :userId is not a usable profile key.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if !userIDPattern.MatchString(userID) {
			log.Println("Rejected user id:", userID)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}
