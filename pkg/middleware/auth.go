package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ClientIDKey = "client_id"

// APITokenAuth accepts "Authorization: Bearer <token>" for any configured
// token and stores the owning client id under ClientIDKey. tokens maps token
// to client id.
func APITokenAuth(tokens map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		clientID := ""
		for known, id := range tokens {
			if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
				clientID = id
			}
		}
		if clientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}
