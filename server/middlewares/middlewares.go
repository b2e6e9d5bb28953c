package middlewares

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// AdminKey gates the admin API behind the static key in ADMIN_API_KEY,
// expected in the X-Admin-Key request header. This is deliberately not an
// auth protocol: role management lives in the hosting platform, the API only
// needs to keep the admin surface off the public internet.
func AdminKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("ADMIN_API_KEY")
		if expected == "" {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "ADMIN_API_KEY is not configured",
			})
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid admin key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
