package middlewares

import (
	"net/http"

	"github.com/netineti-netineti/AtomicAds/config"
	"github.com/netineti-netineti/AtomicAds/models"

	"github.com/gin-gonic/gin"
)

// AdminRequired must run after AuthMiddleware; it rejects requests by
// users without the admin flag.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetUint("userID")
		if uid == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := config.DB.First(&user, uid).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}

		c.Next()
	}
}
