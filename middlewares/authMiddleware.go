package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/utils"
)

// AuthMiddleware requires a Bearer JWT and puts its business and user ids in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token := strings.TrimSpace(auth[len(bearer):])

		claim, err := utils.JwtValidate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var revoked bool
		if exists, err := config.GetRedisObject("RevokedToken:"+token, &revoked); err != nil {
			config.LogError(config.GetLogger(), "middlewares", "AuthMiddleware", "revoked token lookup", nil, err)
		} else if exists && revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx := utils.SetBusinessIdInContext(c.Request.Context(), claim.BusinessID)
		ctx = utils.SetUserIdInContext(ctx, claim.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
