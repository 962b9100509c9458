package middleware

import (
	"github.com/gin-gonic/gin"
)

// WithCSRFCheck guards state-changing calls: the X-CSRF-Token header must
// match the anti-forgery token issued to the user at login. Runs after
// WithAuthCheck, which put userID into the context.
func (am *AuthMiddleware) WithCSRFCheck() gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		userID, exists := gCtx.Get("userID")
		if !exists {
			gCtx.AbortWithStatus(401)
			return
		}
		id, ok := userID.(uint)
		if !ok {
			gCtx.AbortWithStatus(401)
			return
		}

		supplied := gCtx.GetHeader("X-CSRF-Token")
		if supplied == "" {
			gCtx.AbortWithStatus(403)
			return
		}

		stored, err := am.RedisClient.GetCSRFToken(gCtx.Request.Context(), id)
		if err != nil || stored != supplied {
			gCtx.AbortWithStatus(403)
			return
		}

		gCtx.Next()
	}
}
