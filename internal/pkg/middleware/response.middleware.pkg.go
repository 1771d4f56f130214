package middleware

import (
	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/helper"

	"github.com/gin-gonic/gin"
)

// ResponseInit exposes a "send" func that writes a *types.Response as the
// standard envelope and stops the chain.
func ResponseInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("send", func(r *types.Response) {
			r = helper.ParseResponse(r)
			c.AbortWithStatusJSON(r.Code, helper.ToResponseAPI(r, c.GetString(RequestIDKey)))
		})
		c.Next()
	}
}
