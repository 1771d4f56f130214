package middleware

import (
	"net/http"
	"strings"

	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/helper"
	"mpesa-gateway/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const ClientKey = "client"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *types.Response))

		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "token not found"}))
			return
		}

		client, err := jwt.ValidateToken(token)
		if err != nil {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "invalid token", Error: err}))
			return
		}

		c.Set(ClientKey, *client)
		c.Next()
	}
}
