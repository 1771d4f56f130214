package mpesa

import (
	"mpesa-gateway/internal/pkg/middleware"
	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	mpesa := e.Group("/v1/mpesa")

	callbacks := mpesa.Group("/callback")
	callbacks.POST("/stk", h.Callback(mpesaPkg.StkPushCallback))
	callbacks.POST("/b2c", h.Callback(mpesaPkg.B2CCallback))
	callbacks.POST("/transaction-status", h.Callback(mpesaPkg.TransactionStatusCallback))
	callbacks.POST("/account-balance", h.Callback(mpesaPkg.AccountBalanceCallback))
	callbacks.POST("/reversal", h.Callback(mpesaPkg.ReversalCallback))
	callbacks.POST("/timeout/:kind", h.Timeout)

	api := mpesa.Group("", middleware.AuthMiddleware())
	api.POST("/stk-push", h.StkPush)
	api.POST("/stk-query", h.StkQuery)
	api.POST("/b2c", h.B2C)
	api.POST("/b2b", h.B2B)
	api.POST("/c2b/register", h.C2BRegister)
	api.POST("/c2b/simulate", h.C2BSimulate)
	api.POST("/account-balance", h.AccountBalance)
	api.POST("/transaction-status", h.TransactionStatus)
	api.POST("/reversal", h.Reversal)
}
