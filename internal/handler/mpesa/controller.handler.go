package mpesa

import (
	"context"
	"net/http"

	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/helper"
	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"
	mpesaService "mpesa-gateway/internal/service/mpesa"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx          context.Context
	mpesaService mpesaService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, mpesaService mpesaService.IService) IHandler {
	return &Handler{
		ctx:          ctx,
		mpesaService: mpesaService,
	}
}

// bind decodes the JSON body into req, answering 400 when it cannot.
func bind[T any](c *gin.Context) (*T, bool) {
	send := c.MustGet("send").(func(r *types.Response))

	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return nil, false
	}
	return &req, true
}

// StkPush godoc
// @Summary      Initiate an STK push
// @Tags         M-Pesa
// @Accept       json
// @Produce      json
// @Param        request  body      mpesaPkg.StkPushRequest  true  "STK push request"
// @Success      200      {object}  types.ResponseAPI{data=mpesaPkg.StkPushResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      502      {object}  types.ResponseAPI
// @Router       /v1/mpesa/stk-push [post]
func (h *Handler) StkPush(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.StkPushRequest](c); ok {
		send(h.mpesaService.StkPush(c.Request.Context(), req))
	}
}

func (h *Handler) StkQuery(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.StkQueryRequest](c); ok {
		send(h.mpesaService.StkQuery(c.Request.Context(), req))
	}
}

// B2C godoc
// @Summary      Pay out to a customer
// @Tags         M-Pesa
// @Accept       json
// @Produce      json
// @Param        request  body      mpesaPkg.B2CRequest  true  "B2C request"
// @Success      200      {object}  types.ResponseAPI{data=mpesaPkg.AsyncResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      502      {object}  types.ResponseAPI
// @Router       /v1/mpesa/b2c [post]
func (h *Handler) B2C(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.B2CRequest](c); ok {
		send(h.mpesaService.B2C(c.Request.Context(), req))
	}
}

func (h *Handler) B2B(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.B2BRequest](c); ok {
		send(h.mpesaService.B2B(c.Request.Context(), req))
	}
}

func (h *Handler) C2BRegister(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.C2BRegisterRequest](c); ok {
		send(h.mpesaService.C2BRegister(c.Request.Context(), req))
	}
}

func (h *Handler) C2BSimulate(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.C2BSimulateRequest](c); ok {
		send(h.mpesaService.C2BSimulate(c.Request.Context(), req))
	}
}

func (h *Handler) AccountBalance(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.AccountBalanceRequest](c); ok {
		send(h.mpesaService.AccountBalance(c.Request.Context(), req))
	}
}

func (h *Handler) TransactionStatus(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.TransactionStatusRequest](c); ok {
		send(h.mpesaService.TransactionStatus(c.Request.Context(), req))
	}
}

// Reversal godoc
// @Summary      Reverse a completed transaction
// @Tags         M-Pesa
// @Accept       json
// @Produce      json
// @Param        request  body      mpesaPkg.ReversalRequest  true  "Reversal request"
// @Success      200      {object}  types.ResponseAPI{data=mpesaPkg.AsyncResponse}
// @Router       /v1/mpesa/reversal [post]
func (h *Handler) Reversal(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	if req, ok := bind[mpesaPkg.ReversalRequest](c); ok {
		send(h.mpesaService.Reversal(c.Request.Context(), req))
	}
}
