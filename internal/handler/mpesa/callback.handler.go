package mpesa

import (
	"net/http"

	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"

	"github.com/gin-gonic/gin"
)

// Callback returns the handler for one callback kind. The gateway only reads
// the acknowledgement, so the body is always {ResultCode, ResultDesc}.
//
// @Summary      M-Pesa result callback
// @Tags         M-Pesa Callbacks
// @Accept       json
// @Produce      json
// @Success      200  {object}  mpesaPkg.Acknowledgement
// @Failure      400  {object}  mpesaPkg.Acknowledgement
// @Failure      500  {object}  mpesaPkg.Acknowledgement
// @Router       /v1/mpesa/callback/{kind} [post]
func (h *Handler) Callback(kind mpesaPkg.CallbackKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, mpesaPkg.Reject())
			return
		}

		result := h.mpesaService.HandleCallback(kind, body)
		acknowledge(c, result.Code)
	}
}

// Timeout accepts the QueueTimeOutURL notice for any callback kind.
func (h *Handler) Timeout(c *gin.Context) {
	kind, err := mpesaPkg.ParseCallbackKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, mpesaPkg.Reject())
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, mpesaPkg.Reject())
		return
	}

	result := h.mpesaService.HandleTimeout(kind, body)
	acknowledge(c, result.Code)
}

func acknowledge(c *gin.Context, code int) {
	if code >= http.StatusBadRequest {
		c.JSON(code, mpesaPkg.Reject())
		return
	}
	c.JSON(http.StatusOK, mpesaPkg.Accept())
}
