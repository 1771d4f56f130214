package mpesa

import (
	"context"
	"errors"
	"net/http"

	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/helper"
	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"
	"mpesa-gateway/internal/pkg/validation"

	"github.com/shopspring/decimal"
)

func (s *Service) StkPush(ctx context.Context, req *mpesaPkg.StkPushRequest) *types.Response {
	res, err := s.gateway.StkPush(ctx, req)
	return respond("STK push", res, err)
}

func (s *Service) StkQuery(ctx context.Context, req *mpesaPkg.StkQueryRequest) *types.Response {
	res, err := s.gateway.StkQuery(ctx, req)
	return respond("STK query", res, err)
}

func (s *Service) B2C(ctx context.Context, req *mpesaPkg.B2CRequest) *types.Response {
	res, err := s.gateway.B2C(ctx, req)
	return respond("B2C payment", res, err)
}

func (s *Service) B2B(ctx context.Context, req *mpesaPkg.B2BRequest) *types.Response {
	res, err := s.gateway.B2B(ctx, req)
	return respond("B2B payment", res, err)
}

func (s *Service) C2BRegister(ctx context.Context, req *mpesaPkg.C2BRegisterRequest) *types.Response {
	res, err := s.gateway.C2BRegister(ctx, req)
	return respond("C2B URL registration", res, err)
}

func (s *Service) C2BSimulate(ctx context.Context, req *mpesaPkg.C2BSimulateRequest) *types.Response {
	res, err := s.gateway.C2BSimulate(ctx, req)
	return respond("C2B simulation", res, err)
}

func (s *Service) AccountBalance(ctx context.Context, req *mpesaPkg.AccountBalanceRequest) *types.Response {
	res, err := s.gateway.AccountBalance(ctx, req)
	return respond("Account balance query", res, err)
}

func (s *Service) TransactionStatus(ctx context.Context, req *mpesaPkg.TransactionStatusRequest) *types.Response {
	res, err := s.gateway.TransactionStatus(ctx, req)
	return respond("Transaction status query", res, err)
}

func (s *Service) Reversal(ctx context.Context, req *mpesaPkg.ReversalRequest) *types.Response {
	res, err := s.gateway.Reversal(ctx, req)
	return respond("Reversal", res, err)
}

// respond maps a gateway call onto the response envelope: invalid input is
// 400, a gateway rejection 502, a missing initiator setup 503.
func respond(operation string, data any, err error) *types.Response {
	if err == nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusOK,
			Message: operation + " accepted",
			Data:    data,
		})
	}

	var (
		validationErr *validation.Error
		apiErr        *mpesaPkg.APIError
	)
	switch {
	case errors.As(err, &validationErr):
		return helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: validationErr.Message, Error: err})
	case errors.As(err, &apiErr):
		return helper.ParseResponse(&types.Response{Code: http.StatusBadGateway, Message: operation + " rejected by M-Pesa", Error: err})
	case errors.Is(err, mpesaPkg.ErrMissingCredential):
		return helper.ParseResponse(&types.Response{Code: http.StatusServiceUnavailable, Message: "Initiator credential is not configured", Error: err})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: operation + " failed", Error: err})
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
