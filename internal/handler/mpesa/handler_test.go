package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/jwt"
	"mpesa-gateway/internal/pkg/middleware"
	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) called(method string, args ...any) *types.Response {
	return m.MethodCalled(method, args...).Get(0).(*types.Response)
}

func (m *MockService) HandleCallback(kind mpesaPkg.CallbackKind, body []byte) *types.Response {
	return m.called("HandleCallback", kind, body)
}

func (m *MockService) HandleTimeout(kind mpesaPkg.CallbackKind, body []byte) *types.Response {
	return m.called("HandleTimeout", kind, body)
}

func (m *MockService) ConsumeEvent(ctx context.Context, msg *amqp.Delivery) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockService) StkPush(ctx context.Context, req *mpesaPkg.StkPushRequest) *types.Response {
	return m.called("StkPush", ctx, req)
}

func (m *MockService) StkQuery(ctx context.Context, req *mpesaPkg.StkQueryRequest) *types.Response {
	return m.called("StkQuery", ctx, req)
}

func (m *MockService) B2C(ctx context.Context, req *mpesaPkg.B2CRequest) *types.Response {
	return m.called("B2C", ctx, req)
}

func (m *MockService) B2B(ctx context.Context, req *mpesaPkg.B2BRequest) *types.Response {
	return m.called("B2B", ctx, req)
}

func (m *MockService) C2BRegister(ctx context.Context, req *mpesaPkg.C2BRegisterRequest) *types.Response {
	return m.called("C2BRegister", ctx, req)
}

func (m *MockService) C2BSimulate(ctx context.Context, req *mpesaPkg.C2BSimulateRequest) *types.Response {
	return m.called("C2BSimulate", ctx, req)
}

func (m *MockService) AccountBalance(ctx context.Context, req *mpesaPkg.AccountBalanceRequest) *types.Response {
	return m.called("AccountBalance", ctx, req)
}

func (m *MockService) TransactionStatus(ctx context.Context, req *mpesaPkg.TransactionStatusRequest) *types.Response {
	return m.called("TransactionStatus", ctx, req)
}

func (m *MockService) Reversal(ctx context.Context, req *mpesaPkg.ReversalRequest) *types.Response {
	return m.called("Reversal", ctx, req)
}

func newRouter(svc *MockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
	NewHandler(context.Background(), svc).NewRoutes(e.Group("/api"))
	return e
}

func post(e *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestCallbackAcknowledgement(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		kind            mpesaPkg.CallbackKind
		serviceCode     int
		expectedStatus  int
		expectedAckCode int
	}{
		{name: "stk accepted", path: "/api/v1/mpesa/callback/stk", kind: mpesaPkg.StkPushCallback, serviceCode: http.StatusOK, expectedStatus: http.StatusOK, expectedAckCode: 0},
		{name: "b2c accepted", path: "/api/v1/mpesa/callback/b2c", kind: mpesaPkg.B2CCallback, serviceCode: http.StatusOK, expectedStatus: http.StatusOK, expectedAckCode: 0},
		{name: "transaction status accepted", path: "/api/v1/mpesa/callback/transaction-status", kind: mpesaPkg.TransactionStatusCallback, serviceCode: http.StatusOK, expectedStatus: http.StatusOK, expectedAckCode: 0},
		{name: "account balance accepted", path: "/api/v1/mpesa/callback/account-balance", kind: mpesaPkg.AccountBalanceCallback, serviceCode: http.StatusOK, expectedStatus: http.StatusOK, expectedAckCode: 0},
		{name: "reversal malformed envelope", path: "/api/v1/mpesa/callback/reversal", kind: mpesaPkg.ReversalCallback, serviceCode: http.StatusInternalServerError, expectedStatus: http.StatusInternalServerError, expectedAckCode: 1},
		{name: "stk invalid body", path: "/api/v1/mpesa/callback/stk", kind: mpesaPkg.StkPushCallback, serviceCode: http.StatusBadRequest, expectedStatus: http.StatusBadRequest, expectedAckCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("HandleCallback", tt.kind, []byte(`{"Result":{}}`)).Return(&types.Response{Code: tt.serviceCode}).Once()

			w := post(newRouter(svc), tt.path, `{"Result":{}}`, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var ack mpesaPkg.Acknowledgement
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
			assert.Equal(t, tt.expectedAckCode, ack.ResultCode)
			svc.AssertExpectations(t)
		})
	}
}

func TestTimeoutRoute(t *testing.T) {
	t.Run("known kind", func(t *testing.T) {
		svc := new(MockService)
		svc.On("HandleTimeout", mpesaPkg.B2CCallback, []byte(`{}`)).Return(&types.Response{Code: http.StatusOK}).Once()

		w := post(newRouter(svc), "/api/v1/mpesa/callback/timeout/b2c", `{}`, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Success"}`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("unknown kind", func(t *testing.T) {
		svc := new(MockService)
		w := post(newRouter(svc), "/api/v1/mpesa/callback/timeout/c2b", `{}`, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"ResultCode":1,"ResultDesc":"Failed"}`, w.Body.String())
		svc.AssertNotCalled(t, "HandleTimeout", mock.Anything, mock.Anything)
	})
}

func bearer(t *testing.T) map[string]string {
	t.Helper()
	t.Setenv("JWT_SECRET", "handler-secret")
	token, _, err := jwt.GenerateToken(types.ApiClient{ID: uuid.New(), Name: "billing"})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestInitiationRoutes(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		svc := new(MockService)
		w := post(newRouter(svc), "/api/v1/mpesa/stk-push", `{}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var res types.ResponseAPI
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, http.StatusUnauthorized, res.Status)
		assert.NotEmpty(t, res.RequestID)
		svc.AssertNotCalled(t, "StkPush", mock.Anything, mock.Anything)
	})

	t.Run("rejects a bad token", func(t *testing.T) {
		svc := new(MockService)
		w := post(newRouter(svc), "/api/v1/mpesa/b2c", `{}`, map[string]string{"Authorization": "Bearer nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		svc := new(MockService)
		w := post(newRouter(svc), "/api/v1/mpesa/stk-push", `{"Amount":`, bearer(t))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "StkPush", mock.Anything, mock.Anything)
	})

	t.Run("stk push forwarded", func(t *testing.T) {
		svc := new(MockService)
		svc.On("StkPush", mock.Anything, mock.MatchedBy(func(req *mpesaPkg.StkPushRequest) bool {
			return req.PhoneNumber == "254708374149" && req.Amount == 1
		})).Return(&types.Response{
			Code:    http.StatusOK,
			Message: "STK push accepted",
			Data:    &mpesaPkg.StkPushResponse{CheckoutRequestID: "ws_CO_1"},
		}).Once()

		w := post(newRouter(svc), "/api/v1/mpesa/stk-push", `{"Amount":1,"PhoneNumber":"254708374149"}`, mergeHeaders(bearer(t), map[string]string{middleware.RequestIDHeader: "req-1"}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-1", w.Header().Get(middleware.RequestIDHeader))

		var res struct {
			Status    int                      `json:"status"`
			Message   string                   `json:"message"`
			Data      mpesaPkg.StkPushResponse `json:"data"`
			RequestID string                   `json:"request_id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "STK push accepted", res.Message)
		assert.Equal(t, "ws_CO_1", res.Data.CheckoutRequestID)
		assert.Equal(t, "req-1", res.RequestID)
		svc.AssertExpectations(t)
	})

	t.Run("gateway rejection status passes through", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Reversal", mock.Anything, mock.Anything).Return(&types.Response{
			Code:    http.StatusBadGateway,
			Message: "Reversal rejected by M-Pesa",
			Error:   assert.AnError,
		}).Once()

		w := post(newRouter(svc), "/api/v1/mpesa/reversal", `{"TransactionID":"MJ561H6X5O"}`, bearer(t))
		assert.Equal(t, http.StatusBadGateway, w.Code)

		var res types.ResponseAPI
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, assert.AnError.Error(), res.Error)
	})
}

func mergeHeaders(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for key, value := range m {
			out[key] = value
		}
	}
	return out
}
