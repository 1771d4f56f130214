package serverApp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthWithoutBackends(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	Setup(e, context.Background(), nil, nil, nil)

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Service map[string]struct {
			Status string `json:"status"`
		} `json:"service"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Service["redis"].Status)
	assert.Equal(t, "unhealthy", body.Service["rabbitmq"].Status)
}

func TestCallbackRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	Setup(e, context.Background(), nil, nil, nil)

	paths := map[string]bool{}
	for _, route := range e.Routes() {
		paths[route.Method+" "+route.Path] = true
	}
	for _, path := range []string{
		"POST /api/v1/mpesa/callback/stk",
		"POST /api/v1/mpesa/callback/b2c",
		"POST /api/v1/mpesa/callback/transaction-status",
		"POST /api/v1/mpesa/callback/account-balance",
		"POST /api/v1/mpesa/callback/reversal",
		"POST /api/v1/mpesa/callback/timeout/:kind",
		"POST /api/v1/mpesa/stk-push",
		"POST /api/v1/mpesa/reversal",
	} {
		assert.True(t, paths[path], path)
	}
}
