package helper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/basic":
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)
			assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/bearer":
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"Amount":1}`, string(body))
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errorMessage":"bad"}`))
		}
	}))
	defer server.Close()

	client := NewHTTPClient(&HTTPClientConfig{RequestTimeout: 5 * time.Second})

	res, err := client.HTTPRequest(&HTTPRequestPayload{
		Method: GET,
		URL:    server.URL + "/basic",
		Params: map[string]string{"grant_type": "client_credentials"},
	}, &HTTPRequestConfig{Auth: &BasicAuth{Username: "key", Password: "secret"}})
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.JSONEq(t, `{"ok":true}`, string(res.Data))

	res, err = client.HTTPRequest(&HTTPRequestPayload{
		Method: POST,
		URL:    server.URL + "/bearer",
		Body:   map[string]int{"Amount": 1},
	}, &HTTPRequestConfig{Ctx: context.Background(), BearerToken: "token"})
	require.NoError(t, err)
	assert.False(t, res.IsSuccess())
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHTTPRequestCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient(&HTTPClientConfig{})
	_, err := client.HTTPRequest(&HTTPRequestPayload{Method: GET, URL: server.URL}, &HTTPRequestConfig{Ctx: ctx})
	assert.Error(t, err)
}
