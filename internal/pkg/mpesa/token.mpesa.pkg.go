package mpesa

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mpesa-gateway/internal/pkg/helper"
	"mpesa-gateway/internal/pkg/logger"

	"github.com/spf13/cast"
)

const (
	accessTokenKey    = "mpesa_access_token"
	tokenSafetyMargin = 3 * time.Second
)

// AccessToken is the cached OAuth token. ExpiresAt already has the safety
// margin applied.
type AccessToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *AccessToken) IsActive(now time.Time) bool {
	return t.Token != "" && now.Before(t.ExpiresAt)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   any    `json:"expires_in"`
}

// AccessToken returns the cached token or fetches a new one.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	now := c.now()

	cached, err := c.cache.Get(accessTokenKey)
	if err != nil {
		logger.Warning.Printf("mpesa: token cache read failed: %v", err)
	}
	if cached != "" {
		var token AccessToken
		if err := json.Unmarshal([]byte(cached), &token); err == nil && token.IsActive(now) {
			return token.Token, nil
		}
	}

	token, err := c.fetchAccessToken(ctx)
	if err != nil {
		return "", err
	}

	ttl := token.ExpiresAt.Sub(now)
	if ttl > 0 {
		if err := c.cache.Set(accessTokenKey, token, ttl); err != nil {
			logger.Warning.Printf("mpesa: token cache write failed: %v", err)
		}
	}
	return token.Token, nil
}

func (c *Client) fetchAccessToken(ctx context.Context) (*AccessToken, error) {
	res, err := c.http.HTTPRequest(&helper.HTTPRequestPayload{
		Method: helper.GET,
		URL:    c.config.baseURL() + oauthTokenPath,
		Params: map[string]string{"grant_type": "client_credentials"},
	}, &helper.HTTPRequestConfig{
		Ctx: ctx,
		Auth: &helper.BasicAuth{
			Username: c.config.ConsumerKey,
			Password: c.config.ConsumerSecret,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mpesa: access token: %w", err)
	}
	if !res.IsSuccess() {
		return nil, &APIError{StatusCode: res.StatusCode, Body: string(res.Data)}
	}

	var body tokenResponse
	if err := json.Unmarshal(res.Data, &body); err != nil {
		return nil, fmt.Errorf("mpesa: decode access token: %w", err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("mpesa: access token missing from response")
	}

	expiresIn, err := cast.ToInt64E(body.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("mpesa: invalid expires_in %v: %w", body.ExpiresIn, err)
	}

	return &AccessToken{
		Token:     body.AccessToken,
		ExpiresAt: c.now().Add(time.Duration(expiresIn)*time.Second - tokenSafetyMargin),
	}, nil
}
