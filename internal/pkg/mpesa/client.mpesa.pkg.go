package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"mpesa-gateway/internal/pkg/helper"
	"mpesa-gateway/internal/pkg/logger"
	"mpesa-gateway/internal/pkg/validation"

	"github.com/google/uuid"
)

// APIError carries a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mpesa: request failed with status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	config *Config
	cache  TokenCache
	http   *helper.HTTPClient
	now    func() time.Time
}

func Setup(cfg *Config, cache TokenCache) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cache == nil {
		return nil, fmt.Errorf("mpesa: token cache is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config: cfg,
		cache:  cache,
		http: helper.NewHTTPClient(&helper.HTTPClientConfig{
			ConnectTimeout: cfg.ConnectTimeout,
			RequestTimeout: timeout,
		}),
		now: time.Now,
	}, nil
}

func (c *Client) Environment() Environment {
	return c.config.Environment
}

// StkPush prompts the customer's phone to authorize a payment.
func (c *Client) StkPush(ctx context.Context, req *StkPushRequest) (*StkPushResponse, error) {
	if req.BusinessShortCode == "" {
		req.BusinessShortCode = c.config.ShortCode
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	req.Timestamp = c.timestamp()
	req.Password = c.password(req.BusinessShortCode, req.Timestamp)
	if req.TransactionType == "" {
		req.TransactionType = CustomerPayBillOnline
	}
	if req.PartyA == "" {
		req.PartyA = req.PhoneNumber
	}
	if req.PartyB == "" {
		req.PartyB = req.BusinessShortCode
	}

	return post[StkPushResponse](ctx, c, stkPushPath, req)
}

func (c *Client) StkQuery(ctx context.Context, req *StkQueryRequest) (*StkQueryResponse, error) {
	if req.BusinessShortCode == "" {
		req.BusinessShortCode = c.config.ShortCode
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	req.Timestamp = c.timestamp()
	req.Password = c.password(req.BusinessShortCode, req.Timestamp)

	return post[StkQueryResponse](ctx, c, stkQueryPath, req)
}

// B2C pays out from the business short code to a customer.
func (c *Client) B2C(ctx context.Context, req *B2CRequest) (*AsyncResponse, error) {
	if req.OriginatorConversationID == "" {
		req.OriginatorConversationID = uuid.NewString()
	}
	if req.InitiatorName == "" {
		req.InitiatorName = c.config.InitiatorName
	}
	if req.PartyA == "" {
		req.PartyA = c.config.ShortCode
	}
	if req.CommandID == "" {
		req.CommandID = BusinessPayment
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	credential, err := c.SecurityCredential()
	if err != nil {
		return nil, err
	}
	req.SecurityCredential = credential

	return post[AsyncResponse](ctx, c, b2cPaymentPath, req)
}

func (c *Client) B2B(ctx context.Context, req *B2BRequest) (*B2BResponse, error) {
	if req.PrimaryShortCode == "" {
		req.PrimaryShortCode = c.config.ShortCode
	}
	if req.RequestRefID == "" {
		req.RequestRefID = uuid.NewString()
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	credential, err := c.SecurityCredential()
	if err != nil {
		return nil, err
	}
	req.SecurityCredential = credential

	return post[B2BResponse](ctx, c, b2bPaymentPath, req)
}

func (c *Client) C2BRegister(ctx context.Context, req *C2BRegisterRequest) (*C2BResponse, error) {
	if req.ShortCode == "" {
		req.ShortCode = c.config.ShortCode
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	return post[C2BResponse](ctx, c, c2bRegisterPath, req)
}

// C2BSimulate is only honoured by the sandbox.
func (c *Client) C2BSimulate(ctx context.Context, req *C2BSimulateRequest) (*C2BResponse, error) {
	if req.ShortCode == "" {
		req.ShortCode = c.config.ShortCode
	}
	if req.CommandID == "" {
		req.CommandID = CustomerPayBillOnline
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if c.config.Environment == Production {
		logger.Warning.Println("mpesa: C2B simulation requested against production")
	}
	return post[C2BResponse](ctx, c, c2bSimulatePath, req)
}

func (c *Client) AccountBalance(ctx context.Context, req *AccountBalanceRequest) (*AsyncResponse, error) {
	if req.Initiator == "" {
		req.Initiator = c.config.InitiatorName
	}
	if req.PartyA == "" {
		req.PartyA = c.config.ShortCode
	}
	req.CommandID = AccountBalanceCommand
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	credential, err := c.SecurityCredential()
	if err != nil {
		return nil, err
	}
	req.SecurityCredential = credential

	return post[AsyncResponse](ctx, c, accountBalancePath, req)
}

func (c *Client) TransactionStatus(ctx context.Context, req *TransactionStatusRequest) (*AsyncResponse, error) {
	if req.Initiator == "" {
		req.Initiator = c.config.InitiatorName
	}
	if req.PartyA == "" {
		req.PartyA = c.config.ShortCode
	}
	req.CommandID = TransactionStatusQuery
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	credential, err := c.SecurityCredential()
	if err != nil {
		return nil, err
	}
	req.SecurityCredential = credential

	return post[AsyncResponse](ctx, c, transactionStatusPath, req)
}

func (c *Client) Reversal(ctx context.Context, req *ReversalRequest) (*AsyncResponse, error) {
	if req.Initiator == "" {
		req.Initiator = c.config.InitiatorName
	}
	req.CommandID = TransactionReversal
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	credential, err := c.SecurityCredential()
	if err != nil {
		return nil, err
	}
	req.SecurityCredential = credential

	return post[AsyncResponse](ctx, c, reversalPath, req)
}

func (c *Client) timestamp() string {
	return c.now().In(nairobi).Format(compactTimeLayout)
}

// password is base64(shortcode + passkey + timestamp).
func (c *Client) password(shortCode, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + c.config.Passkey + timestamp))
}

func post[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.http.HTTPRequest(&helper.HTTPRequestPayload{
		Method: helper.POST,
		URL:    c.config.baseURL() + path,
		Body:   body,
	}, &helper.HTTPRequestConfig{
		Ctx:         ctx,
		BearerToken: token,
	})
	if err != nil {
		return nil, fmt.Errorf("mpesa: %s: %w", path, err)
	}
	if !res.IsSuccess() {
		logger.Error.Printf("mpesa: %s returned %d", path, res.StatusCode)
		return nil, &APIError{StatusCode: res.StatusCode, Body: string(res.Data)}
	}

	var out T
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return nil, fmt.Errorf("mpesa: decode %s response: %w", path, err)
	}
	return &out, nil
}
