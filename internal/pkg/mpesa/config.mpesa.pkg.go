package mpesa

import (
	"fmt"
	"time"
)

type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

func (e Environment) IsValid() bool {
	return e == Sandbox || e == Production
}

func (e Environment) BaseURL() string {
	if e == Production {
		return "https://api.safaricom.co.ke"
	}
	return "https://sandbox.safaricom.co.ke"
}

const (
	oauthTokenPath        = "/oauth/v1/generate"
	stkPushPath           = "/mpesa/stkpush/v1/processrequest"
	stkQueryPath          = "/mpesa/stkpushquery/v1/query"
	b2cPaymentPath        = "/mpesa/b2c/v1/paymentrequest"
	b2bPaymentPath        = "/mpesa/b2b/v1/paymentrequest"
	c2bRegisterPath       = "/mpesa/c2b/v1/registerurl"
	c2bSimulatePath       = "/mpesa/c2b/v1/simulate"
	accountBalancePath    = "/mpesa/accountbalance/v1/query"
	transactionStatusPath = "/mpesa/transactionstatus/v1/query"
	reversalPath          = "/mpesa/reversal/v1/request"
)

type Config struct {
	ConsumerKey       string
	ConsumerSecret    string
	Environment       Environment
	Passkey           string
	ShortCode         string
	InitiatorName     string
	InitiatorPassword string
	CertificatePath   string
	Timeout           time.Duration
	ConnectTimeout    time.Duration

	// BaseURL overrides the environment's host.
	BaseURL string
}

func (c *Config) validate() error {
	if c.ConsumerKey == "" {
		return fmt.Errorf("mpesa: consumer key not configured")
	}
	if c.ConsumerSecret == "" {
		return fmt.Errorf("mpesa: consumer secret not configured")
	}
	if !c.Environment.IsValid() {
		return fmt.Errorf("mpesa: invalid environment %q, must be sandbox or production", c.Environment)
	}
	return nil
}

func (c *Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return c.Environment.BaseURL()
}

// TokenCache is the key/value store shared by token and credential caching.
// Values are stored JSON encoded; Get returns "" for a missing key.
type TokenCache interface {
	Set(key string, value any, expiration time.Duration) error
	Get(key string) (string, error)
}
