package mpesa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// CallbackKind names one of the asynchronous callbacks the gateway sends.
type CallbackKind string

const (
	StkPushCallback           CallbackKind = "stk"
	B2CCallback               CallbackKind = "b2c"
	TransactionStatusCallback CallbackKind = "transaction-status"
	AccountBalanceCallback    CallbackKind = "account-balance"
	ReversalCallback          CallbackKind = "reversal"
)

var callbackKinds = []CallbackKind{
	StkPushCallback,
	B2CCallback,
	TransactionStatusCallback,
	AccountBalanceCallback,
	ReversalCallback,
}

func (k CallbackKind) String() string { return string(k) }

func (k CallbackKind) IsValid() bool {
	for _, kind := range callbackKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// ParseCallbackKind accepts the route segment used for a callback.
func ParseCallbackKind(value string) (CallbackKind, error) {
	kind := CallbackKind(strings.ToLower(strings.TrimSpace(value)))
	if !kind.IsValid() {
		return "", fmt.Errorf("mpesa: unknown callback kind %q", value)
	}
	return kind, nil
}

// ErrMalformedEnvelope is returned when a callback body lacks the envelope or
// one of its identity fields.
var ErrMalformedEnvelope = errors.New("mpesa: malformed callback envelope")

// debitPartyName recurs in transaction status results.
const debitPartyName = "DebitPartyName"

// Decode reads a callback body. Numbers are kept as json.Number so amounts
// keep the precision they were sent with.
func Decode(data []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var body map[string]any
	if err := decoder.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEnvelope)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after body", ErrMalformedEnvelope)
	}
	return body, nil
}

// Parse dispatches body to the parser for kind.
func Parse(kind CallbackKind, body map[string]any) (Result, error) {
	switch kind {
	case StkPushCallback:
		return ParseStkCallback(body)
	case B2CCallback:
		return ParseB2CCallback(body)
	case TransactionStatusCallback:
		return ParseTransactionStatusCallback(body)
	case AccountBalanceCallback:
		return ParseAccountBalanceCallback(body)
	case ReversalCallback:
		return ParseReversalCallback(body)
	}
	return nil, fmt.Errorf("mpesa: unknown callback kind %q", kind)
}

// ParseStkCallback reads {"Body": {"stkCallback": {...}}}.
func ParseStkCallback(body map[string]any) (*StkPushResult, error) {
	envelope, err := objectAt(body, "Body", "stkCallback")
	if err != nil {
		return nil, err
	}

	merchantRequestID, err := requiredString(envelope, "MerchantRequestID")
	if err != nil {
		return nil, err
	}
	checkoutRequestID, err := requiredString(envelope, "CheckoutRequestID")
	if err != nil {
		return nil, err
	}
	resultCode, err := requiredCode(envelope, "ResultCode")
	if err != nil {
		return nil, err
	}

	var items any
	if metadata, ok := envelope["CallbackMetadata"].(map[string]any); ok {
		items = metadata["Item"]
	}

	return &StkPushResult{
		merchantRequestID: merchantRequestID,
		checkoutRequestID: checkoutRequestID,
		resultCode:        resultCode,
		resultDesc:        optionalString(envelope, "ResultDesc"),
		metadata:          Flatten(items, "Name", "Value"),
	}, nil
}

func ParseB2CCallback(body map[string]any) (*B2CResult, error) {
	result, err := parseTransactionResult(B2CCallback, body)
	if err != nil {
		return nil, err
	}
	return &B2CResult{transactionResult: *result}, nil
}

// ParseTransactionStatusCallback keeps every DebitPartyName the gateway sends.
func ParseTransactionStatusCallback(body map[string]any) (*TransactionStatusResult, error) {
	result, err := parseTransactionResult(TransactionStatusCallback, body, debitPartyName)
	if err != nil {
		return nil, err
	}
	return &TransactionStatusResult{transactionResult: *result}, nil
}

func ParseAccountBalanceCallback(body map[string]any) (*AccountBalanceResult, error) {
	result, err := parseTransactionResult(AccountBalanceCallback, body)
	if err != nil {
		return nil, err
	}
	return &AccountBalanceResult{transactionResult: *result}, nil
}

func ParseReversalCallback(body map[string]any) (*ReversalResult, error) {
	result, err := parseTransactionResult(ReversalCallback, body)
	if err != nil {
		return nil, err
	}
	return &ReversalResult{transactionResult: *result}, nil
}

func parseTransactionResult(kind CallbackKind, body map[string]any, multiValueKeys ...string) (*transactionResult, error) {
	envelope, err := objectAt(body, "Result")
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, 3)
	for _, field := range []string{"OriginatorConversationID", "ConversationID", "TransactionID"} {
		value, err := requiredString(envelope, field)
		if err != nil {
			return nil, err
		}
		ids[field] = value
	}

	resultCode, err := requiredCode(envelope, "ResultCode")
	if err != nil {
		return nil, err
	}
	resultType, _ := cast.ToIntE(envelope["ResultType"])

	var parameters, references any
	if container, ok := envelope["ResultParameters"].(map[string]any); ok {
		parameters = container["ResultParameter"]
	}
	if container, ok := envelope["ReferenceData"].(map[string]any); ok {
		references = container["ReferenceItem"]
	}

	return &transactionResult{
		kind:                     kind,
		resultType:               resultType,
		resultCode:               resultCode,
		resultDesc:               optionalString(envelope, "ResultDesc"),
		originatorConversationID: ids["OriginatorConversationID"],
		conversationID:           ids["ConversationID"],
		transactionID:            ids["TransactionID"],
		params:                   Flatten(parameters, "Key", "Value", multiValueKeys...),
		reference:                Flatten(references, "Key", "Value"),
	}, nil
}

func objectAt(body map[string]any, path ...string) (map[string]any, error) {
	current := body
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedEnvelope, strings.Join(path, "."))
		}
		current = next
	}
	return current, nil
}

// requiredString fails only when field is absent, null or not a scalar. Failed
// results may carry an empty TransactionID.
func requiredString(envelope map[string]any, field string) (string, error) {
	raw, ok := envelope[field]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedEnvelope, field)
	}
	value, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not a string", ErrMalformedEnvelope, field)
	}
	return value, nil
}

func requiredCode(envelope map[string]any, field string) (int, error) {
	raw, ok := envelope[field]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedEnvelope, field)
	}
	if s, isString := raw.(string); isString && strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("%w: empty %s", ErrMalformedEnvelope, field)
	}
	var (
		code int
		err  error
	)
	switch v := raw.(type) {
	case string:
		code, err = strconv.Atoi(strings.TrimSpace(v))
	case json.Number:
		var n int64
		if n, err = v.Int64(); err != nil {
			code, err = cast.ToIntE(v)
		} else {
			code = int(n)
		}
	default:
		code, err = cast.ToIntE(raw)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not numeric", ErrMalformedEnvelope, field)
	}
	return code, nil
}

func optionalString(envelope map[string]any, field string) string {
	raw, ok := envelope[field]
	if !ok || raw == nil {
		return ""
	}
	return cast.ToString(raw)
}

// Acknowledgement is the body returned to the gateway after a callback.
type Acknowledgement struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func Accept() Acknowledgement { return Acknowledgement{ResultCode: 0, ResultDesc: "Success"} }
func Reject() Acknowledgement { return Acknowledgement{ResultCode: 1, ResultDesc: "Failed"} }
