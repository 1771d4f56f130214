package models

import (
	"encoding/json"
	"time"
)

// CallbackEvent is published for every callback the gateway delivers. Payload
// is the body exactly as received so consumers can parse it again.
type CallbackEvent struct {
	ID                       string          `json:"id"`
	Kind                     string          `json:"kind"`
	Successful               bool            `json:"successful"`
	ResultCode               int             `json:"result_code"`
	ResultDesc               string          `json:"result_desc"`
	MerchantRequestID        string          `json:"merchant_request_id,omitempty"`
	CheckoutRequestID        string          `json:"checkout_request_id,omitempty"`
	OriginatorConversationID string          `json:"originator_conversation_id,omitempty"`
	ConversationID           string          `json:"conversation_id,omitempty"`
	TransactionID            string          `json:"transaction_id,omitempty"`
	ReceivedAt               time.Time       `json:"received_at"`
	Payload                  json.RawMessage `json:"payload"`
}

// TimeoutEvent records a queue timeout notice for a request the gateway did
// not process in time.
type TimeoutEvent struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload"`
}
