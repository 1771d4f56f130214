package mpesa

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"mpesa-gateway/internal/common/models"
	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"
	"mpesa-gateway/internal/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testQueue = "mpesa.callbacks"

const stkBody = `{"Body":{"stkCallback":{"MerchantRequestID":"29115-34620561-1","CheckoutRequestID":"ws_CO_191220191020363925","ResultCode":0,"ResultDesc":"The service request is processed successfully.","CallbackMetadata":{"Item":[{"Name":"Amount","Value":1.00},{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"},{"Name":"PhoneNumber","Value":254708374149}]}}}}`

const b2cBody = `{"Result":{"ResultType":0,"ResultCode":2001,"ResultDesc":"The initiator information is invalid.","OriginatorConversationID":"10571-7910404-1","ConversationID":"AG_20191219_00004e48cf7e3533f581","TransactionID":"NLJ41HAY6Q"}}`

const balanceBody = `{"Result":{"ResultType":0,"ResultCode":0,"ResultDesc":"ok","OriginatorConversationID":"16917-22577599-3","ConversationID":"AG_20200206_00005e091a8ec6b9eac5","TransactionID":"OA90000000","ResultParameters":{"ResultParameter":[{"Key":"AccountBalance","Value":"Working Account|KES|700000.00|700000.00|0.00|0.00&Float Account|KES|0|0|0|0"}]}}}`

var receivedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestService(publisher rabbitmq.IPublisher, gateway Gateway) *Service {
	svc := NewService(context.Background(), gateway, publisher, testQueue).(*Service)
	svc.now = func() time.Time { return receivedAt }
	return svc
}

func messageOfType(msgType string) any {
	return mock.MatchedBy(func(msg *rabbitmq.Message) bool { return msg.Type == msgType })
}

func TestHandleCallback(t *testing.T) {
	tests := []struct {
		name          string
		kind          mpesaPkg.CallbackKind
		body          string
		publishErr    error
		expectPublish bool
		expectedCode  int
		check         func(t *testing.T, event *models.CallbackEvent)
	}{
		{
			name:          "stk success",
			kind:          mpesaPkg.StkPushCallback,
			body:          stkBody,
			expectPublish: true,
			expectedCode:  http.StatusOK,
			check: func(t *testing.T, event *models.CallbackEvent) {
				assert.Equal(t, "stk", event.Kind)
				assert.True(t, event.Successful)
				assert.Equal(t, "29115-34620561-1", event.MerchantRequestID)
				assert.Equal(t, "ws_CO_191220191020363925", event.CheckoutRequestID)
				assert.Empty(t, event.TransactionID)
				assert.True(t, strings.HasPrefix(event.ID, "cb_"))
				assert.Equal(t, receivedAt, event.ReceivedAt)
				assert.JSONEq(t, stkBody, string(event.Payload))
			},
		},
		{
			name:          "b2c failure is still accepted",
			kind:          mpesaPkg.B2CCallback,
			body:          b2cBody,
			expectPublish: true,
			expectedCode:  http.StatusOK,
			check: func(t *testing.T, event *models.CallbackEvent) {
				assert.False(t, event.Successful)
				assert.Equal(t, 2001, event.ResultCode)
				assert.Equal(t, "10571-7910404-1", event.OriginatorConversationID)
				assert.Equal(t, "AG_20191219_00004e48cf7e3533f581", event.ConversationID)
				assert.Equal(t, "NLJ41HAY6Q", event.TransactionID)
			},
		},
		{
			name:         "invalid json",
			kind:         mpesaPkg.StkPushCallback,
			body:         `{"Body":`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "wrong envelope for kind",
			kind:         mpesaPkg.StkPushCallback,
			body:         b2cBody,
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "missing identity field",
			kind:         mpesaPkg.ReversalCallback,
			body:         `{"Result":{"ResultCode":0,"OriginatorConversationID":"a","ConversationID":"b"}}`,
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:          "publish failure",
			kind:          mpesaPkg.StkPushCallback,
			body:          stkBody,
			publishErr:    assert.AnError,
			expectPublish: true,
			expectedCode:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := new(MockPublisher)
			if tt.expectPublish {
				publisher.On("Publish", mock.Anything, testQueue, messageOfType(CallbackEventType)).Return(tt.publishErr).Once()
			}

			res := newTestService(publisher, new(MockGateway)).HandleCallback(tt.kind, []byte(tt.body))
			assert.Equal(t, tt.expectedCode, res.Code)
			publisher.AssertExpectations(t)
			if !tt.expectPublish {
				publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
			}

			if tt.check != nil {
				event, ok := res.Data.(*models.CallbackEvent)
				require.True(t, ok)
				tt.check(t, event)

				msg := publisher.Calls[0].Arguments.Get(2).(*rabbitmq.Message)
				var published models.CallbackEvent
				require.NoError(t, json.Unmarshal(msg.Body, &published))
				assert.Equal(t, event.ID, published.ID)
			}
		})
	}
}

func TestHandleTimeout(t *testing.T) {
	t.Run("published", func(t *testing.T) {
		publisher := new(MockPublisher)
		publisher.On("Publish", mock.Anything, testQueue, messageOfType(TimeoutEventType)).Return(nil).Once()

		res := newTestService(publisher, new(MockGateway)).HandleTimeout(mpesaPkg.B2CCallback, []byte(`{"anything":"goes"}`))
		assert.Equal(t, http.StatusOK, res.Code)

		event, ok := res.Data.(*models.TimeoutEvent)
		require.True(t, ok)
		assert.Equal(t, "b2c", event.Kind)
		assert.True(t, strings.HasPrefix(event.ID, "tmo_"))
		publisher.AssertExpectations(t)
	})

	t.Run("not json", func(t *testing.T) {
		publisher := new(MockPublisher)
		res := newTestService(publisher, new(MockGateway)).HandleTimeout(mpesaPkg.B2CCallback, []byte(`timeout`))
		assert.Equal(t, http.StatusBadRequest, res.Code)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish failure", func(t *testing.T) {
		publisher := new(MockPublisher)
		publisher.On("Publish", mock.Anything, testQueue, mock.Anything).Return(assert.AnError)
		res := newTestService(publisher, new(MockGateway)).HandleTimeout(mpesaPkg.ReversalCallback, []byte(`{}`))
		assert.Equal(t, http.StatusInternalServerError, res.Code)
	})
}

func delivery(t *testing.T, msgType string, payload any) *amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return &amqp.Delivery{Type: msgType, Body: body}
}

func TestConsumeEvent(t *testing.T) {
	svc := newTestService(new(MockPublisher), new(MockGateway))
	ctx := context.Background()

	event := func(kind, body string) models.CallbackEvent {
		return models.CallbackEvent{ID: "cb_1", Kind: kind, ReceivedAt: receivedAt, Payload: json.RawMessage(body)}
	}

	tests := []struct {
		name        string
		msg         *amqp.Delivery
		expectError bool
	}{
		{name: "stk callback", msg: delivery(t, CallbackEventType, event("stk", stkBody))},
		{name: "failed b2c callback", msg: delivery(t, CallbackEventType, event("b2c", b2cBody))},
		{name: "account balance callback", msg: delivery(t, CallbackEventType, event("account-balance", balanceBody))},
		{name: "untyped message is a callback", msg: delivery(t, "", event("stk", stkBody))},
		{name: "timeout", msg: delivery(t, TimeoutEventType, models.TimeoutEvent{ID: "tmo_1", Kind: "b2c", Payload: json.RawMessage(`{}`)})},
		{name: "unknown type is dropped", msg: &amqp.Delivery{Type: "other", Body: []byte("x")}},
		{name: "undecodable event", msg: &amqp.Delivery{Type: CallbackEventType, Body: []byte("x")}, expectError: true},
		{name: "unknown kind", msg: delivery(t, CallbackEventType, event("c2b", stkBody)), expectError: true},
		{name: "malformed payload", msg: delivery(t, CallbackEventType, event("reversal", stkBody)), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ConsumeEvent(ctx, tt.msg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, svc.ConsumeEvent(cancelled, delivery(t, CallbackEventType, event("stk", stkBody))), context.Canceled)
}
