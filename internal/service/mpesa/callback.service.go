package mpesa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mpesa-gateway/internal/common/models"
	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/helper"
	"mpesa-gateway/internal/pkg/logger"
	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"
	"mpesa-gateway/internal/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandleCallback normalizes a gateway callback and publishes it. The
// response code decides the acknowledgement: below 400 is accepted.
func (s *Service) HandleCallback(kind mpesaPkg.CallbackKind, body []byte) *types.Response {
	decoded, err := mpesaPkg.Decode(body)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid callback body",
			Error:   err,
		})
	}

	result, err := mpesaPkg.Parse(kind, decoded)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Malformed callback envelope",
			Error:   err,
		})
	}

	event, err := s.newCallbackEvent(kind, result, body)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to build callback event",
			Error:   err,
		})
	}

	if err := s.publish(CallbackEventType, event); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to publish callback event",
			Error:   err,
		})
	}

	logger.Info.Printf("mpesa %s callback %s accepted: code=%d desc=%q", kind, event.ID, event.ResultCode, event.ResultDesc)

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: event,
	})
}

// HandleTimeout records a queue timeout notice. The body is kept as sent;
// its shape is not checked.
func (s *Service) HandleTimeout(kind mpesaPkg.CallbackKind, body []byte) *types.Response {
	if !json.Valid(body) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid timeout body",
			Error:   fmt.Errorf("%w: body is not JSON", mpesaPkg.ErrMalformedEnvelope),
		})
	}

	id, err := rabbitmq.NewID("tmo")
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Error: err})
	}

	event := &models.TimeoutEvent{
		ID:         id,
		Kind:       kind.String(),
		ReceivedAt: s.now().UTC(),
		Payload:    json.RawMessage(body),
	}
	if err := s.publish(TimeoutEventType, event); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to publish timeout event",
			Error:   err,
		})
	}

	logger.Warning.Printf("mpesa %s request timed out in the gateway queue: %s", kind, id)

	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: event})
}

func (s *Service) newCallbackEvent(kind mpesaPkg.CallbackKind, result mpesaPkg.Result, body []byte) (*models.CallbackEvent, error) {
	id, err := rabbitmq.NewID("cb")
	if err != nil {
		return nil, err
	}

	event := &models.CallbackEvent{
		ID:         id,
		Kind:       kind.String(),
		Successful: result.IsSuccessful(),
		ResultCode: result.ResultCode(),
		ResultDesc: result.ResultDescription(),
		ReceivedAt: s.now().UTC(),
		Payload:    json.RawMessage(body),
	}

	switch r := result.(type) {
	case *mpesaPkg.StkPushResult:
		event.MerchantRequestID = r.MerchantRequestID()
		event.CheckoutRequestID = r.CheckoutRequestID()
	case mpesaPkg.AsyncResult:
		event.OriginatorConversationID = r.OriginatorConversationID()
		event.ConversationID = r.ConversationID()
		event.TransactionID = r.TransactionID()
	}

	return event, nil
}

func (s *Service) publish(eventType string, payload any) error {
	msg, err := rabbitmq.NewMessage(eventType, payload, nil)
	if err != nil {
		return err
	}
	return s.publisher.Publish(s.ctx, s.queue, msg)
}

// ConsumeEvent is the worker side of the callback queue. It parses the
// stored payload again and logs what the gateway reported.
func (s *Service) ConsumeEvent(ctx context.Context, msg *amqp.Delivery) error {
	switch msg.Type {
	case TimeoutEventType:
		var event models.TimeoutEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("decode timeout event: %w", err)
		}
		logger.Warning.Printf("mpesa %s timeout %s received at %s", event.Kind, event.ID, event.ReceivedAt.Format("2006-01-02T15:04:05Z07:00"))
		return nil
	case CallbackEventType, "":
	default:
		logger.Warning.Printf("mpesa: dropping event of unknown type %q", msg.Type)
		return nil
	}

	var event models.CallbackEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("decode callback event: %w", err)
	}

	kind, err := mpesaPkg.ParseCallbackKind(event.Kind)
	if err != nil {
		return err
	}
	body, err := mpesaPkg.Decode(event.Payload)
	if err != nil {
		return err
	}
	result, err := mpesaPkg.Parse(kind, body)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Named("mpesa").Info("callback consumed",
		zap.String("id", event.ID),
		zap.String("kind", event.Kind),
		zap.Int("result_code", result.ResultCode()),
		zap.Bool("successful", result.IsSuccessful()),
		zap.Time("received_at", event.ReceivedAt),
	)
	describeResult(event.ID, result)
	return nil
}

func describeResult(id string, result mpesaPkg.Result) {
	if !result.IsSuccessful() {
		logger.Info.Printf("mpesa %s %s failed: code=%d desc=%q", result.Kind(), id, result.ResultCode(), result.ResultDescription())
		return
	}

	switch r := result.(type) {
	case *mpesaPkg.StkPushResult:
		logger.Info.Printf("mpesa stk %s: receipt=%s amount=%s phone=%s",
			id, deref(r.ReceiptNumber()), decimalString(r.Amount()), deref(r.PhoneNumber()))
	case *mpesaPkg.B2CResult:
		logger.Info.Printf("mpesa b2c %s: receipt=%s amount=%s receiver=%s",
			id, deref(r.TransactionReceipt()), decimalString(r.TransactionAmount()), deref(r.ReceiverPartyPublicName()))
	case *mpesaPkg.TransactionStatusResult:
		logger.Info.Printf("mpesa transaction status %s: status=%s receipt=%s debit parties=%v",
			id, deref(r.TransactionStatus()), deref(r.ReceiptNumber()), r.DebitPartyNames())
	case *mpesaPkg.AccountBalanceResult:
		balances, err := r.AccountBalances()
		if err != nil {
			logger.Warning.Printf("mpesa account balance %s: %v", id, err)
			return
		}
		logger.Info.Printf("mpesa account balance %s: %s", id, mpesaPkg.FormatBalanceList(balances))
	case *mpesaPkg.ReversalResult:
		logger.Info.Printf("mpesa reversal %s: original=%s amount=%s",
			id, deref(r.OriginalTransactionID()), decimalString(r.Amount()))
	}
}
