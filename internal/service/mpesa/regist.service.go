package mpesa

import (
	"context"
	"time"

	types "mpesa-gateway/internal/common/type"
	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"
	"mpesa-gateway/internal/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	CallbackEventType = "mpesa.callback"
	TimeoutEventType  = "mpesa.timeout"
)

// Gateway is the outbound surface of *mpesaPkg.Client.
type Gateway interface {
	StkPush(ctx context.Context, req *mpesaPkg.StkPushRequest) (*mpesaPkg.StkPushResponse, error)
	StkQuery(ctx context.Context, req *mpesaPkg.StkQueryRequest) (*mpesaPkg.StkQueryResponse, error)
	B2C(ctx context.Context, req *mpesaPkg.B2CRequest) (*mpesaPkg.AsyncResponse, error)
	B2B(ctx context.Context, req *mpesaPkg.B2BRequest) (*mpesaPkg.B2BResponse, error)
	C2BRegister(ctx context.Context, req *mpesaPkg.C2BRegisterRequest) (*mpesaPkg.C2BResponse, error)
	C2BSimulate(ctx context.Context, req *mpesaPkg.C2BSimulateRequest) (*mpesaPkg.C2BResponse, error)
	AccountBalance(ctx context.Context, req *mpesaPkg.AccountBalanceRequest) (*mpesaPkg.AsyncResponse, error)
	TransactionStatus(ctx context.Context, req *mpesaPkg.TransactionStatusRequest) (*mpesaPkg.AsyncResponse, error)
	Reversal(ctx context.Context, req *mpesaPkg.ReversalRequest) (*mpesaPkg.AsyncResponse, error)
}

type Service struct {
	ctx       context.Context
	gateway   Gateway
	publisher rabbitmq.IPublisher
	queue     string
	now       func() time.Time
}

type IService interface {
	HandleCallback(kind mpesaPkg.CallbackKind, body []byte) *types.Response
	HandleTimeout(kind mpesaPkg.CallbackKind, body []byte) *types.Response
	ConsumeEvent(ctx context.Context, msg *amqp.Delivery) error

	StkPush(ctx context.Context, req *mpesaPkg.StkPushRequest) *types.Response
	StkQuery(ctx context.Context, req *mpesaPkg.StkQueryRequest) *types.Response
	B2C(ctx context.Context, req *mpesaPkg.B2CRequest) *types.Response
	B2B(ctx context.Context, req *mpesaPkg.B2BRequest) *types.Response
	C2BRegister(ctx context.Context, req *mpesaPkg.C2BRegisterRequest) *types.Response
	C2BSimulate(ctx context.Context, req *mpesaPkg.C2BSimulateRequest) *types.Response
	AccountBalance(ctx context.Context, req *mpesaPkg.AccountBalanceRequest) *types.Response
	TransactionStatus(ctx context.Context, req *mpesaPkg.TransactionStatusRequest) *types.Response
	Reversal(ctx context.Context, req *mpesaPkg.ReversalRequest) *types.Response
}

func NewService(ctx context.Context, gateway Gateway, publisher rabbitmq.IPublisher, queue string) IService {
	return &Service{
		ctx:       ctx,
		gateway:   gateway,
		publisher: publisher,
		queue:     queue,
		now:       time.Now,
	}
}
