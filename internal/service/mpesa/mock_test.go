package mpesa

import (
	"context"

	mpesaPkg "mpesa-gateway/internal/pkg/mpesa"
	"mpesa-gateway/internal/pkg/rabbitmq"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, queueName string, msg *rabbitmq.Message) error {
	args := m.Called(ctx, queueName, msg)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func result[T any](args mock.Arguments) (*T, error) {
	res, _ := args.Get(0).(*T)
	return res, args.Error(1)
}

func (m *MockGateway) StkPush(ctx context.Context, req *mpesaPkg.StkPushRequest) (*mpesaPkg.StkPushResponse, error) {
	return result[mpesaPkg.StkPushResponse](m.Called(ctx, req))
}

func (m *MockGateway) StkQuery(ctx context.Context, req *mpesaPkg.StkQueryRequest) (*mpesaPkg.StkQueryResponse, error) {
	return result[mpesaPkg.StkQueryResponse](m.Called(ctx, req))
}

func (m *MockGateway) B2C(ctx context.Context, req *mpesaPkg.B2CRequest) (*mpesaPkg.AsyncResponse, error) {
	return result[mpesaPkg.AsyncResponse](m.Called(ctx, req))
}

func (m *MockGateway) B2B(ctx context.Context, req *mpesaPkg.B2BRequest) (*mpesaPkg.B2BResponse, error) {
	return result[mpesaPkg.B2BResponse](m.Called(ctx, req))
}

func (m *MockGateway) C2BRegister(ctx context.Context, req *mpesaPkg.C2BRegisterRequest) (*mpesaPkg.C2BResponse, error) {
	return result[mpesaPkg.C2BResponse](m.Called(ctx, req))
}

func (m *MockGateway) C2BSimulate(ctx context.Context, req *mpesaPkg.C2BSimulateRequest) (*mpesaPkg.C2BResponse, error) {
	return result[mpesaPkg.C2BResponse](m.Called(ctx, req))
}

func (m *MockGateway) AccountBalance(ctx context.Context, req *mpesaPkg.AccountBalanceRequest) (*mpesaPkg.AsyncResponse, error) {
	return result[mpesaPkg.AsyncResponse](m.Called(ctx, req))
}

func (m *MockGateway) TransactionStatus(ctx context.Context, req *mpesaPkg.TransactionStatusRequest) (*mpesaPkg.AsyncResponse, error) {
	return result[mpesaPkg.AsyncResponse](m.Called(ctx, req))
}

func (m *MockGateway) Reversal(ctx context.Context, req *mpesaPkg.ReversalRequest) (*mpesaPkg.AsyncResponse, error) {
	return result[mpesaPkg.AsyncResponse](m.Called(ctx, req))
}

var _ Gateway = (*MockGateway)(nil)
var _ rabbitmq.IPublisher = (*MockPublisher)(nil)
