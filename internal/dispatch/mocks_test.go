package dispatch

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) EnsureSession(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockClient) RequestMoney(ctx context.Context, target string, amount decimal.Decimal, note string) error {
	args := m.Called(ctx, target, amount, note)
	if fn, ok := args.Get(0).(func(context.Context, string, decimal.Decimal, string) error); ok {
		return fn(ctx, target, amount, note)
	}
	return args.Error(0)
}
