package mock

import (
	"context"
	"errors"

	dbmock "github.com/mediacloud/sous-chef-kitchen/internal/testutils/mock"
	kord "github.com/mediacloud/sous-chef-kitchen/pkg/domain/order"
)

type OrderInterface struct {
	Impl struct {
		Register func(ctx context.Context, order kord.Order) (int64, error)
		Get      func(ctx context.Context, orderId int64) (kord.Order, error)
		Find     func(ctx context.Context, query kord.FindQuery) ([]kord.Order, error)
	}

	Calls struct {
		Register dbmock.CallLog[kord.Order]
		Get      dbmock.CallLog[int64]
		Find     dbmock.CallLog[kord.FindQuery]
	}
}

func NewOrderInterface() *OrderInterface {
	return &OrderInterface{}
}

var _ kord.Interface = &OrderInterface{}

func (m *OrderInterface) Register(ctx context.Context, order kord.Order) (int64, error) {
	m.Calls.Register = append(m.Calls.Register, order)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, order)
	}
	panic(errors.New("it should not be called"))
}

func (m *OrderInterface) Get(ctx context.Context, orderId int64) (kord.Order, error) {
	m.Calls.Get = append(m.Calls.Get, orderId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, orderId)
	}
	panic(errors.New("it should not be called"))
}

func (m *OrderInterface) Find(ctx context.Context, query kord.FindQuery) ([]kord.Order, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}
