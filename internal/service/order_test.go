package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-bazaar/tickets-api/internal/domain"
)

const testUnitPrice = 10000

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Find(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ConfirmPayment(ctx context.Context, id uint, paidAt time.Time) (domain.Order, error) {
	args := m.Called(ctx, id, paidAt)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Cancel(ctx context.Context, id uint) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Run("accepts totals matching unit price times quantity", func(t *testing.T) {
		repo := &MockOrderRepository{}
		svc := NewOrderService(repo, testUnitPrice)

		for i := 0; i < 20; i++ {
			quantity := rand.Intn(10) + 1
			order := domain.Order{
				BuyerName:   "Hong Gildong",
				BuyerPhone:  "010-1111-2222",
				Quantity:    quantity,
				TotalAmount: testUnitPrice * quantity,
			}

			repo.On("Create", mock.Anything, order).Return(order, nil).Once()

			created, err := svc.CreateOrder(context.Background(), order)
			require.NoError(t, err)
			assert.Equal(t, testUnitPrice*quantity, created.TotalAmount)
		}

		repo.AssertExpectations(t)
	})

	t.Run("rejects mismatched totals without touching the store", func(t *testing.T) {
		repo := &MockOrderRepository{}
		svc := NewOrderService(repo, testUnitPrice)

		_, err := svc.CreateOrder(context.Background(), domain.Order{
			BuyerName:   "Hong Gildong",
			BuyerPhone:  "010-1111-2222",
			Quantity:    2,
			TotalAmount: testUnitPrice*2 - 1,
		})

		assert.ErrorIs(t, err, ErrAmountMismatch)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	t.Run("confirming payment issues tickets once", func(t *testing.T) {
		repo := &MockOrderRepository{}
		svc := NewOrderService(repo, testUnitPrice)

		paidAt := time.Now()
		confirmed := domain.Order{
			ID:       42,
			Quantity: 2,
			Status:   domain.OrderPaid,
			PaidAt:   &paidAt,
			Tickets: []domain.Ticket{
				{TicketNumber: "0001", Status: domain.TicketActive},
				{TicketNumber: "0002", Status: domain.TicketActive},
			},
		}

		repo.On("ConfirmPayment", mock.Anything, uint(42), mock.AnythingOfType("time.Time")).
			Return(confirmed, nil).Once()

		order, err := svc.UpdateOrderStatus(context.Background(), 42, domain.OrderPaid)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderPaid, order.Status)
		assert.Len(t, order.Tickets, 2)

		// A second confirmation is rejected by the store guard.
		repo.On("ConfirmPayment", mock.Anything, uint(42), mock.AnythingOfType("time.Time")).
			Return(domain.Order{}, ErrOrderNotPending).Once()

		_, err = svc.UpdateOrderStatus(context.Background(), 42, domain.OrderPaid)
		assert.ErrorIs(t, err, ErrOrderNotPending)

		repo.AssertExpectations(t)
	})

	t.Run("cancelling a pending order", func(t *testing.T) {
		repo := &MockOrderRepository{}
		svc := NewOrderService(repo, testUnitPrice)

		repo.On("Cancel", mock.Anything, uint(7)).
			Return(domain.Order{ID: 7, Status: domain.OrderCancelled}, nil).Once()

		order, err := svc.UpdateOrderStatus(context.Background(), 7, domain.OrderCancelled)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderCancelled, order.Status)

		repo.AssertExpectations(t)
	})

	t.Run("rejects statuses outside paid and cancelled", func(t *testing.T) {
		repo := &MockOrderRepository{}
		svc := NewOrderService(repo, testUnitPrice)

		_, err := svc.UpdateOrderStatus(context.Background(), 7, domain.OrderPending)
		assert.ErrorIs(t, err, ErrUnsupportedStatus)

		repo.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	})

	t.Run("not found propagates", func(t *testing.T) {
		repo := &MockOrderRepository{}
		svc := NewOrderService(repo, testUnitPrice)

		repo.On("ConfirmPayment", mock.Anything, uint(999), mock.AnythingOfType("time.Time")).
			Return(domain.Order{}, ErrOrderNotFound).Once()

		_, err := svc.UpdateOrderStatus(context.Background(), 999, domain.OrderPaid)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	repo := &MockOrderRepository{}
	svc := NewOrderService(repo, testUnitPrice)

	filter := domain.OrderFilter{Status: domain.OrderPending}
	repo.On("Find", mock.Anything, filter).
		Return([]domain.Order{{ID: 1, Status: domain.OrderPending}}, nil).Once()

	orders, err := svc.ListOrders(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	repo.AssertExpectations(t)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	repo := &MockOrderRepository{}
	svc := NewOrderService(repo, testUnitPrice)

	repo.On("Delete", mock.Anything, uint(3)).Return(nil).Once()
	require.NoError(t, svc.DeleteOrder(context.Background(), 3))

	repo.On("Delete", mock.Anything, uint(4)).Return(ErrOrderNotFound).Once()
	assert.ErrorIs(t, svc.DeleteOrder(context.Background(), 4), ErrOrderNotFound)

	repo.AssertExpectations(t)
}
