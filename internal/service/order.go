package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hanbit-bazaar/tickets-api/internal/domain"
	"github.com/hanbit-bazaar/tickets-api/internal/monitoring"
	"github.com/hanbit-bazaar/tickets-api/internal/repository"
)

var (
	ErrOrderNotFound   = repository.ErrOrderNotFound
	ErrOrderNotPending = repository.ErrOrderNotPending

	ErrAmountMismatch    = errors.New("total amount does not match unit price times quantity")
	ErrUnsupportedStatus = errors.New("order status can only be set to paid or cancelled")
)

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	Find(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ConfirmPayment(ctx context.Context, id uint, paidAt time.Time) (domain.Order, error)
	Cancel(ctx context.Context, id uint) (domain.Order, error)
	Delete(ctx context.Context, id uint) error
}

type OrderService struct {
	repo      OrderRepository
	unitPrice int
}

func NewOrderService(repo OrderRepository, unitPrice int) *OrderService {
	return &OrderService{
		repo:      repo,
		unitPrice: unitPrice,
	}
}

// UnitPrice is the fixed per-ticket price this deployment sells at.
func (s *OrderService) UnitPrice() int {
	return s.unitPrice
}

func (s *OrderService) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.TotalAmount != s.unitPrice*order.Quantity {
		return domain.Order{}, ErrAmountMismatch
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	monitoring.OrderCreated()

	return created, nil
}

func (s *OrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus moves a pending order to paid or cancelled. Confirming
// payment stamps paid_at and issues the order's tickets in the same store
// transaction; a second confirmation fails with ErrOrderNotPending instead
// of issuing again.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) (domain.Order, error) {
	switch status {
	case domain.OrderPaid:
		confirmed, err := s.repo.ConfirmPayment(ctx, id, time.Now())
		if err != nil {
			return domain.Order{}, fmt.Errorf("s.repo.ConfirmPayment -> %w", err)
		}

		monitoring.TicketsIssued(confirmed.Quantity)

		return confirmed, nil

	case domain.OrderCancelled:
		cancelled, err := s.repo.Cancel(ctx, id)
		if err != nil {
			return domain.Order{}, fmt.Errorf("s.repo.Cancel -> %w", err)
		}

		return cancelled, nil

	default:
		return domain.Order{}, ErrUnsupportedStatus
	}
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
