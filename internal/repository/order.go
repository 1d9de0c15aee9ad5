package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hanbit-bazaar/tickets-api/internal/domain"
	"github.com/hanbit-bazaar/tickets-api/internal/repository/dao"
)

var (
	ErrOrderNotFound     = dao.ErrOrderNotFound
	ErrOrderNotPending   = dao.ErrOrderNotPending
	ErrTicketNumberTaken = dao.ErrTicketNumberTaken
)

type OrderDAO interface {
	Insert(ctx context.Context, order dao.Order) (dao.Order, error)
	FindByID(ctx context.Context, id uint) (dao.Order, error)
	Find(ctx context.Context, filter dao.OrderFilter) ([]dao.Order, error)
	ConfirmPayment(ctx context.Context, id uint, paidAt time.Time) (dao.Order, error)
	Cancel(ctx context.Context, id uint) (dao.Order, error)
	Delete(ctx context.Context, id uint) error
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.Insert(ctx, dao.Order{
		BuyerName:   order.BuyerName,
		BuyerPhone:  order.BuyerPhone,
		Quantity:    order.Quantity,
		TotalAmount: order.TotalAmount,
		Status:      string(domain.OrderPending),
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OrderRepository) Find(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	found, err := r.dao.Find(ctx, dao.OrderFilter{
		Status:     string(filter.Status),
		BuyerName:  filter.BuyerName,
		BuyerPhone: filter.BuyerPhone,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	orders := make([]domain.Order, len(found))
	for i, order := range found {
		orders[i] = r.daoToDomain(order)
	}

	return orders, nil
}

func (r *OrderRepository) ConfirmPayment(ctx context.Context, id uint, paidAt time.Time) (domain.Order, error) {
	confirmed, err := r.dao.ConfirmPayment(ctx, id, paidAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.ConfirmPayment -> %w", err)
	}

	return r.daoToDomain(confirmed), nil
}

func (r *OrderRepository) Cancel(ctx context.Context, id uint) (domain.Order, error) {
	cancelled, err := r.dao.Cancel(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Cancel -> %w", err)
	}

	return r.daoToDomain(cancelled), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *OrderRepository) daoToDomain(o dao.Order) domain.Order {
	tickets := make([]domain.Ticket, len(o.Tickets))
	for i, ticket := range o.Tickets {
		tickets[i] = ticketDaoToDomain(ticket)
	}

	return domain.Order{
		ID:          o.ID,
		BuyerName:   o.BuyerName,
		BuyerPhone:  o.BuyerPhone,
		Quantity:    o.Quantity,
		TotalAmount: o.TotalAmount,
		Status:      domain.OrderStatus(o.Status),
		PaidAt:      o.PaidAt,
		Tickets:     tickets,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
