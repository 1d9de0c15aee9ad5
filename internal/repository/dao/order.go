package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotPending   = errors.New("order is not pending")
	ErrTicketNumberTaken = errors.New("ticket number already assigned")
)

type Order struct {
	ID uint `gorm:"primaryKey"`

	BuyerName   string `gorm:"not null"`
	BuyerPhone  string `gorm:"not null;index"`
	Quantity    int    `gorm:"not null"`
	TotalAmount int    `gorm:"not null"`

	Status string `gorm:"not null;default:pending;index"`
	PaidAt *time.Time

	Tickets []Ticket `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// OrderFilter narrows Find. Empty fields impose no constraint.
type OrderFilter struct {
	Status     string
	BuyerName  string
	BuyerPhone string
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

func (d *OrderDAO) Insert(ctx context.Context, order Order) (Order, error) {
	result := d.db.WithContext(ctx).Create(&order)
	if result.Error != nil {
		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) FindByID(ctx context.Context, id uint) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).
		Preload("Tickets", func(db *gorm.DB) *gorm.DB {
			return db.Order("tickets.ticket_number ASC")
		}).
		First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) Find(ctx context.Context, filter OrderFilter) ([]Order, error) {
	var orders []Order

	query := d.db.WithContext(ctx).
		Preload("Tickets", func(db *gorm.DB) *gorm.DB {
			return db.Order("tickets.ticket_number ASC")
		}).
		Order("created_at DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BuyerName != "" {
		query = query.Where("buyer_name = ?", filter.BuyerName)
	}
	if filter.BuyerPhone != "" {
		query = query.Where("buyer_phone = ?", filter.BuyerPhone)
	}

	if result := query.Find(&orders); result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// ConfirmPayment flips a pending order to paid and issues its tickets in one
// transaction. The counter row lock serializes concurrent confirmations, so
// ticket numbers never collide and a re-confirmation cannot double-issue.
func (d *OrderDAO) ConfirmPayment(ctx context.Context, id uint, paidAt time.Time) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order

		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}

			return result.Error
		}

		if order.Status != "pending" {
			return ErrOrderNotPending
		}

		result = tx.Model(&order).Updates(map[string]any{
			"status":  "paid",
			"paid_at": paidAt,
		})
		if result.Error != nil {
			return result.Error
		}

		numbers, err := nextNumberBlock(tx, order.Quantity)
		if err != nil {
			return err
		}

		tickets := make([]Ticket, order.Quantity)
		for i, number := range numbers {
			tickets[i] = Ticket{
				OrderID:      order.ID,
				TicketNumber: number,
				Status:       "active",
			}
		}

		if result = tx.Create(&tickets); result.Error != nil {
			var pgErr *pgconn.PgError
			if errors.As(result.Error, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, "ticket_number") {
				return ErrTicketNumberTaken
			}

			return result.Error
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return d.FindByID(ctx, id)
}

// Cancel moves a pending order to cancelled. No tickets exist yet for a
// pending order, so nothing else changes.
func (d *OrderDAO) Cancel(ctx context.Context, id uint) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order

		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}

			return result.Error
		}

		if order.Status != "pending" {
			return ErrOrderNotPending
		}

		if result = tx.Model(&order).Update("status", "cancelled"); result.Error != nil {
			return result.Error
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return d.FindByID(ctx, id)
}

// Delete removes an order and its tickets. Tickets go first to satisfy the
// ownership foreign key.
func (d *OrderDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order

		result := tx.First(&order, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}

			return result.Error
		}

		if result = tx.Where("order_id = ?", id).Delete(&Ticket{}); result.Error != nil {
			return result.Error
		}

		if result = tx.Delete(&order); result.Error != nil {
			return result.Error
		}

		return nil
	})
}
