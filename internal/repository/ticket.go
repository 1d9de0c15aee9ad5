package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hanbit-bazaar/tickets-api/internal/domain"
	"github.com/hanbit-bazaar/tickets-api/internal/repository/dao"
)

var (
	ErrTicketNotFound        = dao.ErrTicketNotFound
	ErrTicketNotActive       = dao.ErrTicketNotActive
	ErrAmbiguousTicketNumber = dao.ErrAmbiguousTicketNumber
)

// AlreadyUsedError is surfaced unchanged from the dao layer.
type AlreadyUsedError = dao.AlreadyUsedError

type TicketDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Ticket, error)
	FindByNumber(ctx context.Context, number string) (dao.Ticket, error)
	MarkUsed(ctx context.Context, id uint, usedBy string, usedAt time.Time) (dao.Ticket, error)
	Renumber(ctx context.Context) (int, []dao.NumberChange, error)
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) FindByID(ctx context.Context, id uint) (domain.Ticket, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return ticketDaoToDomain(found), nil
}

func (r *TicketRepository) FindByNumber(ctx context.Context, number string) (domain.Ticket, error) {
	found, err := r.dao.FindByNumber(ctx, number)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByNumber -> %w", err)
	}

	return ticketDaoToDomain(found), nil
}

func (r *TicketRepository) MarkUsed(ctx context.Context, id uint, usedBy string, usedAt time.Time) (domain.Ticket, error) {
	used, err := r.dao.MarkUsed(ctx, id, usedBy, usedAt)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.MarkUsed -> %w", err)
	}

	return ticketDaoToDomain(used), nil
}

func (r *TicketRepository) Renumber(ctx context.Context) (domain.RenumberReport, error) {
	total, changes, err := r.dao.Renumber(ctx)
	if err != nil {
		return domain.RenumberReport{}, fmt.Errorf("r.dao.Renumber -> %w", err)
	}

	report := domain.RenumberReport{
		Total:   total,
		Changes: make([]domain.RenumberChange, len(changes)),
	}
	for i, change := range changes {
		report.Changes[i] = domain.RenumberChange{
			TicketID:  change.TicketID,
			OldNumber: change.OldNumber,
			NewNumber: change.NewNumber,
		}
	}

	return report, nil
}

func ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:           t.ID,
		OrderID:      t.OrderID,
		TicketNumber: t.TicketNumber,
		Status:       domain.TicketStatus(t.Status),
		UsedAt:       t.UsedAt,
		UsedBy:       t.UsedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
