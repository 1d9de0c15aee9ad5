package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hanbit-bazaar/tickets-api/internal/domain"
	"github.com/hanbit-bazaar/tickets-api/internal/monitoring"
	"github.com/hanbit-bazaar/tickets-api/internal/repository"
)

var (
	ErrTicketNotFound        = repository.ErrTicketNotFound
	ErrTicketNotActive       = repository.ErrTicketNotActive
	ErrAmbiguousTicketNumber = repository.ErrAmbiguousTicketNumber

	ErrMissingBuyerIdentity = errors.New("buyer name and phone are both required")
)

// AlreadyUsedError is surfaced unchanged from the repository layer.
type AlreadyUsedError = repository.AlreadyUsedError

type TicketRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Ticket, error)
	FindByNumber(ctx context.Context, number string) (domain.Ticket, error)
	MarkUsed(ctx context.Context, id uint, usedBy string, usedAt time.Time) (domain.Ticket, error)
	Renumber(ctx context.Context) (domain.RenumberReport, error)
}

type TicketOrderRepository interface {
	Find(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type TicketService struct {
	repo      TicketRepository
	orderRepo TicketOrderRepository
}

func NewTicketService(repo TicketRepository, orderRepo TicketOrderRepository) *TicketService {
	return &TicketService{
		repo:      repo,
		orderRepo: orderRepo,
	}
}

// RedeemTicket marks a ticket used, exactly once. The repository performs the
// status check and write as one conditional update, so two racing scans of a
// single physical ticket cannot both succeed.
func (s *TicketService) RedeemTicket(ctx context.Context, id uint, usedBy string) (domain.Ticket, error) {
	if usedBy == "" {
		usedBy = domain.DefaultRedeemer
	}

	used, err := s.repo.MarkUsed(ctx, id, usedBy, time.Now())
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.MarkUsed -> %w", err)
	}

	monitoring.TicketRedeemed()

	return used, nil
}

// LookupByBuyer returns the buyer's paid orders with their tickets. Pending
// and cancelled orders never appear, even on an exact identity match. An
// empty result is not an error.
func (s *TicketService) LookupByBuyer(ctx context.Context, buyerName, buyerPhone string) ([]domain.Order, error) {
	if buyerName == "" || buyerPhone == "" {
		return nil, ErrMissingBuyerIdentity
	}

	orders, err := s.orderRepo.Find(ctx, domain.OrderFilter{
		Status:     domain.OrderPaid,
		BuyerName:  buyerName,
		BuyerPhone: buyerPhone,
	})
	if err != nil {
		return nil, fmt.Errorf("s.orderRepo.Find -> %w", err)
	}

	return orders, nil
}

// FindTicketByNumber resolves a full or truncated ticket number. A suffix
// that matches more than one ticket is rejected rather than resolved to an
// arbitrary winner.
func (s *TicketService) FindTicketByNumber(ctx context.Context, number string) (domain.Ticket, error) {
	ticket, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.FindByNumber -> %w", err)
	}

	return ticket, nil
}

// RenumberTickets is the offline maintenance operation: it rewrites all
// ticket numbers as a dense sequence in creation order. Every reassignment
// is logged so the operation leaves a trail.
func (s *TicketService) RenumberTickets(ctx context.Context) (domain.RenumberReport, error) {
	report, err := s.repo.Renumber(ctx)
	if err != nil {
		return domain.RenumberReport{}, fmt.Errorf("s.repo.Renumber -> %w", err)
	}

	for _, change := range report.Changes {
		zap.L().Info("ticket renumbered",
			zap.Uint("ticket_id", change.TicketID),
			zap.String("old_number", change.OldNumber),
			zap.String("new_number", change.NewNumber),
		)
	}
	zap.L().Info("ticket renumbering finished",
		zap.Int("total", report.Total),
		zap.Int("changed", len(report.Changes)),
	)

	return report, nil
}
