package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTicketNotActive       = errors.New("ticket is not active")
	ErrAmbiguousTicketNumber = errors.New("ticket number matches more than one ticket")
)

// AlreadyUsedError rejects a second redemption and carries the moment the
// ticket was first used, so a duplicate scan can be told apart from a real
// discrepancy.
type AlreadyUsedError struct {
	UsedAt time.Time
	UsedBy string
}

func (e *AlreadyUsedError) Error() string {
	return fmt.Sprintf("ticket already used at %v by %v", e.UsedAt.Format(time.RFC3339), e.UsedBy)
}

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	OrderID uint  `gorm:"not null;index"`
	Order   Order `gorm:"foreignKey:OrderID"`

	TicketNumber string `gorm:"uniqueIndex;not null"`
	Status       string `gorm:"not null;default:active"`

	UsedAt *time.Time
	UsedBy string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) FindByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// FindByNumber resolves a possibly truncated manual entry. An exact match
// wins outright; otherwise the input is treated as a suffix, which must
// identify exactly one ticket.
func (d *TicketDAO) FindByNumber(ctx context.Context, number string) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, "ticket_number = ?", number)
	if result.Error == nil {
		return ticket, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Ticket{}, result.Error
	}

	var matches []Ticket
	result = d.db.WithContext(ctx).
		Where("ticket_number LIKE ?", "%"+number).
		Limit(2).
		Find(&matches)
	if result.Error != nil {
		return Ticket{}, result.Error
	}

	switch len(matches) {
	case 0:
		return Ticket{}, ErrTicketNotFound
	case 1:
		return matches[0], nil
	default:
		return Ticket{}, ErrAmbiguousTicketNumber
	}
}

// MarkUsed performs the active -> used transition as a single conditional
// update. Two racing redemptions cannot both pass the status guard; the
// loser is classified by re-reading the row.
func (d *TicketDAO) MarkUsed(ctx context.Context, id uint, usedBy string, usedAt time.Time) (Ticket, error) {
	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ? AND status = ?", id, "active").
		Updates(map[string]any{
			"status":  "used",
			"used_at": usedAt,
			"used_by": usedBy,
		})
	if result.Error != nil {
		return Ticket{}, result.Error
	}

	if result.RowsAffected == 0 {
		ticket, err := d.FindByID(ctx, id)
		if err != nil {
			return Ticket{}, err
		}

		if ticket.Status == "used" {
			return Ticket{}, &AlreadyUsedError{UsedAt: derefTime(ticket.UsedAt), UsedBy: ticket.UsedBy}
		}

		return Ticket{}, ErrTicketNotActive
	}

	return d.FindByID(ctx, id)
}

// Renumber reassigns a dense zero-padded sequence to every ticket in
// creation order and pins the counter to the new total. One transaction; the
// counter lock keeps issuances out while numbers move.
func (d *TicketDAO) Renumber(ctx context.Context) (int, []NumberChange, error) {
	var (
		total   int
		changes []NumberChange
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCounter(tx); err != nil {
			return err
		}

		var tickets []Ticket
		result := tx.Order("created_at ASC, id ASC").Find(&tickets)
		if result.Error != nil {
			return result.Error
		}

		total = len(tickets)

		for i := range tickets {
			newNumber := FormatTicketNumber(int64(i) + 1)
			if tickets[i].TicketNumber == newNumber {
				continue
			}

			changes = append(changes, NumberChange{
				TicketID:  tickets[i].ID,
				OldNumber: tickets[i].TicketNumber,
				NewNumber: newNumber,
			})
		}

		// Two passes so a swap cannot trip the unique index mid-flight.
		for _, change := range changes {
			result = tx.Model(&Ticket{}).
				Where("id = ?", change.TicketID).
				Update("ticket_number", fmt.Sprintf("tmp-%d", change.TicketID))
			if result.Error != nil {
				return result.Error
			}
		}
		for _, change := range changes {
			result = tx.Model(&Ticket{}).
				Where("id = ?", change.TicketID).
				Update("ticket_number", change.NewNumber)
			if result.Error != nil {
				return result.Error
			}
		}

		return resetCounter(tx, int64(total))
	})
	if err != nil {
		return 0, nil, err
	}

	return total, changes, nil
}

// NumberChange records one reassignment made by Renumber.
type NumberChange struct {
	TicketID  uint
	OldNumber string
	NewNumber string
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}
