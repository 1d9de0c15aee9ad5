package dao

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ticketCounterID is the primary key of the single counter row.
const ticketCounterID = 1

// TicketCounter holds the last ticket number handed out. A dedicated row,
// locked for the duration of an issuance, replaces counting ticket rows:
// the count drifts once tickets are deleted and races under concurrent
// confirmations, the counter does neither.
type TicketCounter struct {
	ID   uint  `gorm:"primaryKey"`
	Last int64 `gorm:"not null"`
}

func seedTicketCounter(db *gorm.DB) error {
	counter := TicketCounter{ID: ticketCounterID, Last: 0}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter)
	if result.Error != nil {
		return fmt.Errorf("seed ticket counter -> %w", result.Error)
	}

	return nil
}

// nextNumberBlock reserves n consecutive ticket numbers. The caller must be
// inside a transaction; the row lock serializes concurrent issuances.
func nextNumberBlock(tx *gorm.DB, n int) ([]string, error) {
	var counter TicketCounter

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&counter, ticketCounterID)
	if result.Error != nil {
		return nil, fmt.Errorf("lock ticket counter -> %w", result.Error)
	}

	numbers := make([]string, n)
	for i := 0; i < n; i++ {
		numbers[i] = FormatTicketNumber(counter.Last + int64(i) + 1)
	}

	counter.Last += int64(n)
	if result = tx.Save(&counter); result.Error != nil {
		return nil, fmt.Errorf("advance ticket counter -> %w", result.Error)
	}

	return numbers, nil
}

// lockCounter takes the counter row lock without advancing it, blocking
// issuance for the rest of the transaction.
func lockCounter(tx *gorm.DB) error {
	var counter TicketCounter

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&counter, ticketCounterID)
	if result.Error != nil {
		return fmt.Errorf("lock ticket counter -> %w", result.Error)
	}

	return nil
}

// resetCounter pins the counter to the given value. Only the renumber
// maintenance operation calls this, inside its own transaction.
func resetCounter(tx *gorm.DB, last int64) error {
	result := tx.Model(&TicketCounter{}).
		Where("id = ?", ticketCounterID).
		Update("last", last)
	if result.Error != nil {
		return fmt.Errorf("reset ticket counter -> %w", result.Error)
	}

	return nil
}

// FormatTicketNumber renders a ticket number in its canonical zero-padded
// form. Width degrades past 9999 but numbers stay unique.
func FormatTicketNumber(n int64) string {
	return fmt.Sprintf("%04d", n)
}
