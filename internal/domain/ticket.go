package domain

import "time"

type TicketStatus string

// The sales flow only ever produces active and used tickets; the remaining
// statuses exist for administratively managed edge cases.
const (
	TicketPending   TicketStatus = "pending"
	TicketActive    TicketStatus = "active"
	TicketUsed      TicketStatus = "used"
	TicketExpired   TicketStatus = "expired"
	TicketCancelled TicketStatus = "cancelled"
)

// DefaultRedeemer is recorded when a redemption request names nobody.
const DefaultRedeemer = "staff"

type Ticket struct {
	ID           uint         `json:"id"`
	OrderID      uint         `json:"order_id"`
	TicketNumber string       `json:"ticket_number"`
	Status       TicketStatus `json:"status"`
	UsedAt       *time.Time   `json:"used_at,omitempty"`
	UsedBy       string       `json:"used_by,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// RenumberChange records one reassignment made by the renumber maintenance
// operation.
type RenumberChange struct {
	TicketID  uint   `json:"ticket_id"`
	OldNumber string `json:"old_number"`
	NewNumber string `json:"new_number"`
}

type RenumberReport struct {
	Total   int              `json:"total"`
	Changes []RenumberChange `json:"changes"`
}
