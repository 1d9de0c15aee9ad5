package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID          uint        `json:"id"`
	BuyerName   string      `json:"buyer_name"`
	BuyerPhone  string      `json:"buyer_phone"`
	Quantity    int         `json:"quantity"`
	TotalAmount int         `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	PaidAt      *time.Time  `json:"paid_at,omitempty"`
	Tickets     []Ticket    `json:"tickets"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CanTransitionTo reports whether the order may move to the given status.
// Orders only ever leave pending; paid and cancelled are terminal.
func (o *Order) CanTransitionTo(status OrderStatus) bool {
	if o.Status != OrderPending {
		return false
	}

	return status == OrderPaid || status == OrderCancelled
}

// OrderFilter narrows ListOrders. Zero-valued fields impose no constraint.
type OrderFilter struct {
	Status     OrderStatus
	BuyerName  string
	BuyerPhone string
}
