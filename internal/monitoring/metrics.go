package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total orders created",
		},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets issued on payment confirmation",
		},
	)

	ticketsRedeemed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_redeemed_total",
			Help: "Total tickets redeemed at the gate",
		},
	)
)

func OrderCreated() {
	ordersCreated.Inc()
}

func TicketsIssued(count int) {
	ticketsIssued.Add(float64(count))
}

func TicketRedeemed() {
	ticketsRedeemed.Inc()
}
