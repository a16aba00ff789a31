// Package metrics exposes Prometheus counters for the spin pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SpinsTotal counts spin attempts by outcome ("allocated", "rejected",
	// "error").
	SpinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "luckywheel",
		Name:      "spins_total",
		Help:      "Spin attempts by outcome.",
	}, []string{"outcome"})

	// PrizesAwarded counts allocations by prize tier.
	PrizesAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "luckywheel",
		Name:      "prizes_awarded_total",
		Help:      "Prizes awarded by tier.",
	}, []string{"tier"})

	// StockFallbacks counts allocations that fell back to the filler tier
	// because the scheduled tier was out of stock.
	StockFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "luckywheel",
		Name:      "stock_fallbacks_total",
		Help:      "Allocations redirected to the filler tier on stock exhaustion.",
	})

	// OtpSent counts OTP messages handed to the SMS gateway.
	OtpSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "luckywheel",
		Name:      "otp_sent_total",
		Help:      "OTP messages sent.",
	})
)
