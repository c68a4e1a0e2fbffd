// internal/otpflow/metrics.go

package otpflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	otpSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otpflow_sends_total",
			Help: "Total OTP send/resend requests issued to the backend",
		},
		[]string{"outcome"},
	)

	otpVerifiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otpflow_verifies_total",
			Help: "Total OTP verification attempts issued to the backend",
		},
		[]string{"outcome"},
	)

	activeFlows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "otpflow_active_flows",
			Help: "Number of live OTP flows held in the store",
		},
	)
)
