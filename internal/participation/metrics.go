// internal/participation/metrics.go

package participation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "participation_registrations_total",
		Help: "Participation registrations by method and outcome",
	},
	[]string{"method", "outcome"},
)
