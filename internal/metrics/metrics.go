package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jgoulah/energycalc/pkg/models"
)

var (
	metricEstimates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "energycalc",
			Name:      "estimates_total",
			Help:      "Completed estimates by coefficient policy and housing configuration",
		},
		[]string{"policy", "housing"},
	)

	metricRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "energycalc",
			Name:      "rejected_submissions_total",
			Help:      "Submissions rejected before estimation, by reason",
		},
		[]string{"reason"},
	)

	metricDailyKWh = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "energycalc",
			Name:      "estimated_daily_kwh",
			Help:      "Distribution of estimated daily consumption in kWh",
			Buckets:   []float64{2.5, 5, 7.5, 10, 12.5, 15, 20},
		},
	)

	metricApplianceUse = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "energycalc",
			Name:      "appliance_in_use_total",
			Help:      "Appliances reported in use across completed estimates",
		},
		[]string{"appliance"},
	)
)

// Rejection reasons
const (
	ReasonIncomplete  = "incomplete_profile"
	ReasonUnsupported = "unsupported_appliance"
	ReasonInvalid     = "invalid_input"
)

// ObserveEstimate records a completed estimate
func ObserveEstimate(b models.EnergyBreakdown) {
	metricEstimates.WithLabelValues(b.Policy, b.Housing.String()).Inc()
	metricDailyKWh.Observe(b.TotalConsumption)
	for a := range b.PerAppliance {
		metricApplianceUse.WithLabelValues(a.Key()).Inc()
	}
}

// ObserveRejected records a submission that produced no estimate
func ObserveRejected(reason string) {
	metricRejected.WithLabelValues(reason).Inc()
}
