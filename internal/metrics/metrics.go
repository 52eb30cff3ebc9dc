// internal/metrics/metrics.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PollCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "techdisc_poll_cycles_total",
		Help: "Total number of poll cycles by outcome",
	}, []string{"outcome"})

	FetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "techdisc_fetch_errors_total",
		Help: "Total number of failed fetches by error kind",
	}, []string{"kind"})

	ThrowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "techdisc_throws_total",
		Help: "Total number of new throws observed",
	})

	LastThrowTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "techdisc_last_throw_timestamp_seconds",
		Help: "Throw time of the most recent throw, seconds since epoch",
	})

	CoordinatorState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "techdisc_coordinator_state",
		Help: "Coordinator state (0=idle 1=polling 2=ready 3=degraded 4=failed)",
	})
)

var registerOnce sync.Once

// Register installs all bridge metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PollCyclesTotal,
			FetchErrorsTotal,
			ThrowsTotal,
			LastThrowTimestamp,
			CoordinatorState,
		)
	})
}
