package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the user module.
// Tracks registrations, rejections by error code and operation durations.
type Metrics struct {
	UsersRegistered       prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
	RegisterDuration      prometheus.Histogram
	LookupDuration        prometheus.Histogram
}

// New creates the user module metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "userapi_users_registered_total",
			Help: "Total number of users registered",
		}),
		RegistrationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "userapi_registrations_rejected_total",
			Help: "Registrations rejected, by domain error code",
		}, []string{"code"}),
		RegisterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "userapi_register_duration_seconds",
			Help:    "Duration of Register operations",
			Buckets: durationBuckets,
		}),
		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "userapi_lookup_duration_seconds",
			Help:    "Duration of GetUserDetails operations",
			Buckets: durationBuckets,
		}),
	}
}

// IncrementUsersRegistered records a successful registration.
func (m *Metrics) IncrementUsersRegistered() {
	m.UsersRegistered.Inc()
}

// IncrementRejected records a failed registration under its error code.
func (m *Metrics) IncrementRejected(code string) {
	m.RegistrationsRejected.WithLabelValues(code).Inc()
}

// ObserveRegister records the duration of a Register operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

// ObserveLookup records the duration of a GetUserDetails operation.
func (m *Metrics) ObserveLookup(start time.Time) {
	m.LookupDuration.Observe(time.Since(start).Seconds())
}
