package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementUsersRegistered()
	m.IncrementUsersRegistered()
	m.IncrementRejected("rule_age_min")
	m.ObserveRegister(time.Now())
	m.ObserveLookup(time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UsersRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsRejected.WithLabelValues("rule_age_min")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RegistrationsRejected.WithLabelValues("conflict")))

	count, err := testutil.GatherAndCount(reg, "userapi_register_duration_seconds", "userapi_lookup_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
