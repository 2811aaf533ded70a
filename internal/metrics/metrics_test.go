package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

func TestObserveOutcome(t *testing.T) {
	m := New()
	m.ObserveOutcome(model.Outcome{})
	m.ObserveOutcome(model.Outcome{Reasons: []model.Reason{model.ReasonInvalidCPF, model.ReasonInvalidPhone}})
	m.ObserveOutcome(model.Outcome{Reasons: []model.Reason{model.ReasonInvalidPhone}})

	assert.InDelta(t, 1, testutil.ToFloat64(m.Records.WithLabelValues("valid")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Records.WithLabelValues("invalid")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Rejections.WithLabelValues("invalid_phone")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Rejections.WithLabelValues("invalid_cpf")), 0)
}

func TestObserveLookupAndKind(t *testing.T) {
	m := New()
	m.ObserveLookup("found", 30*time.Millisecond)
	m.ObserveLookup("error", time.Second)
	m.ObserveKind(model.KindNew)
	m.ObserveKind(model.KindExisting)
	m.ObserveKind(model.KindExisting)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Lookups.WithLabelValues("found")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Lookups.WithLabelValues("error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Classified.WithLabelValues("existing")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.LookupLatency))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLookup("found", time.Millisecond)
		m.ObserveOutcome(model.Outcome{})
		m.ObserveKind(model.KindNew)
		require.NoError(t, m.WriteTextfile("ignored"))
	})
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveOutcome(model.Outcome{})
	path := filepath.Join(t.TempDir(), "roster.prom")

	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `roster_records_total{outcome="valid"} 1`)
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	a, b := New(), New()
	a.ObserveKind(model.KindNew)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Classified.WithLabelValues("new")), 0)
	families, err := a.registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
