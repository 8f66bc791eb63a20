package authtoken

import "testing"

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricRefreshIssued)
	m.Inc(MetricRefreshIssued)
	m.Inc(MetricSessionRead)

	if got := m.Value(MetricRefreshIssued); got != 2 {
		t.Fatalf("Value(MetricRefreshIssued) = %d, want 2", got)
	}

	snap := m.Snapshot()
	if got := snap.Counters[MetricRefreshIssued]; got != 2 {
		t.Fatalf("snapshot MetricRefreshIssued = %d, want 2", got)
	}
	if got := snap.Counters[MetricSessionRead]; got != 1 {
		t.Fatalf("snapshot MetricSessionRead = %d, want 1", got)
	}
	if got := snap.Counters[MetricStoreFailure]; got != 0 {
		t.Fatalf("snapshot MetricStoreFailure = %d, want 0", got)
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricRefreshIssued)

	if m.Enabled() {
		t.Fatal("metrics should report disabled")
	}
	if got := m.Value(MetricRefreshIssued); got != 0 {
		t.Fatalf("disabled metrics recorded a value: %d", got)
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatalf("disabled snapshot should be empty, got %v", snap.Counters)
	}
}

func TestMetricsNilReceiverSafe(t *testing.T) {
	var m *Metrics

	m.Inc(MetricRefreshIssued)
	if m.Enabled() {
		t.Fatal("nil metrics must report disabled")
	}
	if got := m.Value(MetricRefreshIssued); got != 0 {
		t.Fatalf("nil metrics Value = %d, want 0", got)
	}
}

func TestMetricsIgnoresOutOfRangeID(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(metricIDCount)
	m.Inc(metricIDCount + 1)

	if got := m.Value(metricIDCount); got != 0 {
		t.Fatalf("out-of-range metric recorded a value: %d", got)
	}
}
