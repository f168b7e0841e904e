package otel

import (
	"context"
	"maps"
	"slices"
	"sync"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	goJWT "github.com/MrEthical07/goJWT"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goJWT.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() goJWT.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goJWT.MetricsSnapshot{
		Counters:   maps.Clone(f.snapshot.Counters),
		Histograms: make(map[goJWT.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = slices.Clone(buckets)
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func newTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

// int64Value returns the single data point of the named instrument.
func int64Value(t *testing.T, rm metricdata.ResourceMetrics, name string) (int64, bool) {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				return data.DataPoints[0].Value, true
			case metricdata.Gauge[int64]:
				return data.DataPoints[0].Value, true
			}
		}
	}
	return 0, false
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader, provider := newTestMeter()
	meter := provider.Meter("gojwt-test")

	src := &fakeSource{
		snapshot: goJWT.MetricsSnapshot{
			Counters: map[goJWT.MetricID]uint64{
				goJWT.MetricVerifySuccess: 3,
			},
			Histograms: map[goJWT.MetricID][]uint64{
				goJWT.MetricVerifyLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	checks := map[string]int64{
		"gojwt_verify_success_total":                     3,
		"gojwt_verify_latency_seconds_bucket_le_0_00005": 1,
		"gojwt_verify_latency_seconds_bucket_le_inf":     8,
		"gojwt_verify_latency_seconds_count":             8,
		"gojwt_audit_dropped_total":                      1,
	}
	for name, want := range checks {
		got, ok := int64Value(t, rm, name)
		if !ok {
			t.Fatalf("instrument %s not collected", name)
		}
		if got != want {
			t.Fatalf("%s: expected %d, got %d", name, want, got)
		}
	}
	if _, ok := int64Value(t, rm, "gojwt_sign_latency_seconds_count"); ok {
		t.Fatal("histograms absent from the snapshot should not be observed")
	}
}

func TestExporterLabelsRejectionsByReason(t *testing.T) {
	reader, provider := newTestMeter()
	meter := provider.Meter("gojwt-test")

	src := &fakeSource{
		snapshot: goJWT.MetricsSnapshot{
			Counters: map[goJWT.MetricID]uint64{
				goJWT.MetricVerifyExpired:          4,
				goJWT.MetricVerifyInvalidSignature: 2,
			},
		},
	}
	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer exp.Close()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "gojwt_verify_rejected_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				reason, ok := dp.Attributes.Value(ReasonKey)
				if !ok {
					t.Fatal("rejection data point without reason")
				}
				got[reason.AsString()] = dp.Value
			}
		}
	}
	if len(got) != 8 {
		t.Fatalf("expected a data point per reason, got %v", got)
	}
	if got["expired"] != 4 || got["invalid_signature"] != 2 || got["malformed"] != 0 {
		t.Fatalf("unexpected rejection values %v", got)
	}
}

func TestExporterRejectsNilInputs(t *testing.T) {
	_, provider := newTestMeter()
	meter := provider.Meter("gojwt-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if _, err := NewOTelExporter(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource for nil engine, got %v", err)
	}
	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader, provider := newTestMeter()
	meter := provider.Meter("gojwt-test")

	src := &fakeSource{
		snapshot: goJWT.MetricsSnapshot{
			Counters: map[goJWT.MetricID]uint64{
				goJWT.MetricSignSuccess: 1,
			},
			Histograms: map[goJWT.MetricID][]uint64{
				goJWT.MetricSignLatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goJWT.MetricSignSuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
