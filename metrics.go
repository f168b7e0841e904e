package goJWT

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter or latency histogram.
type MetricID uint16

const (
	// MetricSignSuccess counts tokens issued.
	MetricSignSuccess MetricID = iota
	// MetricSignFailure counts Sign calls rejected by payload, option or key checks.
	MetricSignFailure
	// MetricVerifySuccess counts tokens accepted.
	MetricVerifySuccess
	// MetricVerifyMalformed counts tokens that could not be decoded.
	MetricVerifyMalformed
	// MetricVerifyInvalidAlgorithm counts tokens whose alg is outside the allow-list.
	MetricVerifyInvalidAlgorithm
	// MetricVerifyInvalidSignature counts tokens whose signature did not match.
	MetricVerifyInvalidSignature
	// MetricVerifyExpired counts exp and maxAge rejections.
	MetricVerifyExpired
	// MetricVerifyNotActive counts nbf rejections.
	MetricVerifyNotActive
	// MetricVerifyInvalidClaims counts audience, issuer, subject, jwtid and nonce mismatches.
	MetricVerifyInvalidClaims
	// MetricVerifyKeyResolverFailure counts key-resolver errors.
	MetricVerifyKeyResolverFailure
	// MetricVerifyInvalidKey counts keys that do not fit the token algorithm.
	MetricVerifyInvalidKey
	// MetricSignLatency is the Sign latency histogram.
	MetricSignLatency
	// MetricVerifyLatency is the Verify latency histogram.
	MetricVerifyLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed-size, lock-free counter set. Each counter sits on its
// own cache line.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter and, when latency
// histograms are enabled, the per-bucket counts of each latency metric.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns a Metrics honoring cfg. A disabled Metrics accepts
// Inc and Observe calls and records nothing.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram id. Only the latency IDs carry histograms.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || !isLatencyMetric(id) {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current count of id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters. The copy is not atomic across counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, len(latencyMetrics)),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if isLatencyMetric(id) {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		for _, id := range latencyMetrics {
			buckets := make([]uint64, histBucketCount)
			for i := 0; i < histBucketCount; i++ {
				buckets[i] = atomic.LoadUint64(&m.histograms[id].buckets[i])
			}
			s.Histograms[id] = buckets
		}
	}

	return s
}

var latencyMetrics = [...]MetricID{MetricSignLatency, MetricVerifyLatency}

func isLatencyMetric(id MetricID) bool {
	return id == MetricSignLatency || id == MetricVerifyLatency
}

// bucketIndex maps d onto the upper bounds 50µs, 100µs, 250µs, 500µs, 1ms,
// 2.5ms, 5ms and +Inf.
func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 50:
		return 0
	case us <= 100:
		return 1
	case us <= 250:
		return 2
	case us <= 500:
		return 3
	case us <= 1000:
		return 4
	case us <= 2500:
		return 5
	case us <= 5000:
		return 6
	default:
		return 7
	}
}
