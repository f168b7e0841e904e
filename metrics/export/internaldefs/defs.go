package internaldefs

import (
	goJWT "github.com/MrEthical07/goJWT"
)

// CounterDef names one engine counter for export. Reason is set on verify
// failure counters and labels their share of RejectedName.
type CounterDef struct {
	ID     goJWT.MetricID
	Name   string
	Help   string
	Reason goJWT.RejectReason
}

// HistogramDef names one engine latency histogram for export.
type HistogramDef struct {
	ID   goJWT.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: goJWT.MetricSignSuccess, Name: "gojwt_sign_success_total", Help: "Tokens issued."},
	{ID: goJWT.MetricSignFailure, Name: "gojwt_sign_failure_total", Help: "Sign calls rejected by payload, option or key checks."},
	{ID: goJWT.MetricVerifySuccess, Name: "gojwt_verify_success_total", Help: "Tokens accepted."},
	{ID: goJWT.MetricVerifyMalformed, Name: "gojwt_verify_malformed_total", Help: "Tokens rejected as malformed.", Reason: goJWT.ReasonMalformed},
	{ID: goJWT.MetricVerifyInvalidAlgorithm, Name: "gojwt_verify_invalid_algorithm_total", Help: "Tokens rejected for a disallowed algorithm.", Reason: goJWT.ReasonInvalidAlgorithm},
	{ID: goJWT.MetricVerifyInvalidSignature, Name: "gojwt_verify_invalid_signature_total", Help: "Tokens rejected for a bad or missing signature.", Reason: goJWT.ReasonInvalidSignature},
	{ID: goJWT.MetricVerifyExpired, Name: "gojwt_verify_expired_total", Help: "Tokens rejected by the exp or maxAge check.", Reason: goJWT.ReasonExpired},
	{ID: goJWT.MetricVerifyNotActive, Name: "gojwt_verify_not_active_total", Help: "Tokens rejected by the nbf check.", Reason: goJWT.ReasonNotActive},
	{ID: goJWT.MetricVerifyInvalidClaims, Name: "gojwt_verify_invalid_claims_total", Help: "Tokens rejected by an identity claim matcher.", Reason: goJWT.ReasonInvalidClaims},
	{ID: goJWT.MetricVerifyKeyResolverFailure, Name: "gojwt_verify_key_resolver_failure_total", Help: "Verifications whose key resolver returned an error.", Reason: goJWT.ReasonKeyResolver},
	{ID: goJWT.MetricVerifyInvalidKey, Name: "gojwt_verify_invalid_key_total", Help: "Verifications rejected for unusable key material.", Reason: goJWT.ReasonInvalidKey},
}

// RejectedName is the verify rejection counter labeled by reason.
const RejectedName = "gojwt_verify_rejected_total"

// RejectionDefs returns the counters that carry a rejection reason, in
// exposition order.
func RejectionDefs() []CounterDef {
	out := make([]CounterDef, 0, len(CounterDefs))
	for _, def := range CounterDefs {
		if def.Reason != "" {
			out = append(out, def)
		}
	}
	return out
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []HistogramDef{
	{ID: goJWT.MetricSignLatency, Name: "gojwt_sign_latency_seconds", Help: "Sign latency histogram."},
	{ID: goJWT.MetricVerifyLatency, Name: "gojwt_verify_latency_seconds", Help: "Verify latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// engine's microsecond buckets.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.0025",
	"0.005",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds as instrument name suffixes.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_0025",
	"0_005",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size bucket array. Missing
// buckets are zero.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
