// Package prometheus renders goJWT engine metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [goJWT.Engine] and exposes an
// [http.Handler]. Counters are named gojwt_*_total; the sign and verify
// latency histograms are gojwt_sign_latency_seconds and
// gojwt_verify_latency_seconds and appear only when latency histograms are
// enabled on the engine.
//
// # What this package must NOT do
//
//   - Register metrics in a global registry. Callers mount the Handler.
//   - Mutate engine state.
package prometheus
