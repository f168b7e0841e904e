// Package goJWT wraps the jwt package in an Engine that holds one
// configuration and key pair, and adds structured logging, counters, latency
// histograms and an asynchronous audit trail around every sign and verify call.
//
// The Engine is safe for concurrent use after [Builder.Build]. Per-call
// options passed to [Engine.SignWith] and [Engine.VerifyWith] are layered
// over [Config]; the jwt package remains usable on its own for callers that
// want no engine.
//
// # Architecture boundaries
//
// goJWT is the public surface: [Engine], [Builder], [Config], [MetricsSnapshot]
// and the audit sink types. Claim validation, algorithm policy and the compact
// codec live in jwt and internal/jws. Audit buffering lives in internal/audit.
//
// # What this package must NOT do
//
//   - Log or audit token text, signatures or key material.
//   - Change jwt error values. Errors from Sign and Verify are returned as produced.
//   - Perform I/O in Build beyond starting the audit goroutine.
package goJWT
