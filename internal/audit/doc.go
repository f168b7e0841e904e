// Package audit relays token lifecycle events (issued, verified, rejected)
// to a caller-supplied sink without blocking the signing or verification path.
//
// # Components
//
//   - [Event] is the record: event type, alg, kid, sub, iss, jti, outcome and reason.
//   - [Sink] is the consumer interface, with channel, JSON-lines and no-op implementations.
//   - [Dispatcher] is a buffered async relay that either drops or blocks when full.
//
// # What this package must NOT do
//
//   - Decide which events are emitted. The Engine does that.
//   - Record token text, signatures or key material.
//   - Import goJWT or any sibling internal package.
package audit
