// Package internal groups helpers that are private to goJWT.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher and Sink implementations)
//   - jws: compact serialization, segment codecs and signing-method dispatch
//   - security: security report derivation
//   - timespan: human timespan parsing ("2h", "1.5 days")
//
// # What this package must NOT do
//
//   - Export types that appear in the public goJWT API.
//   - Be imported by any package outside the goJWT module.
package internal
