// Package jwt issues and verifies compact signed tokens.
//
// Sign computes the registered claims (iat, nbf, exp, aud, iss, sub, jti) from
// SignOptions and injects them into a private copy of the payload. Verify
// decodes a token, enforces an algorithm allow-list derived from the key kind
// (or configured explicitly), checks the signature and then runs the claim
// checks in a fixed order: nbf, exp, maxAge, aud, iss, sub, jti, nonce. The
// first failure wins.
//
// Verification has one pipeline and three entry points. Verify returns
// directly and rejects resolver keys. VerifyAsync accepts a KeyFunc and calls
// back exactly once. VerifyContext blocks on the result or the context.
//
// # What this package must NOT do
//
//   - Keep state between calls. Every operation depends only on its
//     arguments and the configured Clock.
//   - Mutate a caller's payload unless SignOptions.MutatePayload is set.
//   - Fetch keys over the network, cache tokens, or track replay.
package jwt
