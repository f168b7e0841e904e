// Package security derives the engine security report from raw
// configuration and key state.
//
// # What this package must NOT do
//
//   - Hold or inspect key material. It receives key kinds as names.
//   - Import goJWT or the jwt package.
package security
