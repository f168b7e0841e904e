package jwt

import (
	"errors"
	"maps"
	"strings"
)

var (
	// ErrMissingKeyID is returned by a KeySet resolver when the header has no kid.
	ErrMissingKeyID = errors.New("missing kid")
	// ErrUnknownKeyID is returned by a KeySet resolver for a kid it does not hold.
	ErrUnknownKeyID = errors.New("unknown kid")
)

// KeyFunc resolves the verification key for a decoded header. It must call
// done exactly once; later calls are ignored.
type KeyFunc func(header Header, done func(key any, err error))

// StaticKey returns a KeyFunc that always yields key.
func StaticKey(key any) KeyFunc {
	return func(_ Header, done func(any, error)) { done(key, nil) }
}

func asKeyFunc(key any) (KeyFunc, bool) {
	switch f := key.(type) {
	case KeyFunc:
		return f, f != nil
	case func(Header, func(any, error)):
		return KeyFunc(f), f != nil
	}
	return nil, false
}

// KeySet maps key ids to verification keys.
type KeySet map[string]any

// Resolver returns a KeyFunc selecting the key named by the header kid.
// The set is copied; later changes to ks are not observed.
func (ks KeySet) Resolver() KeyFunc {
	keys := maps.Clone(ks)
	return func(h Header, done func(any, error)) {
		kid := strings.TrimSpace(h.KeyID())
		if kid == "" {
			done(nil, ErrMissingKeyID)
			return
		}
		k, ok := keys[kid]
		if !ok {
			done(nil, ErrUnknownKeyID)
			return
		}
		done(k, nil)
	}
}
