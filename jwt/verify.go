package jwt

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/MrEthical07/goJWT/internal/jws"
)

// Verify checks token with a static key and returns the payload, or a
// *Token when opts.Complete is set. Resolver-backed keys require
// VerifyAsync or VerifyContext.
func Verify(token string, key any, opts VerifyOptions) (any, error) {
	if _, ok := asKeyFunc(key); ok {
		return nil, newError("verify must be called asynchronous if secret or public key is provided as a callback")
	}
	var (
		out any
		err error
	)
	verify(token, key, opts, func(v any, e error) { out, err = v, e })
	return out, err
}

// VerifyAsync checks token and delivers the result to callback exactly once.
// key may be static material or a KeyFunc. callback runs on the goroutine
// that completes the check: the caller's for static keys, the resolver's
// otherwise.
func VerifyAsync(token string, key any, opts VerifyOptions, callback func(any, error)) {
	verify(token, key, opts, callback)
}

// VerifyContext blocks until verification completes or ctx is done.
func VerifyContext(ctx context.Context, token string, key any, opts VerifyOptions) (any, error) {
	type result struct {
		v   any
		err error
	}
	ch := make(chan result, 1)
	verify(token, key, opts, func(v any, err error) { ch <- result{v, err} })
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// verify is the single verification pipeline shared by every entry point.
func verify(token string, key any, opts VerifyOptions, callback func(any, error)) {
	var once sync.Once
	done := func(v any, err error) {
		once.Do(func() { callback(v, err) })
	}

	if token == "" {
		done(nil, kindError(ErrorKindMalformed, "jwt must be provided"))
		return
	}
	if err := opts.validate(); err != nil {
		done(nil, err)
		return
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		done(nil, kindError(ErrorKindMalformed, "jwt malformed"))
		return
	}
	decoded, ok := decodeToken(token, false)
	if !ok {
		done(nil, kindError(ErrorKindMalformed, "invalid token"))
		return
	}

	resolve, ok := asKeyFunc(key)
	if !ok {
		done(finishVerify(decoded, parts, key, &opts))
		return
	}
	resolve(decoded.Header, func(k any, err error) {
		if err != nil {
			done(nil, wrapKindError(ErrorKindKeyResolver, "error in secret or public key callback: "+err.Error(), err))
			return
		}
		done(finishVerify(decoded, parts, k, &opts))
	})
}

// finishVerify runs the signature and claim checks once the key is known.
func finishVerify(t *Token, parts []string, key any, opts *VerifyOptions) (any, error) {
	kind := KindOf(key)
	hasSignature := strings.TrimSpace(parts[2]) != ""

	if !hasSignature && kind != KeyNone {
		return nil, kindError(ErrorKindSignature, "jwt signature is required")
	}
	if hasSignature && kind == KeyNone {
		return nil, kindError(ErrorKindKey, "secret or public key must be provided")
	}

	algorithms := opts.Algorithms
	if len(algorithms) == 0 {
		if !hasSignature {
			algorithms = noneAlgorithms
		} else {
			algorithms = AllowedAlgorithms(kind)
		}
	}

	alg := t.Header.Algorithm()
	if alg == "" || !slices.Contains(algorithms, alg) {
		return nil, kindError(ErrorKindAlgorithm, "invalid algorithm")
	}
	if err := checkVerificationKey(alg, key, *opts); err != nil {
		return nil, err
	}
	if err := jws.VerifySignature(t.Raw, alg, key); err != nil {
		return nil, wrapKindError(ErrorKindSignature, "invalid signature", err)
	}

	if err := validateClaims(t.Payload, opts); err != nil {
		return nil, err
	}
	if opts.Complete {
		return t, nil
	}
	return t.Payload, nil
}
