package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSecret = "shhhhh"

var (
	rsaKeyOnce = sync.OnceValue(func() *rsa.PrivateKey {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		return k
	})
	ecKeys = map[string]func() *ecdsa.PrivateKey{
		"P-256": sync.OnceValue(func() *ecdsa.PrivateKey { return mustEC(elliptic.P256()) }),
		"P-384": sync.OnceValue(func() *ecdsa.PrivateKey { return mustEC(elliptic.P384()) }),
		"P-521": sync.OnceValue(func() *ecdsa.PrivateKey { return mustEC(elliptic.P521()) }),
	}
)

func mustEC(c elliptic.Curve) *ecdsa.PrivateKey {
	k, err := ecdsa.GenerateKey(c, rand.Reader)
	if err != nil {
		panic(err)
	}
	return k
}

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	return rsaKeyOnce()
}

func testECKey(t *testing.T, curve string) *ecdsa.PrivateKey {
	t.Helper()
	return ecKeys[curve]()
}

// signAt signs payload with a fixed clock at epoch second now.
func signAt(t *testing.T, now int64, payload any, key any, opts SignOptions) string {
	t.Helper()
	opts.Clock = FixedClock(now)
	tok, err := Sign(payload, key, opts)
	require.NoError(t, err)
	return tok
}

// decodeClaims returns the unverified payload of tok as Claims.
func decodeClaims(t *testing.T, tok string) Claims {
	t.Helper()
	c, ok := Decode(tok, DecodeOptions{}).(Claims)
	require.True(t, ok, "payload of %q is not an object", tok)
	return c
}

func decodeHeader(t *testing.T, tok string) Header {
	t.Helper()
	full, ok := Decode(tok, DecodeOptions{Complete: true}).(*Token)
	require.True(t, ok)
	return full.Header
}

func requireMessage(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, msg, err.Error())
}
