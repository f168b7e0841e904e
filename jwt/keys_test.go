package jwt

import (
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func pemBlock(t *testing.T, typ string, der []byte, err error) []byte {
	t.Helper()
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: der})
}

func TestParseKeyPEM(t *testing.T) {
	rsaKey := testRSAKey(t)
	ecKey := testECKey(t, "P-256")

	rsaPriv := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey)})
	rsaPubDER, err := x509.MarshalPKIXPublicKey(&rsaKey.PublicKey)
	rsaPub := pemBlock(t, "PUBLIC KEY", rsaPubDER, err)
	ecPrivDER, err := x509.MarshalECPrivateKey(ecKey)
	ecPriv := pemBlock(t, "EC PRIVATE KEY", ecPrivDER, err)
	ecPubDER, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	ecPub := pemBlock(t, "PUBLIC KEY", ecPubDER, err)

	cases := []struct {
		name string
		pem  []byte
		want KeyKind
	}{
		{"rsa private", rsaPriv, KeyRSAPrivate},
		{"rsa public", rsaPub, KeyRSAPublic},
		{"ec private", ecPriv, KeyECPrivate},
		{"ec public", ecPub, KeyECPublic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k, err := ParseKeyPEM(tc.pem)
			require.NoError(t, err)
			require.Equal(t, tc.want, KindOf(k))
		})
	}

	_, err = ParseKeyPEM([]byte("not a key"))
	require.Error(t, err)

	priv, err := ParseRSAPrivateKeyPEM(rsaPriv)
	require.NoError(t, err)
	pub, err := ParseRSAPublicKeyPEM(rsaPub)
	require.NoError(t, err)
	tok, err := Sign(Claims{"a": 1}, priv, SignOptions{Algorithm: RS256})
	require.NoError(t, err)
	_, err = Verify(tok, pub, VerifyOptions{})
	require.NoError(t, err)

	ecp, err := ParseECPrivateKeyPEM(ecPriv)
	require.NoError(t, err)
	ecpub, err := ParseECPublicKeyPEM(ecPub)
	require.NoError(t, err)
	tok, err = Sign(Claims{"a": 1}, ecp, SignOptions{Algorithm: ES256})
	require.NoError(t, err)
	_, err = Verify(tok, ecpub, VerifyOptions{})
	require.NoError(t, err)

	_, err = ParseECPublicKeyPEM(rsaPub)
	require.Error(t, err)
}
