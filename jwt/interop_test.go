package jwt

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	jwxjwt "github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/require"
)

func TestInteropTokensParseWithJWX(t *testing.T) {
	tok, err := Sign(Claims{"role": "admin"}, testSecret, SignOptions{
		ExpiresIn: "1h",
		Issuer:    "goJWT",
		Subject:   "user-1",
		Audience:  []string{"api"},
	})
	require.NoError(t, err)

	parsed, err := jwxjwt.Parse([]byte(tok), jwxjwt.WithKey(jwa.HS256(), []byte(testSecret)))
	require.NoError(t, err)

	iss, ok := parsed.Issuer()
	require.True(t, ok)
	require.Equal(t, "goJWT", iss)
	sub, _ := parsed.Subject()
	require.Equal(t, "user-1", sub)
	aud, _ := parsed.Audience()
	require.Equal(t, []string{"api"}, aud)

	var role string
	require.NoError(t, parsed.Get("role", &role))
	require.Equal(t, "admin", role)
}

func TestInteropVerifiesJWXTokens(t *testing.T) {
	rsaKey := testRSAKey(t)
	ecKey := testECKey(t, "P-256")

	cases := []struct {
		name   string
		alg    jwa.SignatureAlgorithm
		sign   any
		verify any
	}{
		{"HS256", jwa.HS256(), []byte(testSecret), testSecret},
		{"RS256", jwa.RS256(), rsaKey, &rsaKey.PublicKey},
		{"PS256", jwa.PS256(), rsaKey, &rsaKey.PublicKey},
		{"ES256", jwa.ES256(), ecKey, &ecKey.PublicKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			built, err := jwxjwt.NewBuilder().
				Issuer("jwx").
				Subject("user-2").
				Audience([]string{"api", "admin"}).
				IssuedAt(time.Now()).
				Expiration(time.Now().Add(time.Hour)).
				Claim("scope", "read").
				Build()
			require.NoError(t, err)

			signed, err := jwxjwt.Sign(built, jwxjwt.WithKey(tc.alg, tc.sign))
			require.NoError(t, err)

			got, err := Verify(string(signed), tc.verify, VerifyOptions{
				Issuer:   "jwx",
				Subject:  "user-2",
				Audience: "admin",
				MaxAge:   "5m",
			})
			require.NoError(t, err)
			claims := got.(Claims)
			require.Equal(t, "read", claims["scope"])
		})
	}
}
