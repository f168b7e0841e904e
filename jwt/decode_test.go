package jwt

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func seg(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

func TestDecode(t *testing.T) {
	got := Decode(fixedVector, DecodeOptions{})
	require.Equal(t, Claims{"foo": "bar", "iat": float64(1437018582), "exp": float64(1437018592)}, got)

	full := Decode(fixedVector, DecodeOptions{Complete: true}).(*Token)
	require.Equal(t, Header{"alg": "HS256", "typ": "JWT"}, full.Header)
	require.Equal(t, "3aR3vocmgRpG05rsI9MpR6z2T_BGtMQaPq2YR6QaroU", full.Signature)
	require.Equal(t, fixedVector, full.Raw)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"two segments":   "a.b",
		"bad characters": "a+b.c.d",
		"header array":   seg(`[1]`) + "." + seg(`{}`) + ".",
		"header text":    seg(`hello`) + "." + seg(`{}`) + ".",
		"jwt not json":   seg(`{"alg":"HS256","typ":"JWT"}`) + "." + seg(`not json`) + ".",
		"trailing space": fixedVector + " ",
		"padded payload": seg(`{"alg":"none"}`) + "." + base64.URLEncoding.EncodeToString([]byte(`{"a":1}`)) + ".",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			require.Nil(t, Decode(tok, DecodeOptions{}))
			require.Nil(t, Decode(tok, DecodeOptions{Complete: true}))
		})
	}
}

func TestDecodePayloadShapes(t *testing.T) {
	noTyp := seg(`{"alg":"none"}`)

	require.Equal(t, "plain text", Decode(noTyp+"."+seg("plain text")+".", DecodeOptions{}))
	require.Equal(t, "123", Decode(noTyp+"."+seg("123")+".", DecodeOptions{}))
	require.Equal(t, "[1,2]", Decode(noTyp+"."+seg("[1,2]")+".", DecodeOptions{}))
	require.Equal(t, Claims{"a": float64(1)}, Decode(noTyp+"."+seg(`{"a":1}`)+".", DecodeOptions{}))

	require.Nil(t, Decode(noTyp+"."+seg("plain text")+".", DecodeOptions{JSON: true}))
	require.Nil(t, Decode(noTyp+"."+seg("null")+".", DecodeOptions{JSON: true}))
	require.Equal(t, "null", Decode(noTyp+"."+seg("null")+".", DecodeOptions{}))
}

func TestDecodeDoesNotVerify(t *testing.T) {
	tok := signAt(t, 60, Claims{"foo": "bar"}, testSecret, SignOptions{ExpiresIn: 1})
	tampered := tok[:len(tok)-4] + "AAAA"

	c, ok := Decode(tampered, DecodeOptions{}).(Claims)
	require.True(t, ok)
	require.Equal(t, "bar", c["foo"])
}
