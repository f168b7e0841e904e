package jws

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
)

func TestSignVerifyHMAC(t *testing.T) {
	tok, err := Sign([]byte(`{"alg":"HS256"}`), []byte(`{"foo":"bar"}`), "HS256", "secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("expected three segments, got %q", tok)
	}
	if err := VerifySignature(tok, "HS256", []byte("secret")); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := VerifySignature(tok, "HS256", "other"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestSignVerifyAsymmetricAcceptsPrivateKeyForVerify(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa key: %v", err)
	}
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("ec key: %v", err)
	}

	cases := []struct {
		alg string
		key any
	}{
		{"RS256", rsaKey},
		{"PS384", rsaKey},
		{"ES256", ecKey},
	}
	for _, tc := range cases {
		tok, err := Sign([]byte(`{}`), []byte(`{}`), tc.alg, tc.key)
		if err != nil {
			t.Fatalf("%s sign: %v", tc.alg, err)
		}
		if err := VerifySignature(tok, tc.alg, tc.key); err != nil {
			t.Fatalf("%s verify with private key: %v", tc.alg, err)
		}
	}
}

func TestNoneHasEmptySignature(t *testing.T) {
	tok, err := Sign([]byte(`{"alg":"none"}`), []byte(`{}`), "none", nil)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if !strings.HasSuffix(tok, ".") {
		t.Fatalf("expected empty signature segment, got %q", tok)
	}
	if err := VerifySignature(tok, "none", nil); err != nil {
		t.Fatalf("verify none: %v", err)
	}
	if err := VerifySignature(tok+"abc", "none", nil); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected forged none signature to fail, got %v", err)
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	if _, err := Sign([]byte(`{}`), []byte(`{}`), "XX256", "k"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestEncodePayload(t *testing.T) {
	utf, err := EncodePayload(`{"name":"José"}`, "utf8")
	if err != nil {
		t.Fatalf("utf8: %v", err)
	}
	bin, err := EncodePayload(`{"name":"José"}`, "binary")
	if err != nil {
		t.Fatalf("binary: %v", err)
	}
	if len(bin) != len(utf)-1 {
		t.Fatalf("expected latin1 form to be one byte shorter: utf8=%d binary=%d", len(utf), len(bin))
	}
	if bin[len(bin)-3] != 0xE9 {
		t.Fatalf("expected latin1 byte 0xE9, got %#x", bin[len(bin)-3])
	}
	if _, err := EncodePayload("{}", "ebcdic"); !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	if err := VerifySignature("a.b", "HS256", "k"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeSegmentRejectsPadding(t *testing.T) {
	got, err := DecodeSegment("eyJhIjoxfQ")
	if err != nil || string(got) != `{"a":1}` {
		t.Fatalf("unexpected decode %q, %v", got, err)
	}
	if _, err := DecodeSegment("eyJhIjoxfQ=="); err == nil {
		t.Fatal("padded segment should not decode")
	}
}
