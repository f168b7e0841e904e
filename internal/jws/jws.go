// Package jws produces and checks compact JWS signatures.
//
// It owns the wire format (three base64url segments joined by '.') and hands
// the signing input to github.com/golang-jwt/jwt/v5 signing methods. It does
// not interpret headers or claims.
package jws

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnknownAlgorithm is returned for algorithm names golang-jwt does not register.
	ErrUnknownAlgorithm = errors.New("jws: unknown algorithm")
	// ErrSignatureInvalid is returned when a signature does not match its input.
	ErrSignatureInvalid = errors.New("jws: signature invalid")
	// ErrMalformed is returned when a compact token does not have three segments.
	ErrMalformed = errors.New("jws: malformed compact serialization")
	// ErrUnknownEncoding is returned for payload encodings other than utf8, ascii, binary and latin1.
	ErrUnknownEncoding = errors.New("jws: unknown encoding")
)

var segment = base64.RawURLEncoding

// Sign encodes header and payload, signs them with alg and returns the
// compact token. An alg of "none" yields an empty third segment.
func Sign(header, payload []byte, alg string, key any) (string, error) {
	method, err := methodFor(alg)
	if err != nil {
		return "", err
	}

	input := segment.EncodeToString(header) + "." + segment.EncodeToString(payload)

	sig, err := method.Sign(input, signingKey(alg, key))
	if err != nil {
		return "", fmt.Errorf("jws: sign %s: %w", alg, err)
	}
	return input + "." + segment.EncodeToString(sig), nil
}

// VerifySignature checks the third segment of token against the first two.
func VerifySignature(token, alg string, key any) error {
	idx := strings.LastIndexByte(token, '.')
	if idx < 0 || strings.Count(token, ".") != 2 {
		return ErrMalformed
	}
	input, encodedSig := token[:idx], token[idx+1:]

	if alg == gjwt.SigningMethodNone.Alg() {
		if encodedSig != "" {
			return ErrSignatureInvalid
		}
		return nil
	}

	method, err := methodFor(alg)
	if err != nil {
		return err
	}
	sig, err := segment.DecodeString(encodedSig)
	if err != nil {
		return ErrSignatureInvalid
	}
	if err := method.Verify(input, sig, verificationKey(key)); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

// EncodePayload converts a JSON document to the byte sequence that gets
// base64url-encoded. utf8 keeps the bytes; binary, latin1 and ascii keep the
// low byte of each code point.
func EncodePayload(doc string, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return []byte(doc), nil
	case "binary", "latin1", "ascii":
		out := make([]byte, 0, len(doc))
		for i := 0; i < len(doc); {
			r, size := utf8.DecodeRuneInString(doc[i:])
			out = append(out, byte(r))
			i += size
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEncoding, encoding)
	}
}

// DecodeSegment decodes one unpadded base64url segment.
func DecodeSegment(s string) ([]byte, error) {
	return segment.DecodeString(s)
}

func methodFor(alg string) (gjwt.SigningMethod, error) {
	method := gjwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownAlgorithm, alg)
	}
	return method, nil
}

func signingKey(alg string, key any) any {
	if alg == gjwt.SigningMethodNone.Alg() {
		return gjwt.UnsafeAllowNoneSignatureType
	}
	if k, ok := key.(string); ok {
		return []byte(k)
	}
	return key
}

func verificationKey(key any) any {
	switch k := key.(type) {
	case string:
		return []byte(k)
	case *rsa.PrivateKey:
		return &k.PublicKey
	case *ecdsa.PrivateKey:
		return &k.PublicKey
	default:
		return key
	}
}
