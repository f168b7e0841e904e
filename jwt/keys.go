package jwt

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// ParseRSAPrivateKeyPEM parses a PKCS#1 or PKCS#8 RSA private key.
func ParseRSAPrivateKeyPEM(pem []byte) (*rsa.PrivateKey, error) {
	k, err := gjwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("invalid rsa private key: %w", err)
	}
	return k, nil
}

// ParseRSAPublicKeyPEM parses a PKIX or PKCS#1 RSA public key or certificate.
func ParseRSAPublicKeyPEM(pem []byte) (*rsa.PublicKey, error) {
	k, err := gjwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("invalid rsa public key: %w", err)
	}
	return k, nil
}

// ParseECPrivateKeyPEM parses a SEC1 or PKCS#8 EC private key.
func ParseECPrivateKeyPEM(pem []byte) (*ecdsa.PrivateKey, error) {
	k, err := gjwt.ParseECPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("invalid ec private key: %w", err)
	}
	return k, nil
}

// ParseECPublicKeyPEM parses a PKIX EC public key or certificate.
func ParseECPublicKeyPEM(pem []byte) (*ecdsa.PublicKey, error) {
	k, err := gjwt.ParseECPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("invalid ec public key: %w", err)
	}
	return k, nil
}

// ParseKeyPEM parses any RSA or EC key in PEM form, trying private keys
// first.
func ParseKeyPEM(pem []byte) (any, error) {
	if k, err := gjwt.ParseRSAPrivateKeyFromPEM(pem); err == nil {
		return k, nil
	}
	if k, err := gjwt.ParseECPrivateKeyFromPEM(pem); err == nil {
		return k, nil
	}
	if k, err := gjwt.ParseRSAPublicKeyFromPEM(pem); err == nil {
		return k, nil
	}
	if k, err := gjwt.ParseECPublicKeyFromPEM(pem); err == nil {
		return k, nil
	}
	return nil, errors.New("unsupported or invalid PEM key")
}
