package jwt

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"slices"
	"strings"
)

// Supported algorithm names.
const (
	HS256 = "HS256"
	HS384 = "HS384"
	HS512 = "HS512"
	RS256 = "RS256"
	RS384 = "RS384"
	RS512 = "RS512"
	PS256 = "PS256"
	PS384 = "PS384"
	PS512 = "PS512"
	ES256 = "ES256"
	ES384 = "ES384"
	ES512 = "ES512"
	None  = "none"
)

const minRSAKeyBits = 2048

var (
	hmacAlgorithms  = []string{HS256, HS384, HS512}
	rsaAlgorithms   = []string{RS256, RS384, RS512, PS256, PS384, PS512}
	ecdsaAlgorithms = []string{ES256, ES384, ES512}
	noneAlgorithms  = []string{None}

	supportedAlgorithms = slices.Concat(rsaAlgorithms, ecdsaAlgorithms, hmacAlgorithms, noneAlgorithms)

	requiredCurve = map[string]string{
		ES256: "prime256v1",
		ES384: "secp384r1",
		ES512: "secp521r1",
	}
	curveNames = map[string]string{
		"P-256": "prime256v1",
		"P-384": "secp384r1",
		"P-521": "secp521r1",
	}
)

// KeyKind classifies key material by its Go type.
type KeyKind int

const (
	// KeyNone is a nil key, an empty string or an empty byte slice.
	KeyNone KeyKind = iota
	// KeySymmetric is a non-empty string or byte slice used as an HMAC secret.
	KeySymmetric
	KeyRSAPublic
	KeyRSAPrivate
	KeyECPublic
	KeyECPrivate
	// KeyUnsupported is any other value.
	KeyUnsupported
)

func (k KeyKind) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeySymmetric:
		return "secret"
	case KeyRSAPublic:
		return "rsa-public"
	case KeyRSAPrivate:
		return "rsa-private"
	case KeyECPublic:
		return "ec-public"
	case KeyECPrivate:
		return "ec-private"
	default:
		return "unsupported"
	}
}

// Asymmetric reports whether the kind holds an RSA or EC key.
func (k KeyKind) Asymmetric() bool {
	switch k {
	case KeyRSAPublic, KeyRSAPrivate, KeyECPublic, KeyECPrivate:
		return true
	}
	return false
}

// Private reports whether the kind can produce asymmetric signatures.
func (k KeyKind) Private() bool {
	return k == KeyRSAPrivate || k == KeyECPrivate
}

// KindOf classifies key. Strings are always symmetric secrets; PEM text must
// be parsed with the ParseKey helpers first.
func KindOf(key any) KeyKind {
	switch k := key.(type) {
	case nil:
		return KeyNone
	case string:
		if k == "" {
			return KeyNone
		}
		return KeySymmetric
	case []byte:
		if len(k) == 0 {
			return KeyNone
		}
		return KeySymmetric
	case *rsa.PublicKey:
		if k == nil {
			return KeyNone
		}
		return KeyRSAPublic
	case *rsa.PrivateKey:
		if k == nil {
			return KeyNone
		}
		return KeyRSAPrivate
	case *ecdsa.PublicKey:
		if k == nil {
			return KeyNone
		}
		return KeyECPublic
	case *ecdsa.PrivateKey:
		if k == nil {
			return KeyNone
		}
		return KeyECPrivate
	default:
		return KeyUnsupported
	}
}

// AllowedAlgorithms returns the algorithms a key of the given kind may verify
// when no explicit allow-list is configured.
func AllowedAlgorithms(kind KeyKind) []string {
	switch kind {
	case KeySymmetric:
		return slices.Clone(hmacAlgorithms)
	case KeyRSAPublic, KeyRSAPrivate:
		return slices.Clone(rsaAlgorithms)
	case KeyECPublic, KeyECPrivate:
		return slices.Clone(ecdsaAlgorithms)
	case KeyNone:
		return slices.Clone(noneAlgorithms)
	default:
		return nil
	}
}

// IsSupportedAlgorithm reports whether alg is one of the names Sign accepts.
func IsSupportedAlgorithm(alg string) bool {
	return slices.Contains(supportedAlgorithms, alg)
}

func isHMAC(alg string) bool { return strings.HasPrefix(alg, "HS") }

func isAsymmetricAlg(alg string) bool {
	return strings.HasPrefix(alg, "RS") || strings.HasPrefix(alg, "PS") || strings.HasPrefix(alg, "ES")
}

// checkSigningKey enforces the key/algorithm pairing at issuance.
func checkSigningKey(alg string, key any, opts SignOptions) error {
	kind := KindOf(key)

	if alg == None {
		if kind != KeyNone {
			return kindError(ErrorKindKey, "secretOrPrivateKey must be empty when using none")
		}
		return nil
	}
	if kind == KeyNone {
		return kindError(ErrorKindKey, "secretOrPrivateKey must have a value")
	}

	switch {
	case isHMAC(alg):
		if kind != KeySymmetric {
			return kindError(ErrorKindKey, "secretOrPrivateKey must be a symmetric key when using "+alg)
		}
	case isAsymmetricAlg(alg):
		if !kind.Private() {
			return kindError(ErrorKindKey, "secretOrPrivateKey must be an asymmetric key when using "+alg)
		}
		if rk, ok := key.(*rsa.PrivateKey); ok && !opts.AllowInsecureKeySizes && !strings.HasPrefix(alg, "ES") {
			if rk.N.BitLen() < minRSAKeyBits {
				return kindError(ErrorKindKey, fmt.Sprintf("secretOrPrivateKey has a minimum key size of %d bits for %s", minRSAKeyBits, alg))
			}
		}
	}

	if !opts.AllowInvalidAsymmetricKeyTypes {
		return checkAsymmetricKey(alg, key)
	}
	return nil
}

// checkVerificationKey enforces the key/algorithm pairing for a token header.
func checkVerificationKey(alg string, key any, opts VerifyOptions) error {
	kind := KindOf(key)
	switch {
	case isHMAC(alg):
		if kind != KeySymmetric {
			return kindError(ErrorKindKey, "secretOrPublicKey must be a symmetric key when using "+alg)
		}
	case isAsymmetricAlg(alg):
		if !kind.Asymmetric() {
			return kindError(ErrorKindKey, "secretOrPublicKey must be an asymmetric key when using "+alg)
		}
	}
	if !opts.AllowInvalidAsymmetricKeyTypes {
		return checkAsymmetricKey(alg, key)
	}
	return nil
}

// checkAsymmetricKey rejects RSA keys used with ES algorithms, EC keys used
// with RS/PS algorithms, and EC keys on the wrong curve.
func checkAsymmetricKey(alg string, key any) error {
	var (
		keyType string
		allowed []string
		curve   string
	)
	switch k := key.(type) {
	case *rsa.PublicKey, *rsa.PrivateKey:
		keyType, allowed = "rsa", rsaAlgorithms
	case *ecdsa.PublicKey:
		keyType, allowed, curve = "ec", ecdsaAlgorithms, curveName(k)
	case *ecdsa.PrivateKey:
		keyType, allowed, curve = "ec", ecdsaAlgorithms, curveName(&k.PublicKey)
	default:
		return nil
	}

	if !slices.Contains(allowed, alg) {
		return kindError(ErrorKindKey, fmt.Sprintf(`"alg" parameter for %q key type must be one of: %s.`, keyType, strings.Join(allowed, ", ")))
	}
	if keyType == "ec" && curve != requiredCurve[alg] {
		return kindError(ErrorKindKey, fmt.Sprintf(`"alg" parameter %q requires curve %q.`, alg, requiredCurve[alg]))
	}
	return nil
}

func curveName(k *ecdsa.PublicKey) string {
	if k == nil || k.Curve == nil {
		return ""
	}
	return curveNames[k.Curve.Params().Name]
}
