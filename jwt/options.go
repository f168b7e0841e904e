package jwt

import (
	"encoding/json"
	"math"
	"regexp"
	"time"

	"github.com/MrEthical07/goJWT/internal/jws"
	"github.com/MrEthical07/goJWT/internal/timespan"
)

// SignOptions controls issuance. Zero values mean "not supplied".
//
// ExpiresIn and NotBefore accept an integer number of seconds, a timespan
// string such as "2h" or "10 days", or a time.Duration. Audience accepts a
// string or a slice of strings.
type SignOptions struct {
	Algorithm   string
	ExpiresIn   any
	NotBefore   any
	Audience    any
	Issuer      string
	Subject     string
	JWTID       string
	KeyID       string
	NoTimestamp bool

	// MutatePayload writes injected claims back into a Claims or
	// map[string]any payload instead of a private copy.
	MutatePayload bool

	// Header fields are merged over the computed header. "alg" is ignored;
	// use Algorithm.
	Header map[string]any

	// Encoding of the payload bytes: "utf8" (default), "binary", "latin1" or "ascii".
	Encoding string

	AllowInsecureKeySizes          bool
	AllowInvalidAsymmetricKeyTypes bool

	Clock Clock
}

// VerifyOptions controls verification. Zero values mean "not supplied".
//
// Audience accepts a string, a *regexp.Regexp, or a slice mixing both.
// Issuer accepts a string or a slice of strings. MaxAge accepts the same
// values as SignOptions.ExpiresIn, plus fractional seconds.
type VerifyOptions struct {
	Algorithms []string
	Audience   any
	Issuer     any
	Subject    string
	JWTID      string
	Nonce      string

	ClockTolerance time.Duration
	// ClockTimestamp overrides "now" in epoch seconds when non-zero.
	ClockTimestamp int64
	Clock          Clock

	MaxAge           any
	IgnoreExpiration bool
	IgnoreNotBefore  bool

	// Complete returns a *Token instead of the bare payload.
	Complete bool

	AllowInvalidAsymmetricKeyTypes bool
}

// validate type-checks sign options and returns the effective algorithm.
func (o *SignOptions) validate() (string, error) {
	alg := o.Algorithm
	if alg == "" {
		alg = HS256
	}
	if !IsSupportedAlgorithm(alg) {
		return "", newError(`"algorithm" must be a valid string enum value`)
	}
	if o.ExpiresIn != nil && !isTimespanValue(o.ExpiresIn) {
		return "", newError(`"expiresIn" should be a number of seconds or string representing a timespan`)
	}
	if o.NotBefore != nil && !isTimespanValue(o.NotBefore) {
		return "", newError(`"notBefore" should be a number of seconds or string representing a timespan`)
	}
	if o.Audience != nil {
		if _, ok := audienceClaim(o.Audience); !ok {
			return "", newError(`"audience" must be a string or array`)
		}
	}
	if _, err := jws.EncodePayload("", o.Encoding); err != nil {
		return "", wrapError(errUnknownEncoding, err)
	}
	return alg, nil
}

// objectOnlyOptions lists the options that imply a registered claim, in
// the order used by error messages.
func (o *SignOptions) objectOnlyOptions() []string {
	var out []string
	if o.ExpiresIn != nil {
		out = append(out, "expiresIn")
	}
	if o.NotBefore != nil {
		out = append(out, "notBefore")
	}
	if o.NoTimestamp {
		out = append(out, "noTimestamp")
	}
	if o.Audience != nil {
		out = append(out, "audience")
	}
	if o.Issuer != "" {
		out = append(out, "issuer")
	}
	if o.Subject != "" {
		out = append(out, "subject")
	}
	if o.JWTID != "" {
		out = append(out, "jwtid")
	}
	return out
}

func (o *VerifyOptions) validate() error {
	if present(o.Audience) {
		if _, ok := audienceMatchers(o.Audience); !ok {
			return newError(`"audience" must be a string, regular expression or array`)
		}
	}
	if present(o.Issuer) {
		if _, ok := issuerMatchers(o.Issuer); !ok {
			return newError(`"issuer" must be a string or array`)
		}
	}
	if o.ClockTolerance < 0 {
		return newError(`"clockTolerance" must be a non-negative duration`)
	}
	return nil
}

func (o *VerifyOptions) hasIdentityMatchers() bool {
	return present(o.Audience) || present(o.Issuer) || o.Subject != "" || o.JWTID != "" || o.Nonce != ""
}

// present treats nil and "" as an absent matcher.
func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// now returns the verification instant in epoch seconds.
func (o *VerifyOptions) now() float64 {
	if o.ClockTimestamp != 0 {
		return float64(o.ClockTimestamp)
	}
	return float64(epochSeconds(o.Clock))
}

func (o *VerifyOptions) tolerance() float64 {
	return o.ClockTolerance.Seconds()
}

// isTimespanValue accepts integers, integral finite floats, non-empty
// strings and durations.
func isTimespanValue(v any) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case time.Duration:
		return true
	}
	f, ok := toNumber(v)
	return ok && !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// addTimespan adds span to base. Numbers add whole seconds; strings and
// durations add milliseconds and round down.
func addTimespan(base float64, span any) (float64, bool) {
	switch t := span.(type) {
	case string:
		return timespan.AddTo(base, t)
	case time.Duration:
		return math.Floor(base + float64(t.Milliseconds())/1000), true
	}
	f, ok := toNumber(span)
	if !ok {
		return 0, false
	}
	return base + f, true
}

// audienceClaim normalizes a sign-time audience to the value stored in aud.
func audienceClaim(v any) (any, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []any:
		out := make([]any, len(t))
		copy(out, t)
		return out, true
	}
	return nil, false
}

// audienceMatcher is a literal or a pattern.
type audienceMatcher struct {
	literal string
	re      *regexp.Regexp
}

func (m audienceMatcher) String() string {
	if m.re != nil {
		return "/" + m.re.String() + "/"
	}
	return m.literal
}

func (m audienceMatcher) match(target any) bool {
	if m.re != nil {
		s, ok := target.(string)
		if !ok {
			b, err := json.Marshal(target)
			if err != nil {
				return false
			}
			s = string(b)
		}
		return m.re.MatchString(s)
	}
	s, ok := target.(string)
	return ok && s == m.literal
}

func audienceMatchers(v any) ([]audienceMatcher, bool) {
	one := func(x any) (audienceMatcher, bool) {
		switch t := x.(type) {
		case string:
			return audienceMatcher{literal: t}, true
		case *regexp.Regexp:
			if t == nil {
				return audienceMatcher{}, false
			}
			return audienceMatcher{re: t}, true
		}
		return audienceMatcher{}, false
	}

	switch t := v.(type) {
	case []string:
		out := make([]audienceMatcher, len(t))
		for i, s := range t {
			out[i] = audienceMatcher{literal: s}
		}
		return out, true
	case []*regexp.Regexp:
		out := make([]audienceMatcher, 0, len(t))
		for _, re := range t {
			m, ok := one(re)
			if !ok {
				return nil, false
			}
			out = append(out, m)
		}
		return out, true
	case []any:
		out := make([]audienceMatcher, 0, len(t))
		for _, x := range t {
			m, ok := one(x)
			if !ok {
				return nil, false
			}
			out = append(out, m)
		}
		return out, true
	}
	m, ok := one(v)
	if !ok {
		return nil, false
	}
	return []audienceMatcher{m}, true
}

// issuerMatchers returns the accepted issuers.
func issuerMatchers(v any) ([]string, bool) {
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			s, ok := x.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// maxAgeDeadline resolves a maxAge option against iat and returns the
// instant after which the token is too old.
func maxAgeDeadline(iat float64, maxAge any) (float64, bool) {
	switch t := maxAge.(type) {
	case string, time.Duration:
		return addTimespan(iat, t)
	}
	f, ok := toNumber(maxAge)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return iat + f, true
}

// toNumber converts Go numeric types and json.Number to float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
