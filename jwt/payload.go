package jwt

import (
	"bytes"
	"encoding/json"
	"maps"
	"math"
	"strconv"
)

// Claims is a structured payload.
type Claims map[string]any

type undefinedValue struct{}

// Undefined marks a claim as present but without a value. Private claims
// holding it are left out of the encoded payload; iat, exp and nbf holding
// it fail validation; aud, iss, sub and jti holding it count as absent.
var Undefined any = undefinedValue{}

func isUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// Has reports whether name is present with a value other than Undefined.
func (c Claims) Has(name string) bool {
	v, ok := c[name]
	return ok && !isUndefined(v)
}

// GetString returns the claim as a string.
func (c Claims) GetString(name string) (string, bool) {
	s, ok := c[name].(string)
	return s, ok
}

// GetNumber returns the claim as float64 when it holds any Go numeric type.
func (c Claims) GetNumber(name string) (float64, bool) {
	return toNumber(c[name])
}

// Audience returns aud normalized to a slice.
func (c Claims) Audience() []string {
	switch v := c["aud"].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

type payloadKind int

const (
	payloadObject payloadKind = iota
	payloadString
	payloadBuffer
	payloadNumber
	payloadBoolean
)

// typeName is the name reported in "invalid <option> option for <type> payload".
func (k payloadKind) typeName() string {
	switch k {
	case payloadString:
		return "string"
	case payloadNumber:
		return "number"
	case payloadBoolean:
		return "boolean"
	default:
		return "object"
	}
}

// IsObjectPayload reports whether Sign treats p as a claims object. Only
// object payloads accept the claim-setting options.
func IsObjectPayload(p any) bool {
	switch p.(type) {
	case nil, undefinedValue, string, []byte, bool:
		return false
	}
	_, isNumber := toNumber(p)
	return !isNumber
}

// payload is the working form of a sign-time payload.
type payload struct {
	kind   payloadKind
	claims Claims
	raw    []byte
}

// preparePayload classifies p. Structured payloads are copied unless
// mutate is set and p is a Claims or map[string]any.
func preparePayload(p any, mutate bool) (*payload, error) {
	switch v := p.(type) {
	case nil, undefinedValue:
		return nil, newError("payload is required")
	case Claims:
		return objectPayload(v, mutate), nil
	case map[string]any:
		return objectPayload(Claims(v), mutate), nil
	case string:
		return &payload{kind: payloadString, raw: []byte(v)}, nil
	case []byte:
		return &payload{kind: payloadBuffer, raw: bytes.Clone(v)}, nil
	case bool:
		return &payload{kind: payloadBoolean, raw: []byte(strconv.FormatBool(v))}, nil
	}

	if f, ok := toNumber(p); ok {
		b, err := json.Marshal(p)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			b = []byte("null")
		}
		return &payload{kind: payloadNumber, raw: b}, nil
	}

	claims, err := claimsFromValue(p)
	if err != nil {
		return nil, err
	}
	return &payload{kind: payloadObject, claims: claims}, nil
}

func objectPayload(c Claims, mutate bool) *payload {
	if c == nil {
		c = Claims{}
	}
	if !mutate {
		c = maps.Clone(c)
	}
	return &payload{kind: payloadObject, claims: c}
}

// claimsFromValue converts a struct or other map through its JSON form.
func claimsFromValue(v any) (Claims, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, wrapError("payload could not be encoded", err)
	}
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, newError("payload must be an object, string, number, boolean or byte slice")
	}
	return Claims(m), nil
}

// timeClaims are the registered claims holding epoch seconds.
var timeClaims = []string{"iat", "exp", "nbf"}

// validatePayloadClaims requires iat, exp and nbf to be numeric when present.
func validatePayloadClaims(c Claims) error {
	for _, name := range timeClaims {
		v, ok := c[name]
		if !ok {
			continue
		}
		if _, ok := toNumber(v); !ok {
			return newError(`"` + name + `" should be a number of seconds`)
		}
	}
	return nil
}

// secondsValue stores an epoch value. Non-finite values become nil, which
// encodes as null.
func secondsValue(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// encode renders the payload bytes.
func (p *payload) encode() ([]byte, error) {
	if p.kind != payloadObject {
		return p.raw, nil
	}

	out := stripUndefined(map[string]any(p.claims)).(map[string]any)
	for _, name := range timeClaims {
		if v, ok := out[name]; ok {
			if f, ok := toNumber(v); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				out[name] = nil
			}
		}
	}
	return marshalJSON(out)
}

// stripUndefined removes Undefined values from nested objects.
func stripUndefined(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			if isUndefined(x) {
				continue
			}
			out[k] = stripUndefined(x)
		}
		return out
	case Claims:
		return stripUndefined(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			if isUndefined(x) {
				out[i] = nil
				continue
			}
			out[i] = stripUndefined(x)
		}
		return out
	}
	return v
}

// marshalJSON encodes without HTML escaping and without a trailing newline.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, wrapError("payload could not be encoded", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
