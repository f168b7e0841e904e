package jwt

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
	"strings"

	"github.com/MrEthical07/goJWT/internal/jws"
)

const errUnknownEncoding = `"encoding" must be one of utf8, binary, latin1, ascii`

// identityOptions maps sign options to the claims they populate.
var identityOptions = []struct {
	option string
	claim  string
	value  func(*SignOptions) (any, bool)
}{
	{"audience", "aud", func(o *SignOptions) (any, bool) {
		if o.Audience == nil {
			return nil, false
		}
		return audienceClaim(o.Audience)
	}},
	{"issuer", "iss", func(o *SignOptions) (any, bool) { return o.Issuer, o.Issuer != "" }},
	{"subject", "sub", func(o *SignOptions) (any, bool) { return o.Subject, o.Subject != "" }},
	{"jwtid", "jti", func(o *SignOptions) (any, bool) { return o.JWTID, o.JWTID != "" }},
}

// Sign issues a compact token for payload.
//
// payload may be Claims, map[string]any, any value that encodes as a JSON
// object, a string, a []byte, a number or a bool. Only structured payloads
// receive registered claims.
func Sign(payload any, key any, opts SignOptions) (string, error) {
	alg, err := opts.validate()
	if err != nil {
		return "", err
	}
	if err := checkSigningKey(alg, key, opts); err != nil {
		return "", err
	}

	p, err := preparePayload(payload, opts.MutatePayload)
	if err != nil {
		return "", err
	}
	if p.kind == payloadObject {
		if err := validatePayloadClaims(p.claims); err != nil {
			return "", err
		}
	} else if invalid := opts.objectOnlyOptions(); len(invalid) > 0 {
		return "", newError("invalid " + strings.Join(invalid, ",") + " option for " + p.kind.typeName() + " payload")
	}

	if p.kind == payloadObject {
		if err := injectClaims(p.claims, &opts); err != nil {
			return "", err
		}
	}

	header, err := encodeHeader(alg, p.kind == payloadObject, opts)
	if err != nil {
		return "", err
	}
	body, err := p.encode()
	if err != nil {
		return "", err
	}
	body, err = jws.EncodePayload(string(body), opts.Encoding)
	if err != nil {
		return "", wrapError(errUnknownEncoding, err)
	}

	token, err := jws.Sign(header, body, alg, key)
	if err != nil {
		return "", wrapError(err.Error(), err)
	}
	return token, nil
}

// SignAsync runs Sign on a new goroutine and delivers the result to done.
func SignAsync(payload any, key any, opts SignOptions, done func(token string, err error)) {
	go func() {
		done(Sign(payload, key, opts))
	}()
}

// injectClaims writes iat, nbf, exp and the identity claims into c.
func injectClaims(c Claims, opts *SignOptions) error {
	if c.Has("exp") && opts.ExpiresIn != nil {
		return newError(`Bad "options.expiresIn" option the payload already has an "exp" property.`)
	}
	if c.Has("nbf") && opts.NotBefore != nil {
		return newError(`Bad "options.notBefore" option the payload already has an "nbf" property.`)
	}

	base := float64(epochSeconds(opts.Clock))
	if iat, ok := c.GetNumber("iat"); ok {
		base = iat
	}

	if opts.NoTimestamp {
		delete(c, "iat")
	} else {
		c["iat"] = secondsValue(base)
	}

	if opts.NotBefore != nil {
		nbf, ok := addTimespan(base, opts.NotBefore)
		if !ok {
			return newError(`"notBefore" should be a number of seconds or string representing a timespan eg: "1d", "20h", 60`)
		}
		c["nbf"] = secondsValue(nbf)
	}
	if opts.ExpiresIn != nil {
		exp, ok := addTimespan(base, opts.ExpiresIn)
		if !ok {
			return newError(`"expiresIn" should be a number of seconds or string representing a timespan eg: "1d", "20h", 60`)
		}
		c["exp"] = secondsValue(exp)
	}

	for _, entry := range identityOptions {
		v, ok := entry.value(opts)
		if !ok {
			continue
		}
		if c.Has(entry.claim) {
			return newError(`Bad "options.` + entry.option + `" option. The payload already has an "` + entry.claim + `" property.`)
		}
		c[entry.claim] = v
	}
	return nil
}

// encodeHeader renders alg, typ and kid first, then caller fields in key order.
func encodeHeader(alg string, object bool, opts SignOptions) ([]byte, error) {
	fields := map[string]any{"alg": alg}
	if object {
		fields["typ"] = "JWT"
	}
	if opts.KeyID != "" {
		fields["kid"] = opts.KeyID
	}
	extra := make([]string, 0, len(opts.Header))
	for k, v := range opts.Header {
		if k == "alg" {
			continue
		}
		if isUndefined(v) {
			delete(fields, k)
			continue
		}
		if k != "typ" && k != "kid" {
			extra = append(extra, k)
		}
		fields[k] = v
	}
	sort.Strings(extra)

	order := slices.Concat([]string{"alg", "typ", "kid"}, extra)
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range order {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		name, _ := json.Marshal(k)
		val, err := marshalJSON(stripUndefined(v))
		if err != nil {
			return nil, wrapError(`"header" could not be encoded`, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
