package jwt

import (
	"math"
	"regexp"
	"sort"
	"time"
)

// SignOptionsFromMap builds SignOptions from a loosely typed option bag such
// as decoded JSON. Keys use the lowerCamel names (expiresIn, noTimestamp,
// keyid, ...). Unknown keys are rejected.
func SignOptionsFromMap(bag map[string]any) (SignOptions, error) {
	var opts SignOptions
	for _, key := range sortedKeys(bag) {
		v := bag[key]
		var err error
		switch key {
		case "algorithm":
			s, ok := v.(string)
			if !ok || !IsSupportedAlgorithm(s) {
				err = newError(`"algorithm" must be a valid string enum value`)
			}
			opts.Algorithm = s
		case "expiresIn":
			if !isTimespanValue(v) {
				err = newError(`"expiresIn" should be a number of seconds or string representing a timespan`)
			}
			opts.ExpiresIn = v
		case "notBefore":
			if !isTimespanValue(v) {
				err = newError(`"notBefore" should be a number of seconds or string representing a timespan`)
			}
			opts.NotBefore = v
		case "audience":
			if _, ok := audienceClaim(v); !ok {
				err = newError(`"audience" must be a string or array`)
			}
			opts.Audience = v
		case "issuer":
			opts.Issuer, err = bagString(key, v)
		case "subject":
			opts.Subject, err = bagString(key, v)
		case "jwtid":
			opts.JWTID, err = bagString(key, v)
		case "keyid":
			opts.KeyID, err = bagString(key, v)
		case "encoding":
			opts.Encoding, err = bagString(key, v)
		case "noTimestamp":
			opts.NoTimestamp, err = bagBool(key, v)
		case "mutatePayload":
			opts.MutatePayload, err = bagBool(key, v)
		case "allowInsecureKeySizes":
			opts.AllowInsecureKeySizes, err = bagBool(key, v)
		case "allowInvalidAsymmetricKeyTypes":
			opts.AllowInvalidAsymmetricKeyTypes, err = bagBool(key, v)
		case "header":
			h, ok := v.(map[string]any)
			if !ok {
				if hh, isHeader := v.(Header); isHeader {
					h, ok = hh, true
				}
			}
			if !ok {
				err = newError(`"header" must be an object`)
			}
			opts.Header = h
		default:
			err = newError(`"` + key + `" is not allowed`)
		}
		if err != nil {
			return SignOptions{}, err
		}
	}
	return opts, nil
}

// VerifyOptionsFromMap builds VerifyOptions from a loosely typed option bag.
// Numbers for clockTolerance and clockTimestamp are seconds. Unknown keys
// are ignored.
func VerifyOptionsFromMap(bag map[string]any) (VerifyOptions, error) {
	var opts VerifyOptions
	for _, key := range sortedKeys(bag) {
		v := bag[key]
		var err error
		switch key {
		case "algorithms":
			opts.Algorithms, err = bagStrings(key, v)
		case "audience":
			opts.Audience = bagAudience(v)
		case "issuer":
			opts.Issuer = v
		case "subject":
			opts.Subject, err = bagString(key, v)
		case "jwtid":
			opts.JWTID, err = bagString(key, v)
		case "nonce":
			s, ok := v.(string)
			if !ok || s == "" {
				err = newError("nonce must be a non-empty string")
			}
			opts.Nonce = s
		case "clockTimestamp":
			f, ok := toNumber(v)
			if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
				err = newError("clockTimestamp must be a number")
			}
			opts.ClockTimestamp = int64(f)
		case "clockTolerance":
			f, ok := toNumber(v)
			switch {
			case !ok || math.IsNaN(f) || math.IsInf(f, 0):
				err = newError("clockTolerance must be a number")
			case f < 0:
				err = newError(`"clockTolerance" must be a non-negative duration`)
			}
			opts.ClockTolerance = time.Duration(f * float64(time.Second))
		case "maxAge":
			if _, ok := maxAgeDeadline(0, v); !ok {
				err = newError(`"maxAge" should be a number of seconds or string representing a timespan eg: "1d", "20h", 60`)
			}
			opts.MaxAge = v
		case "ignoreExpiration":
			opts.IgnoreExpiration, err = bagBool(key, v)
		case "ignoreNotBefore":
			opts.IgnoreNotBefore, err = bagBool(key, v)
		case "complete":
			opts.Complete, err = bagBool(key, v)
		case "allowInvalidAsymmetricKeyTypes":
			b, ok := v.(bool)
			if !ok {
				err = newError("allowInvalidAsymmetricKeyTypes must be a boolean")
			}
			opts.AllowInvalidAsymmetricKeyTypes = b
		}
		if err != nil {
			return VerifyOptions{}, err
		}
	}
	if err := opts.validate(); err != nil {
		return VerifyOptions{}, err
	}
	return opts, nil
}

func sortedKeys(bag map[string]any) []string {
	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func bagString(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", newError(`"` + name + `" must be a string`)
	}
	return s, nil
}

func bagBool(name string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, newError(`"` + name + `" must be a boolean`)
	}
	return b, nil
}

func bagStrings(name string, v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			s, ok := x.(string)
			if !ok {
				return nil, newError(`"` + name + `" must be an array of strings`)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, newError(`"` + name + `" must be an array of strings`)
}

// bagAudience compiles "/src/" strings into patterns so decoded JSON can
// express regular-expression audiences.
func bagAudience(v any) any {
	conv := func(x any) any {
		s, ok := x.(string)
		if !ok || len(s) < 2 || s[0] != '/' || s[len(s)-1] != '/' {
			return x
		}
		re, err := regexp.Compile(s[1 : len(s)-1])
		if err != nil {
			return x
		}
		return re
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i, x := range list {
			out[i] = conv(x)
		}
		return out
	}
	return conv(v)
}
