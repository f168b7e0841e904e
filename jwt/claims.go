package jwt

import (
	"slices"
	"strings"
)

// validateClaims checks the time window and identity claims of a verified
// token in a fixed order: payload shape, nbf, exp, maxAge, aud, iss, sub,
// jti, nonce. The first failure is returned.
func validateClaims(payload any, opts *VerifyOptions) error {
	claims, ok := payload.(Claims)
	if !ok {
		if opts.hasIdentityMatchers() {
			return kindError(ErrorKindMalformed, "invalid token")
		}
		claims = Claims{}
	}

	now := opts.now()
	tol := opts.tolerance()

	if v, ok := claims["nbf"]; ok && !opts.IgnoreNotBefore {
		nbf, ok := toNumber(v)
		if !ok {
			return kindError(ErrorKindClaims, "invalid nbf value")
		}
		if nbf > now+tol {
			return &NotBeforeError{Message: "jwt not active", Date: secondsToTime(nbf)}
		}
	}

	if v, ok := claims["exp"]; ok && !opts.IgnoreExpiration {
		exp, ok := toNumber(v)
		if !ok {
			return kindError(ErrorKindClaims, "invalid exp value")
		}
		if now >= exp+tol {
			return &ExpiredError{Message: "jwt expired", ExpiredAt: secondsToTime(exp)}
		}
	}

	if opts.MaxAge != nil {
		iat, ok := claims.GetNumber("iat")
		if !ok {
			return kindError(ErrorKindClaims, "iat required when maxAge is specified")
		}
		deadline, ok := maxAgeDeadline(iat, opts.MaxAge)
		if !ok {
			return newError(`"maxAge" should be a number of seconds or string representing a timespan eg: "1d", "20h", 60`)
		}
		if now >= deadline+tol {
			return &ExpiredError{Message: "maxAge exceeded", ExpiredAt: secondsToTime(deadline)}
		}
	}

	if present(opts.Audience) {
		matchers, _ := audienceMatchers(opts.Audience)
		if !audienceMatches(claims["aud"], matchers) {
			names := make([]string, len(matchers))
			for i, m := range matchers {
				names[i] = m.String()
			}
			return kindError(ErrorKindClaims, "jwt audience invalid. expected: "+strings.Join(names, " or "))
		}
	}

	if present(opts.Issuer) {
		issuers, _ := issuerMatchers(opts.Issuer)
		iss, ok := claims.GetString("iss")
		if !ok || !slices.Contains(issuers, iss) {
			return kindError(ErrorKindClaims, "jwt issuer invalid. expected: "+strings.Join(issuers, ","))
		}
	}

	if opts.Subject != "" {
		if sub, _ := claims.GetString("sub"); sub != opts.Subject {
			return kindError(ErrorKindClaims, "jwt subject invalid. expected: "+opts.Subject)
		}
	}
	if opts.JWTID != "" {
		if jti, _ := claims.GetString("jti"); jti != opts.JWTID {
			return kindError(ErrorKindClaims, "jwt jwtid invalid. expected: "+opts.JWTID)
		}
	}
	if opts.Nonce != "" {
		if nonce, _ := claims.GetString("nonce"); nonce != opts.Nonce {
			return kindError(ErrorKindClaims, "jwt nonce invalid. expected: "+opts.Nonce)
		}
	}
	return nil
}

// audienceMatches reports whether any aud value satisfies any matcher.
func audienceMatches(aud any, matchers []audienceMatcher) bool {
	var targets []any
	switch t := aud.(type) {
	case nil:
		return false
	case []any:
		targets = t
	case []string:
		for _, s := range t {
			targets = append(targets, s)
		}
	default:
		targets = []any{t}
	}
	for _, target := range targets {
		for _, m := range matchers {
			if m.match(target) {
				return true
			}
		}
	}
	return false
}
