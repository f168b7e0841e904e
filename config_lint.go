package goJWT

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MrEthical07/goJWT/jwt"
)

// LintSeverity ranks a configuration warning. Higher values are more severe.
type LintSeverity int

const (
	// LintInfo flags a choice worth knowing about.
	LintInfo LintSeverity = iota
	// LintWarn flags a setting that weakens the acceptance policy.
	LintWarn
	// LintHigh flags a setting that lets forged or replayed tokens through.
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("LintSeverity(%d)", int(s))
	}
}

// LintWarning is one finding produced by Config.Lint.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is the ordered list of findings for one Config.
type LintResult []LintWarning

// Codes returns the warning codes in report order.
func (r LintResult) Codes() []string {
	out := make([]string, len(r))
	for i, w := range r {
		out[i] = w.Code
	}
	return out
}

// BySeverity returns the warnings at or above threshold.
func (r LintResult) BySeverity(threshold LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= threshold {
			out = append(out, w)
		}
	}
	return out
}

// AsError returns nil when no warning reaches threshold, and otherwise one error
// listing every offending code.
func (r LintResult) AsError(threshold LintSeverity) error {
	hits := r.BySeverity(threshold)
	if len(hits) == 0 {
		return nil
	}
	return fmt.Errorf("config lint: %d finding(s) at %s or above: %s", len(hits), threshold, strings.Join(hits.Codes(), ", "))
}

const (
	lintMaxClockTolerance = time.Minute
	lintMaxExpiresIn      = 24 * time.Hour
	lintMinSecretBytes    = 32
)

// Lint reports settings that are valid but risky. It never fails; pair it
// with AsError to gate startup on a severity.
func (c *Config) Lint() LintResult {
	var out LintResult
	add := func(code string, sev LintSeverity, msg string) {
		out = append(out, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	alg := c.Signing.Algorithm
	switch {
	case alg == jwt.None:
		add("signing_none", LintHigh, "tokens are issued unsigned")
	case strings.HasPrefix(alg, "HS"):
		add("signing_hmac", LintInfo, "verifiers must hold the signing secret")
		if c.Keys.Secret != "" && len(c.Keys.Secret) < lintMinSecretBytes {
			add("secret_short", LintHigh, fmt.Sprintf("HMAC secret shorter than %d bytes", lintMinSecretBytes))
		}
	}

	switch {
	case c.Signing.ExpiresIn == 0:
		add("no_expiry", LintWarn, "issued tokens carry no exp claim")
	case c.Signing.ExpiresIn > lintMaxExpiresIn:
		add("expiry_long", LintWarn, "issued tokens live longer than a day")
	}

	if c.Signing.NoTimestamp && c.Verification.MaxAge > 0 {
		add("max_age_without_iat", LintHigh, "maxAge is enforced but tokens are issued without iat")
	}
	if c.Verification.MaxAge > 0 && c.Signing.ExpiresIn > 0 && c.Verification.MaxAge >= c.Signing.ExpiresIn {
		add("max_age_not_binding", LintInfo, "maxAge is never reached before exp")
	}

	if c.Verification.ClockTolerance > lintMaxClockTolerance {
		add("clock_tolerance_large", LintWarn, "clock tolerance exceeds one minute")
	}

	algs := c.Verification.Algorithms
	switch {
	case len(algs) == 0:
		add("verify_algorithms_unpinned", LintWarn, "accepted algorithms follow the key type")
	case slices.Contains(algs, jwt.None):
		add("verify_algorithms_none", LintHigh, "unsigned tokens are accepted")
	case mixesKeyFamilies(algs):
		add("verify_algorithms_mixed", LintHigh, "HMAC and asymmetric algorithms are accepted together")
	}
	if len(algs) > 0 && alg != "" && !slices.Contains(algs, alg) {
		add("verify_rejects_own_algorithm", LintWarn, "the signing algorithm is not in the verification allow-list")
	}

	if len(c.Verification.Audience) == 0 {
		add("audience_unchecked", LintInfo, "aud is not checked")
	}
	if len(c.Verification.Issuer) == 0 {
		add("issuer_unchecked", LintInfo, "iss is not checked")
	}
	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "token events are not audited")
	}
	return out
}

func mixesKeyFamilies(algs []string) bool {
	var hmac, asym bool
	for _, a := range algs {
		if strings.HasPrefix(a, "HS") {
			hmac = true
		} else if a != jwt.None {
			asym = true
		}
	}
	return hmac && asym
}
