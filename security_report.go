package goJWT

import (
	"github.com/MrEthical07/goJWT/internal/security"
	"github.com/MrEthical07/goJWT/jwt"
)

// SecurityReport summarizes what the engine issues and what it accepts.
type SecurityReport = security.Report

// SecurityReport describes the engine's effective signing and acceptance
// policy. It holds no key material.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	verifyKind := "resolver"
	var keyAlgs []string
	switch e.verifyKey.(type) {
	case jwt.KeyFunc, func(jwt.Header, func(any, error)):
	default:
		kind := jwt.KindOf(e.verifyKey)
		verifyKind = kind.String()
		keyAlgs = jwt.AllowedAlgorithms(kind)
	}

	findings := e.config.Lint()
	return security.BuildReport(security.ReportInput{
		SigningAlgorithm:     e.config.Signing.Algorithm,
		SigningKeyKind:       jwt.KindOf(e.signingKey).String(),
		VerificationKeyKind:  verifyKind,
		ExpiresIn:            e.config.Signing.ExpiresIn,
		NotBefore:            e.config.Signing.NotBefore,
		ConfiguredAlgorithms: e.config.Verification.Algorithms,
		KeyAlgorithms:        keyAlgs,
		Audience:             e.config.Verification.Audience,
		Issuer:               e.config.Verification.Issuer,
		MaxAge:               e.config.Verification.MaxAge,
		ClockTolerance:       e.config.Verification.ClockTolerance,
		AutoJWTID:            e.config.Signing.AutoJWTID,
		AuditEnabled:         e.audit != nil,
		MetricsEnabled:       e.metrics.Enabled(),
		HighSeverityFindings: len(findings.BySeverity(LintHigh)),
		TotalFindings:        len(findings),
	})
}
