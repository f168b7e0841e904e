package security

import (
	"slices"
	"strings"
	"time"
)

// Report summarizes the acceptance posture of one engine.
type Report struct {
	SigningAlgorithm     string
	SigningKeyKind       string
	VerificationKeyKind  string
	TokenLifetime        time.Duration
	NotBeforeDelay       time.Duration
	AcceptedAlgorithms   []string
	AlgorithmsPinned     bool
	AcceptsUnsigned      bool
	MixesKeyFamilies     bool
	AudienceChecked      bool
	IssuerChecked        bool
	MaxAge               time.Duration
	ClockTolerance       time.Duration
	TokenIDsStamped      bool
	AuditEnabled         bool
	MetricsEnabled       bool
	HighSeverityFindings int
	TotalFindings        int
}

// ReportInput is the raw engine state a Report is derived from.
type ReportInput struct {
	SigningAlgorithm     string
	SigningKeyKind       string
	VerificationKeyKind  string
	ExpiresIn            time.Duration
	NotBefore            time.Duration
	ConfiguredAlgorithms []string
	KeyAlgorithms        []string
	Audience             []string
	Issuer               []string
	MaxAge               time.Duration
	ClockTolerance       time.Duration
	AutoJWTID            bool
	AuditEnabled         bool
	MetricsEnabled       bool
	HighSeverityFindings int
	TotalFindings        int
}

// BuildReport derives the report. When no algorithms are configured the
// accepted set is the one implied by the verification key.
func BuildReport(input ReportInput) Report {
	accepted := input.ConfiguredAlgorithms
	pinned := len(accepted) > 0
	if !pinned {
		accepted = input.KeyAlgorithms
	}
	accepted = slices.Clone(accepted)

	var hmac, asym bool
	for _, alg := range accepted {
		switch {
		case strings.HasPrefix(alg, "HS"):
			hmac = true
		case alg != "none":
			asym = true
		}
	}

	return Report{
		SigningAlgorithm:     input.SigningAlgorithm,
		SigningKeyKind:       input.SigningKeyKind,
		VerificationKeyKind:  input.VerificationKeyKind,
		TokenLifetime:        input.ExpiresIn,
		NotBeforeDelay:       input.NotBefore,
		AcceptedAlgorithms:   accepted,
		AlgorithmsPinned:     pinned,
		AcceptsUnsigned:      slices.Contains(accepted, "none"),
		MixesKeyFamilies:     hmac && asym,
		AudienceChecked:      len(input.Audience) > 0,
		IssuerChecked:        len(input.Issuer) > 0,
		MaxAge:               input.MaxAge,
		ClockTolerance:       input.ClockTolerance,
		TokenIDsStamped:      input.AutoJWTID,
		AuditEnabled:         input.AuditEnabled,
		MetricsEnabled:       input.MetricsEnabled,
		HighSeverityFindings: input.HighSeverityFindings,
		TotalFindings:        input.TotalFindings,
	}
}
