package goJWT

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/MrEthical07/goJWT/jwt"
)

// RejectReason is the coarse class of a verification failure, recorded in
// audit events and log fields.
type RejectReason string

const (
	ReasonMalformed        RejectReason = "malformed"
	ReasonInvalidAlgorithm RejectReason = "invalid_algorithm"
	ReasonInvalidSignature RejectReason = "invalid_signature"
	ReasonInvalidKey       RejectReason = "invalid_key"
	ReasonExpired          RejectReason = "expired"
	ReasonNotActive        RejectReason = "not_active"
	ReasonInvalidClaims    RejectReason = "invalid_claims"
	ReasonKeyResolver      RejectReason = "key_resolver"
	ReasonInvalidOptions   RejectReason = "invalid_options"
	ReasonCanceled         RejectReason = "canceled"
)

// ClassifyVerifyError maps an error returned by Engine.Verify or
// jwt.Verify onto a RejectReason. It returns "" for nil and
// ReasonInvalidOptions for errors of unknown origin.
func ClassifyVerifyError(err error) RejectReason {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCanceled
	}
	return kindReasons[jwt.KindOfError(err)]
}

var kindReasons = map[jwt.ErrorKind]RejectReason{
	jwt.ErrorKindUnknown:     ReasonInvalidOptions,
	jwt.ErrorKindOptions:     ReasonInvalidOptions,
	jwt.ErrorKindMalformed:   ReasonMalformed,
	jwt.ErrorKindAlgorithm:   ReasonInvalidAlgorithm,
	jwt.ErrorKindSignature:   ReasonInvalidSignature,
	jwt.ErrorKindKey:         ReasonInvalidKey,
	jwt.ErrorKindKeyResolver: ReasonKeyResolver,
	jwt.ErrorKindClaims:      ReasonInvalidClaims,
	jwt.ErrorKindExpired:     ReasonExpired,
	jwt.ErrorKindNotActive:   ReasonNotActive,
}

var reasonMetrics = map[RejectReason]MetricID{
	ReasonMalformed:        MetricVerifyMalformed,
	ReasonInvalidAlgorithm: MetricVerifyInvalidAlgorithm,
	ReasonInvalidSignature: MetricVerifyInvalidSignature,
	ReasonInvalidKey:       MetricVerifyInvalidKey,
	ReasonExpired:          MetricVerifyExpired,
	ReasonNotActive:        MetricVerifyNotActive,
	ReasonInvalidClaims:    MetricVerifyInvalidClaims,
	ReasonKeyResolver:      MetricVerifyKeyResolverFailure,
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	if md := contextMetadata(ctx); md != nil {
		if event.Metadata == nil {
			event.Metadata = md
		} else {
			maps.Copy(event.Metadata, md)
		}
	}
	e.audit.Emit(ctx, event)
}

// claimAttrs extracts the audit attributes of a verified or signed payload.
func claimAttrs(event *AuditEvent, payload any) {
	var c jwt.Claims
	switch v := payload.(type) {
	case jwt.Claims:
		c = v
	case *jwt.Token:
		c, _ = v.Claims()
		if event.Algorithm == "" {
			event.Algorithm = v.Header.Algorithm()
		}
		if event.KeyID == "" {
			event.KeyID = v.Header.KeyID()
		}
	default:
		return
	}
	event.Subject, _ = c.GetString("sub")
	event.Issuer, _ = c.GetString("iss")
	event.TokenID, _ = c.GetString("jti")
}
