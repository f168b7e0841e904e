package goJWT

import (
	"context"
	"encoding/json"
	"slices"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/goJWT/internal/audit"
	"github.com/MrEthical07/goJWT/jwt"
)

// Engine issues and verifies tokens under one configuration and key pair.
// It is safe for concurrent use. Build one with New().Build().
type Engine struct {
	config     Config
	signingKey any
	verifyKey  any
	audit      *audit.Dispatcher
	metrics    *Metrics
	logger     logrus.FieldLogger
	clock      jwt.Clock
	newJTI     func() string
	closed     atomic.Bool
}

// Close stops the audit dispatcher after draining queued events. Sign and
// Verify return ErrEngineNotReady afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closed.Store(true)
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observe(id MetricID, start time.Time) {
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(id, time.Since(start))
	}
}

func (e *Engine) ready() bool {
	return e != nil && !e.closed.Load()
}

// Sign issues a token for payload using the configured defaults.
func (e *Engine) Sign(ctx context.Context, payload any) (string, error) {
	return e.SignWith(ctx, payload, jwt.SignOptions{})
}

// SignWith issues a token for payload. Non-zero fields of overrides replace
// the configured defaults. Configured claim defaults (exp, nbf, aud, iss,
// sub, jti) apply to object payloads only and yield to claims already
// present in the payload.
func (e *Engine) SignWith(ctx context.Context, payload any, overrides jwt.SignOptions) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}
	opts := e.signOptions(payload, overrides)
	if e.signingKey == nil && opts.Algorithm != jwt.None {
		return "", ErrSigningKeyRequired
	}

	start := time.Now()
	token, err := jwt.Sign(payload, e.signingKey, opts)
	e.observe(MetricSignLatency, start)

	if err != nil {
		e.metricInc(MetricSignFailure)
		e.logger.WithFields(logrus.Fields{
			"alg":   opts.Algorithm,
			"error": err.Error(),
		}).Debug("goJWT: sign rejected")
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventTokenSignFailed,
			Algorithm: opts.Algorithm,
			KeyID:     opts.KeyID,
			Error:     err.Error(),
		})
		return "", err
	}

	e.metricInc(MetricSignSuccess)
	if e.audit != nil {
		event := AuditEvent{EventType: auditEventTokenSigned, Success: true}
		claimAttrs(&event, jwt.Decode(token, jwt.DecodeOptions{Complete: true}))
		e.emitAudit(ctx, event)
	}
	return token, nil
}

// Verify checks token against the configured policy and returns its
// payload: jwt.Claims for JSON object payloads, string otherwise.
func (e *Engine) Verify(ctx context.Context, token string) (any, error) {
	return e.VerifyWith(ctx, token, jwt.VerifyOptions{})
}

// VerifyWith checks token with overrides layered over the configured
// policy. Set overrides.Complete to receive a *jwt.Token. A resolver-backed
// verification key is awaited until ctx is done.
//
// Zero fields in overrides leave the configured value in place, and
// IgnoreNotBefore can only be switched on. Pass replacements such as
// ReplaceClockTolerance(0) to set a configured field to its zero value.
func (e *Engine) VerifyWith(ctx context.Context, token string, overrides jwt.VerifyOptions, replacements ...VerifyReplacement) (any, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}
	opts := e.verifyOptions(overrides)
	for _, replace := range replacements {
		if replace != nil {
			replace(&opts)
		}
	}
	if e.verifyKey == nil && !onlyUnsigned(opts.Algorithms) {
		return nil, ErrVerificationKeyRequired
	}
	complete := opts.Complete
	opts.Complete = true

	start := time.Now()
	out, err := jwt.VerifyContext(ctx, token, e.verifyKey, opts)
	e.observe(MetricVerifyLatency, start)

	if err != nil {
		e.rejected(ctx, token, err)
		return nil, err
	}

	e.metricInc(MetricVerifySuccess)
	t := out.(*jwt.Token)
	if e.audit != nil {
		event := AuditEvent{EventType: auditEventTokenVerified, Success: true}
		claimAttrs(&event, t)
		e.emitAudit(ctx, event)
	}
	if complete {
		return t, nil
	}
	return t.Payload, nil
}

func (e *Engine) rejected(ctx context.Context, token string, err error) {
	reason := ClassifyVerifyError(err)
	if id, ok := reasonMetrics[reason]; ok {
		e.metricInc(id)
	}

	event := AuditEvent{
		EventType: auditEventTokenRejected,
		Reason:    string(reason),
		Error:     err.Error(),
	}
	if t, ok := jwt.Decode(token, jwt.DecodeOptions{Complete: true}).(*jwt.Token); ok {
		claimAttrs(&event, t)
	}

	entry := e.logger.WithFields(logrus.Fields{
		"reason": reason,
		"alg":    event.Algorithm,
		"kid":    event.KeyID,
		"error":  err.Error(),
	})
	if reason == ReasonKeyResolver {
		entry.Warn("goJWT: key resolver failed")
	} else {
		entry.Debug("goJWT: token rejected")
	}
	e.emitAudit(ctx, event)
}

// Decode returns the payload of token without verifying it. See jwt.Decode.
func (e *Engine) Decode(token string, opts jwt.DecodeOptions) any {
	return jwt.Decode(token, opts)
}

func (e *Engine) signOptions(payload any, o jwt.SignOptions) jwt.SignOptions {
	cfg := e.config.Signing
	if o.Algorithm == "" {
		o.Algorithm = cfg.Algorithm
	}
	if o.KeyID == "" {
		o.KeyID = cfg.KeyID
	}
	if o.Clock == nil {
		o.Clock = e.clock
	}
	if !jwt.IsObjectPayload(payload) {
		return o
	}

	present := payloadClaimNames(payload)
	if o.ExpiresIn == nil && cfg.ExpiresIn > 0 && !present["exp"] {
		o.ExpiresIn = cfg.ExpiresIn
	}
	if o.NotBefore == nil && cfg.NotBefore > 0 && !present["nbf"] {
		o.NotBefore = cfg.NotBefore
	}
	if o.Audience == nil && len(cfg.Audience) > 0 && !present["aud"] {
		if len(cfg.Audience) == 1 {
			o.Audience = cfg.Audience[0]
		} else {
			o.Audience = slices.Clone(cfg.Audience)
		}
	}
	if o.Issuer == "" && !present["iss"] {
		o.Issuer = cfg.Issuer
	}
	if o.Subject == "" && !present["sub"] {
		o.Subject = cfg.Subject
	}
	if o.JWTID == "" && cfg.AutoJWTID && !present["jti"] {
		o.JWTID = e.newJTI()
	}
	o.NoTimestamp = o.NoTimestamp || cfg.NoTimestamp
	return o
}

// payloadClaimNames returns the top-level names present in an object
// payload. Undefined values count as absent.
func payloadClaimNames(payload any) map[string]bool {
	var m map[string]any
	switch v := payload.(type) {
	case jwt.Claims:
		m = v
	case map[string]any:
		m = v
	default:
		b, err := json.Marshal(v)
		if err != nil || json.Unmarshal(b, &m) != nil {
			return nil
		}
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		if v != jwt.Undefined {
			out[k] = true
		}
	}
	return out
}

func (e *Engine) verifyOptions(o jwt.VerifyOptions) jwt.VerifyOptions {
	cfg := e.config.Verification
	if len(o.Algorithms) == 0 {
		o.Algorithms = slices.Clone(cfg.Algorithms)
	}
	if o.Audience == nil && len(cfg.Audience) > 0 {
		o.Audience = slices.Clone(cfg.Audience)
	}
	if o.Issuer == nil && len(cfg.Issuer) > 0 {
		o.Issuer = slices.Clone(cfg.Issuer)
	}
	if o.Subject == "" {
		o.Subject = cfg.Subject
	}
	if o.ClockTolerance == 0 {
		o.ClockTolerance = cfg.ClockTolerance
	}
	if o.MaxAge == nil && cfg.MaxAge > 0 {
		o.MaxAge = cfg.MaxAge
	}
	o.IgnoreNotBefore = o.IgnoreNotBefore || cfg.IgnoreNotBefore
	if o.Clock == nil {
		o.Clock = e.clock
	}
	return o
}

// VerifyReplacement sets one verification field for a single VerifyWith
// call after the configured policy has been applied.
type VerifyReplacement func(*jwt.VerifyOptions)

// ReplaceClockTolerance sets the clock tolerance, zero included.
func ReplaceClockTolerance(d time.Duration) VerifyReplacement {
	return func(o *jwt.VerifyOptions) { o.ClockTolerance = d }
}

// ReplaceIgnoreNotBefore sets whether nbf is checked, overriding
// Verification.IgnoreNotBefore in either direction.
func ReplaceIgnoreNotBefore(ignore bool) VerifyReplacement {
	return func(o *jwt.VerifyOptions) { o.IgnoreNotBefore = ignore }
}

// ReplaceMaxAge sets the maxAge bound. nil disables a configured bound.
func ReplaceMaxAge(maxAge any) VerifyReplacement {
	return func(o *jwt.VerifyOptions) { o.MaxAge = maxAge }
}

// ReplaceSubject sets the required sub. "" disables a configured subject.
func ReplaceSubject(sub string) VerifyReplacement {
	return func(o *jwt.VerifyOptions) { o.Subject = sub }
}

func onlyUnsigned(algs []string) bool {
	return len(algs) == 1 && algs[0] == jwt.None
}
