package goJWT

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/goJWT/internal/audit"
	"github.com/MrEthical07/goJWT/jwt"
)

// Builder assembles an Engine. A Builder is single use.
type Builder struct {
	config Config

	signingKey any
	verifyKey  any

	logger    logrus.FieldLogger
	auditSink AuditSink
	clock     jwt.Clock

	lintGate    bool
	lintGateSev LintSeverity

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. cfg is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningKey sets the key used by Sign: a string or []byte secret for
// HS*, an RSA private key for RS* and PS*, an ECDSA private key for ES*.
func (b *Builder) WithSigningKey(key any) *Builder {
	b.signingKey = key
	return b
}

// WithVerificationKey sets the key used by Verify. key may be static
// material, a jwt.KeyFunc, or a jwt.KeySet selected by kid. Without it the
// engine verifies with the public half of the signing key.
func (b *Builder) WithVerificationKey(key any) *Builder {
	b.verifyKey = key
	return b
}

// WithLogger sets the structured logger. The default discards output.
func (b *Builder) WithLogger(logger logrus.FieldLogger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets the audit consumer. It only takes effect when
// Config.Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides the time source for both signing and verification.
func (b *Builder) WithClock(clock jwt.Clock) *Builder {
	b.clock = clock
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithLintGate makes Build fail when Config.Lint reports a finding at or
// above sev.
func (b *Builder) WithLintGate(sev LintSeverity) *Builder {
	b.lintGate = true
	b.lintGateSev = sev
	return b
}

// Build validates the configuration and keys and starts the audit
// dispatcher when enabled.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = discardLogger()
	}

	findings := cfg.Lint()
	for _, w := range findings {
		entry := logger.WithFields(logrus.Fields{"code": w.Code, "severity": w.Severity.String()})
		if w.Severity >= LintWarn {
			entry.Warn("goJWT: config lint: " + w.Message)
		} else {
			entry.Debug("goJWT: config lint: " + w.Message)
		}
	}
	if b.lintGate {
		if err := findings.AsError(b.lintGateSev); err != nil {
			return nil, err
		}
	}

	signingKey, err := resolveSigningKey(b.signingKey, cfg.Keys)
	if err != nil {
		return nil, err
	}
	verifyKey, err := resolveVerificationKey(b.verifyKey, signingKey, cfg.Keys)
	if err != nil {
		return nil, err
	}

	if signingKey != nil {
		kind := jwt.KindOf(signingKey)
		if !slices.Contains(jwt.AllowedAlgorithms(kind), cfg.Signing.Algorithm) {
			return nil, fmt.Errorf("signing key of kind %s cannot sign %s", kind, cfg.Signing.Algorithm)
		}
	}

	engine := &Engine{
		config:     cloneConfig(cfg),
		signingKey: signingKey,
		verifyKey:  verifyKey,
		metrics:    NewMetrics(cfg.Metrics),
		logger:     logger,
		clock:      b.clock,
		newJTI:     uuid.NewString,
	}

	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
		OnDrop: func(ev audit.Event) {
			logger.WithField("event_type", ev.EventType).Warn("goJWT: audit buffer full, event dropped")
		},
	}, b.auditSink)

	return engine, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func resolveSigningKey(key any, keys KeyConfig) (any, error) {
	if key != nil {
		return key, nil
	}
	switch {
	case keys.Secret != "":
		return keys.Secret, nil
	case len(keys.PrivateKeyPEM) > 0:
		k, err := jwt.ParseKeyPEM(keys.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("Keys PrivateKeyPEM: %w", err)
		}
		return k, nil
	}
	return nil, nil
}

func resolveVerificationKey(key, signingKey any, keys KeyConfig) (any, error) {
	switch k := key.(type) {
	case nil:
	case jwt.KeySet:
		return k.Resolver(), nil
	default:
		return key, nil
	}
	if len(keys.PublicKeyPEM) > 0 {
		k, err := jwt.ParseKeyPEM(keys.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("Keys PublicKeyPEM: %w", err)
		}
		return k, nil
	}
	return publicHalf(signingKey), nil
}

// publicHalf returns the key that verifies signatures made with key.
func publicHalf(key any) any {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		if k == nil {
			return nil
		}
		return &k.PublicKey
	case *ecdsa.PrivateKey:
		if k == nil {
			return nil
		}
		return &k.PublicKey
	}
	return key
}
