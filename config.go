package goJWT

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/MrEthical07/goJWT/jwt"
)

// Config holds engine-wide defaults. Per-call options passed to SignWith and
// VerifyWith override the matching fields.
type Config struct {
	Signing      SigningConfig
	Verification VerificationConfig
	Keys         KeyConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

/*
====================================
SIGNING CONFIG
====================================
*/

// SigningConfig sets the registered claims and header fields stamped on every
// issued token. Zero durations leave the claim unset.
type SigningConfig struct {
	Algorithm   string        `split_words:"true" validate:"required,oneof=HS256 HS384 HS512 RS256 RS384 RS512 PS256 PS384 PS512 ES256 ES384 ES512 none"`
	ExpiresIn   time.Duration `split_words:"true" validate:"gte=0"`
	NotBefore   time.Duration `split_words:"true" validate:"gte=0"`
	Issuer      string
	Subject     string
	Audience    []string `validate:"omitempty,dive,required"`
	KeyID       string   `envconfig:"KEY_ID"`
	NoTimestamp bool     `split_words:"true"`
	// AutoJWTID stamps a random UUID as jti when the call supplies none.
	AutoJWTID bool `envconfig:"AUTO_JWT_ID"`
}

/*
====================================
VERIFICATION CONFIG
====================================
*/

// VerificationConfig sets the acceptance policy applied by Verify. An empty
// Algorithms list falls back to the families compatible with the key.
type VerificationConfig struct {
	Algorithms      []string `validate:"omitempty,dive,oneof=HS256 HS384 HS512 RS256 RS384 RS512 PS256 PS384 PS512 ES256 ES384 ES512 none"`
	Audience        []string `validate:"omitempty,dive,required"`
	Issuer          []string `validate:"omitempty,dive,required"`
	Subject         string
	ClockTolerance  time.Duration `split_words:"true" validate:"gte=0"`
	MaxAge          time.Duration `split_words:"true" validate:"gte=0"`
	IgnoreNotBefore bool          `split_words:"true"`
}

/*
====================================
KEY CONFIG
====================================
*/

// KeyConfig carries key material for engines configured from the
// environment. Keys passed to the Builder take precedence.
type KeyConfig struct {
	Secret        string
	PrivateKeyPEM []byte `envconfig:"PRIVATE_KEY_PEM"`
	PublicKeyPEM  []byte `envconfig:"PUBLIC_KEY_PEM"`
}

/*
====================================
AUDIT / METRICS
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int  `split_words:"true" validate:"required_if=Enabled true,gte=0"`
	DropIfFull bool `split_words:"true"`
}

// MetricsConfig toggles the in-process counters and latency histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool `split_words:"true"`
}

func defaultConfig() Config {
	return Config{
		Signing: SigningConfig{
			Algorithm: jwt.HS256,
			ExpiresIn: 15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// DefaultConfig returns the baseline configuration: HS256, fifteen minute
// tokens, iat stamped, no verification pinning.
func DefaultConfig() Config {
	return defaultConfig()
}

// HighSecurityConfig returns a preset for asymmetric deployments: ES256 only,
// short-lived tokens with a jti, bounded token age and audit enabled.
func HighSecurityConfig() Config {
	cfg := defaultConfig()
	cfg.Signing.Algorithm = jwt.ES256
	cfg.Signing.ExpiresIn = 5 * time.Minute
	cfg.Signing.AutoJWTID = true
	cfg.Verification.Algorithms = []string{jwt.ES256}
	cfg.Verification.ClockTolerance = 5 * time.Second
	cfg.Verification.MaxAge = time.Hour
	cfg.Audit.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Signing.Audience = slices.Clone(cfg.Signing.Audience)
	out.Verification.Algorithms = slices.Clone(cfg.Verification.Algorithms)
	out.Verification.Audience = slices.Clone(cfg.Verification.Audience)
	out.Verification.Issuer = slices.Clone(cfg.Verification.Issuer)
	out.Keys.PrivateKeyPEM = cloneBytes(cfg.Keys.PrivateKeyPEM)
	out.Keys.PublicKeyPEM = cloneBytes(cfg.Keys.PublicKeyPEM)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
LOADING
====================================
*/

// LoadConfigFromEnv overlays environment variables named PREFIX_SECTION_FIELD
// (for example GOJWT_SIGNING_EXPIRES_IN=1h) onto DefaultConfig and validates
// the result. Unset variables keep their defaults.
func LoadConfigFromEnv(prefix string) (Config, error) {
	cfg := defaultConfig()
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFromEnvFile reads a dotenv file into the process environment,
// without replacing variables that are already set, then calls
// LoadConfigFromEnv.
func LoadConfigFromEnvFile(path, prefix string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, fmt.Errorf("load env file %s: %w", path, err)
	}
	return LoadConfigFromEnv(prefix)
}

/*
====================================
VALIDATION
====================================
*/

var configValidator = validator.New()

// Validate checks field ranges and enums, then the cross-field rules that
// struct tags cannot express.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return describeFieldError(fieldErrs[0])
		}
		return err
	}

	if c.Signing.Algorithm == jwt.None && (c.Keys.Secret != "" || len(c.Keys.PrivateKeyPEM) > 0) {
		return errors.New("Signing Algorithm none cannot be combined with key material")
	}
	if len(c.Verification.Algorithms) > 1 && slices.Contains(c.Verification.Algorithms, jwt.None) {
		return errors.New("Verification Algorithms cannot mix none with signed algorithms")
	}
	if c.Keys.Secret != "" && len(c.Keys.PrivateKeyPEM) > 0 {
		return errors.New("Keys Secret and PrivateKeyPEM are mutually exclusive")
	}
	return nil
}

func describeFieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	field = strings.ReplaceAll(field, ".", " ")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s %q is not a supported algorithm", field, fe.Value())
	case "gte":
		return fmt.Errorf("%s must be >= %s", field, fe.Param())
	default:
		return fmt.Errorf("%s failed %s validation", field, fe.Tag())
	}
}
