package goJWT

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidateEnums(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
		wantErr   string
	}{
		{
			name:      "defaults valid",
			mutate:    func(c *Config) {},
			wantValid: true,
		},
		{
			name: "signing algorithm missing",
			mutate: func(c *Config) {
				c.Signing.Algorithm = ""
			},
			wantErr: "Signing Algorithm is required",
		},
		{
			name: "signing algorithm unknown",
			mutate: func(c *Config) {
				c.Signing.Algorithm = "HS1024"
			},
			wantErr: `Signing Algorithm "HS1024" is not a supported algorithm`,
		},
		{
			name: "signing algorithm lowercase rejected",
			mutate: func(c *Config) {
				c.Signing.Algorithm = "hs256"
			},
			wantErr: "not a supported algorithm",
		},
		{
			name: "negative expiry",
			mutate: func(c *Config) {
				c.Signing.ExpiresIn = -time.Second
			},
			wantErr: "Signing ExpiresIn must be >= 0",
		},
		{
			name: "zero expiry valid",
			mutate: func(c *Config) {
				c.Signing.ExpiresIn = 0
			},
			wantValid: true,
		},
		{
			name: "blank sign audience entry",
			mutate: func(c *Config) {
				c.Signing.Audience = []string{"api", ""}
			},
			wantErr: "Signing Audience[1] is required",
		},
		{
			name: "verify algorithm unknown",
			mutate: func(c *Config) {
				c.Verification.Algorithms = []string{"RS256", "EdDSA"}
			},
			wantErr: "Verification Algorithms[1]",
		},
		{
			name: "negative clock tolerance",
			mutate: func(c *Config) {
				c.Verification.ClockTolerance = -time.Second
			},
			wantErr: "Verification ClockTolerance must be >= 0",
		},
		{
			name: "negative max age",
			mutate: func(c *Config) {
				c.Verification.MaxAge = -time.Minute
			},
			wantErr: "Verification MaxAge must be >= 0",
		},
		{
			name: "audit without buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantErr: "Audit BufferSize is required",
		},
		{
			name: "audit disabled without buffer valid",
			mutate: func(c *Config) {
				c.Audit.BufferSize = 0
			},
			wantValid: true,
		},
		{
			name: "none with secret",
			mutate: func(c *Config) {
				c.Signing.Algorithm = "none"
				c.Keys.Secret = "s"
			},
			wantErr: "Signing Algorithm none cannot be combined with key material",
		},
		{
			name: "none mixed into verification",
			mutate: func(c *Config) {
				c.Verification.Algorithms = []string{"HS256", "none"}
			},
			wantErr: "cannot mix none",
		},
		{
			name: "secret and pem together",
			mutate: func(c *Config) {
				c.Keys.Secret = "s"
				c.Keys.PrivateKeyPEM = []byte("pem")
			},
			wantErr: "mutually exclusive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tc.wantErr, err)
			}
		})
	}
}

func TestHighSecurityConfigValid(t *testing.T) {
	cfg := HighSecurityConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("HighSecurityConfig invalid: %v", err)
	}
}

func TestCloneConfigDetachesSlices(t *testing.T) {
	cfg := defaultConfig()
	cfg.Verification.Audience = []string{"api"}
	cfg.Keys.PublicKeyPEM = []byte("pem")

	out := cloneConfig(cfg)
	cfg.Verification.Audience[0] = "tampered"
	cfg.Keys.PublicKeyPEM[0] = 'X'

	if out.Verification.Audience[0] != "api" || out.Keys.PublicKeyPEM[0] != 'p' {
		t.Fatal("clone shares backing arrays with the source")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GOJWT_SIGNING_ALGORITHM", "HS512")
	t.Setenv("GOJWT_SIGNING_EXPIRES_IN", "1h")
	t.Setenv("GOJWT_SIGNING_AUDIENCE", "api,admin")
	t.Setenv("GOJWT_SIGNING_KEY_ID", "k-2024")
	t.Setenv("GOJWT_SIGNING_AUTO_JWT_ID", "true")
	t.Setenv("GOJWT_VERIFICATION_ALGORITHMS", "HS512")
	t.Setenv("GOJWT_VERIFICATION_CLOCK_TOLERANCE", "5s")
	t.Setenv("GOJWT_AUDIT_ENABLED", "true")

	cfg, err := LoadConfigFromEnv("GOJWT")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Signing.Algorithm != "HS512" || cfg.Signing.ExpiresIn != time.Hour {
		t.Fatalf("unexpected signing config %+v", cfg.Signing)
	}
	if len(cfg.Signing.Audience) != 2 || cfg.Signing.Audience[1] != "admin" {
		t.Fatalf("unexpected audience %v", cfg.Signing.Audience)
	}
	if cfg.Signing.KeyID != "k-2024" || !cfg.Signing.AutoJWTID {
		t.Fatalf("unexpected signing config %+v", cfg.Signing)
	}
	if cfg.Verification.ClockTolerance != 5*time.Second || cfg.Verification.Algorithms[0] != "HS512" {
		t.Fatalf("unexpected verification config %+v", cfg.Verification)
	}
	if !cfg.Audit.Enabled || cfg.Audit.BufferSize != 1024 {
		t.Fatalf("defaults should survive partial env: %+v", cfg.Audit)
	}
}

func TestLoadConfigFromEnvRejectsInvalid(t *testing.T) {
	t.Setenv("GOJWT_SIGNING_ALGORITHM", "XS256")
	if _, err := LoadConfigFromEnv("GOJWT"); err == nil {
		t.Fatal("expected validation error")
	}

	t.Setenv("GOJWT_SIGNING_ALGORITHM", "HS256")
	t.Setenv("GOJWT_SIGNING_EXPIRES_IN", "soon")
	if _, err := LoadConfigFromEnv("GOJWT"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt.env")
	body := "GOJWTF_SIGNING_ISSUER=from-file\nGOJWTF_SIGNING_SUBJECT=from-file\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	// Variables already in the environment win over the file.
	t.Setenv("GOJWTF_SIGNING_SUBJECT", "from-env")
	t.Cleanup(func() { os.Unsetenv("GOJWTF_SIGNING_ISSUER") })

	cfg, err := LoadConfigFromEnvFile(path, "GOJWTF")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Signing.Issuer != "from-file" || cfg.Signing.Subject != "from-env" {
		t.Fatalf("unexpected %+v", cfg.Signing)
	}

	if _, err := LoadConfigFromEnvFile(filepath.Join(t.TempDir(), "missing.env"), "GOJWTF"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
