// Package cmd implements the jwtctl commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	goJWT "github.com/MrEthical07/goJWT"
	"github.com/MrEthical07/goJWT/jwt"
)

var (
	envPrefix string
	envFile   string
	secret    string
	keyFile   string
	verbose   bool
	auditLog  bool

	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "jwtctl",
	Short: "Sign, verify and inspect JSON Web Tokens",
	Long: `jwtctl issues and checks compact JWS tokens with the goJWT engine.

Configuration is read from environment variables under --prefix (for example
GOJWT_SIGNING_ALGORITHM), optionally loaded from --env-file first. A key given
with --secret or --key-file takes precedence over configured key material.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envPrefix, "prefix", "GOJWT", "environment variable prefix")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().StringVar(&secret, "secret", "", "HMAC secret")
	rootCmd.PersistentFlags().StringVar(&keyFile, "key-file", "", "PEM encoded RSA or EC key")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine decisions to stderr")
	rootCmd.PersistentFlags().BoolVar(&auditLog, "audit", false, "log audit events to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (goJWT.Config, error) {
	if envFile != "" {
		return goJWT.LoadConfigFromEnvFile(envFile, envPrefix)
	}
	return goJWT.LoadConfigFromEnv(envPrefix)
}

// loadKey returns the key named by --secret or --key-file, or nil when
// neither is set.
func loadKey() (any, error) {
	switch {
	case secret != "" && keyFile != "":
		return nil, fmt.Errorf("--secret and --key-file are mutually exclusive")
	case secret != "":
		return secret, nil
	case keyFile != "":
		pem, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
		return jwt.ParseKeyPEM(pem)
	}
	return nil, nil
}

// buildEngine assembles an engine from the environment and flags. When the
// key is a public key it is installed for verification only.
func buildEngine(cfg goJWT.Config) (*goJWT.Engine, error) {
	key, err := loadKey()
	if err != nil {
		return nil, err
	}

	if auditLog {
		cfg.Audit.Enabled = true
		if cfg.Audit.BufferSize == 0 {
			cfg.Audit.BufferSize = 64
		}
	}

	b := goJWT.New().WithConfig(cfg).WithLogger(logger)
	if auditLog {
		b = b.WithAuditSink(goJWT.NewLoggerSink(logger))
	}
	switch jwt.KindOf(key) {
	case jwt.KeyRSAPublic, jwt.KeyECPublic:
		b = b.WithVerificationKey(key)
	default:
		b = b.WithSigningKey(key)
	}
	return b.Build()
}
