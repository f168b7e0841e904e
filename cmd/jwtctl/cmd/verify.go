package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	goJWT "github.com/MrEthical07/goJWT"
	"github.com/MrEthical07/goJWT/jwt"
)

var (
	verifyAlgorithms []string
	verifyAudience   []string
	verifyIssuer     []string
	verifySubject    string
	verifyMaxAge     string
	verifyTolerance  time.Duration
	verifyComplete   bool
	verifyTimeout    time.Duration
)

var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Verify a token and print its payload",
	Long: `Verify the signature and claims of a token and print the payload as JSON.

On rejection the error and its class (malformed, expired, invalid_signature,
...) are printed and the command exits non-zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	f := verifyCmd.Flags()
	f.StringSliceVar(&verifyAlgorithms, "alg", nil, "allowed algorithms, repeatable")
	f.StringSliceVar(&verifyAudience, "aud", nil, "accepted audience, repeatable")
	f.StringSliceVar(&verifyIssuer, "iss", nil, "accepted issuer, repeatable")
	f.StringVar(&verifySubject, "sub", "", "required subject")
	f.StringVar(&verifyMaxAge, "max-age", "", `maximum age since iat such as "1h"`)
	f.DurationVar(&verifyTolerance, "clock-tolerance", 0, "allowed clock skew")
	f.BoolVar(&verifyComplete, "complete", false, "print header, payload and signature")
	f.DurationVar(&verifyTimeout, "timeout", 5*time.Second, "verification deadline")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	opts := jwt.VerifyOptions{
		Algorithms:     verifyAlgorithms,
		Subject:        verifySubject,
		ClockTolerance: verifyTolerance,
		Complete:       verifyComplete,
	}
	if len(verifyAudience) > 0 {
		opts.Audience = verifyAudience
	}
	if len(verifyIssuer) > 0 {
		opts.Issuer = verifyIssuer
	}
	if verifyMaxAge != "" {
		opts.MaxAge = verifyMaxAge
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	out, err := engine.VerifyWith(ctx, strings.TrimSpace(raw), opts)
	if err != nil {
		return fmt.Errorf("%s: %w", goJWT.ClassifyVerifyError(err), err)
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
