package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goJWT/jwt"
)

var (
	signExpiresIn string
	signNotBefore string
	signAudience  []string
	signIssuer    string
	signSubject   string
	signJWTID     string
	signKeyID     string
	signAlgorithm string
	signNoIat     bool
)

var signCmd = &cobra.Command{
	Use:   "sign [payload]",
	Short: "Sign a payload and print the token",
	Long: `Sign a payload and print the compact token.

The payload is read from the argument, or from stdin when the argument is
omitted or "-". A JSON object is signed as claims; any other text is signed as
a string payload.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	f := signCmd.Flags()
	f.StringVar(&signAlgorithm, "alg", "", "algorithm, defaults to the configured one")
	f.StringVar(&signExpiresIn, "expires-in", "", `lifetime such as "15m" or "2 days"`)
	f.StringVar(&signNotBefore, "not-before", "", "delay before the token becomes valid")
	f.StringSliceVar(&signAudience, "aud", nil, "audience, repeatable")
	f.StringVar(&signIssuer, "iss", "", "issuer")
	f.StringVar(&signSubject, "sub", "", "subject")
	f.StringVar(&signJWTID, "jti", "", "token id")
	f.StringVar(&signKeyID, "kid", "", "key id header")
	f.BoolVar(&signNoIat, "no-iat", false, "omit the iat claim")
}

func runSign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if signAlgorithm != "" {
		cfg.Signing.Algorithm = signAlgorithm
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

	opts := jwt.SignOptions{
		Issuer:      signIssuer,
		Subject:     signSubject,
		JWTID:       signJWTID,
		KeyID:       signKeyID,
		NoTimestamp: signNoIat,
	}
	if signExpiresIn != "" {
		opts.ExpiresIn = signExpiresIn
	}
	if signNotBefore != "" {
		opts.NotBefore = signNotBefore
	}
	switch len(signAudience) {
	case 0:
	case 1:
		opts.Audience = signAudience[0]
	default:
		opts.Audience = signAudience
	}

	token, err := engine.SignWith(context.Background(), parsePayload(raw), opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

// parsePayload returns claims for a JSON object and the trimmed text
// otherwise.
func parsePayload(raw string) any {
	var claims jwt.Claims
	if err := json.Unmarshal([]byte(raw), &claims); err == nil && claims != nil {
		return claims
	}
	return strings.TrimRight(raw, "\r\n")
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	if f, ok := stdin.(*os.File); ok {
		if st, err := f.Stat(); err == nil && st.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no input: pass an argument or pipe stdin")
		}
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
