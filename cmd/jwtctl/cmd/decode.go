package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goJWT/jwt"
)

var (
	decodeComplete bool
	decodeJSON     bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode [token]",
	Short: "Print a token payload without verifying it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolVar(&decodeComplete, "complete", false, "print header, payload and signature")
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "require a JSON payload even without typ JWT")
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	out := jwt.Decode(strings.TrimSpace(raw), jwt.DecodeOptions{Complete: decodeComplete, JSON: decodeJSON})
	if out == nil {
		return errors.New("token could not be decoded")
	}
	return printJSON(cmd, out)
}
