package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	goJWT "github.com/MrEthical07/goJWT"
)

var lintFailOn string

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report risky settings in the loaded configuration",
	Args:  cobra.NoArgs,
	RunE:  runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().StringVar(&lintFailOn, "fail-on", "high", "exit non-zero at this severity: info, warn, high or none")
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	findings := cfg.Lint()
	out := cmd.OutOrStdout()
	if len(findings) == 0 {
		fmt.Fprintln(out, "no findings")
	}
	for _, w := range findings {
		fmt.Fprintf(out, "%-5s %-28s %s\n", w.Severity, w.Code, w.Message)
	}

	switch lintFailOn {
	case "none":
		return nil
	case "info":
		return findings.AsError(goJWT.LintInfo)
	case "warn":
		return findings.AsError(goJWT.LintWarn)
	case "high":
		return findings.AsError(goJWT.LintHigh)
	}
	return fmt.Errorf("unknown --fail-on value %q", lintFailOn)
}
