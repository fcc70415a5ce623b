// Package cli contains the cobra commands for the provreg tool.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/wire"
)

// resolveCaller returns the caller identity for a mutating command:
// the --as flag when given, otherwise whatever the environment provides.
func resolveCaller(cmd *cobra.Command) (string, error) {
	caller, _ := cmd.Flags().GetString("as")
	if caller != "" {
		return caller, nil
	}

	caller, err := wire.CallerProvider().CurrentIdentity()
	if err != nil {
		return "", fmt.Errorf("no caller identity\nHint: use --as, set PROVREG_IDENTITY, or add identity to .provreg/config.json: %w", err)
	}
	return caller, nil
}

// addCallerFlag registers the --as flag on a mutating command.
func addCallerFlag(cmd *cobra.Command) {
	cmd.Flags().String("as", "", "Caller identity (defaults to PROVREG_IDENTITY, config, or OS user)")
}

// shortHash renders the first bytes of a hex hash for list output.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12] + "…"
	}
	return hash
}

func okMark() string {
	return color.New(color.FgHiGreen).Sprint("✓")
}

func dimText(s string) string {
	return color.New(color.FgHiBlack).Sprint(s)
}
