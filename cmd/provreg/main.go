package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/cli"
	"github.com/example/provreg/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "provreg",
		Short:   "provreg - versioned provenance registry",
		Version: version.String(),
		Long: `provreg records an append-only, strictly ordered history of content hashes
for named tasks, gated so only the registry owner can mutate it. Reads are
open to anyone.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.PublishCmd())
	rootCmd.AddCommand(cli.LatestCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.AuditCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
