package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/wire"
)

// AuditCmd returns the audit command
func AuditCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the registry audit trail",
		Long:  "List recorded mutations (init, task registrations, publishes), newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := wire.RegistryService().ListAudit(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to read audit trail: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("Audit trail is empty")
				return nil
			}

			for _, e := range entries {
				target := e.TaskID
				if e.Version > 0 {
					target = fmt.Sprintf("%s v%d", e.TaskID, e.Version)
				}
				fmt.Printf("%s  %-16s %-20s by %s\n", dimText(e.At), e.Op, target, e.Caller)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 for all)")
	return cmd
}
