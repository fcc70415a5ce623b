package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/wire"
)

// LatestCmd returns the latest command
func LatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest [task-id]",
		Short: "Show the authoritative version of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := wire.RegistryService().GetLatest(context.Background(), args[0])
			if err != nil {
				return err
			}

			at := time.Unix(int64(v.Timestamp), 0).UTC().Format(time.RFC3339)
			fmt.Printf("%s v%d\n", v.TaskID, v.Version)
			fmt.Printf("  Hash: %s\n", v.Hash)
			fmt.Printf("  At:   %s\n", at)
			return nil
		},
	}
}
