package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/ports/primary"
	"github.com/example/provreg/internal/wire"
)

// PublishCmd returns the publish command
func PublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [task-id] [hex-hash]",
		Short: "Publish a new content hash for a task",
		Long: `Publish appends a new immutable version for a registered task.
The hash must be a hex-encoded 32-byte content digest. Versions are numbered
sequentially; the first publish for a task lands at version 2.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := resolveCaller(cmd)
			if err != nil {
				return err
			}

			v, err := wire.RegistryService().PublishVersion(context.Background(), primary.PublishVersionRequest{
				Caller: caller,
				TaskID: args[0],
				Hash:   args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to publish: %w", err)
			}

			at := time.Unix(int64(v.Timestamp), 0).UTC().Format(time.RFC3339)
			fmt.Printf("%s Published %s v%d\n", okMark(), v.TaskID, v.Version)
			fmt.Printf("  Hash: %s\n", v.Hash)
			fmt.Printf("  At:   %s\n", at)
			return nil
		},
	}

	addCallerFlag(cmd)
	return cmd
}
