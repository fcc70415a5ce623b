package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "history [task-id]",
		Short: "Show every published version of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := wire.RegistryService().History(context.Background(), args[0])
			if err != nil {
				return err
			}

			if len(versions) == 0 {
				fmt.Printf("%s has no published versions\n", args[0])
				return nil
			}

			for _, v := range versions {
				hash := shortHash(v.Hash)
				if full {
					hash = v.Hash
				}
				at := time.Unix(int64(v.Timestamp), 0).UTC().Format(time.RFC3339)
				fmt.Printf("v%-4d %s  %s\n", v.Version, hash, dimText(at))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print full hashes")
	return cmd
}
