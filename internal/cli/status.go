package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/db"
	"github.com/example/provreg/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show registry status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			dbPath, err := db.GetDBPath()
			if err != nil {
				return err
			}

			owner, err := wire.RegistryService().GetOwner(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Database: %s\n", dbPath)
			if !owner.Initialized {
				fmt.Printf("Owner:    %s\n", dimText("(not initialized - run provreg init)"))
				return nil
			}
			fmt.Printf("Owner:    %s %s\n", owner.Identity, dimText("since "+owner.InitializedAt))

			tasks, err := wire.RegistryService().ListTasks(ctx)
			if err != nil {
				return err
			}

			var published uint64
			for _, t := range tasks {
				published += t.PublishedCount
			}
			fmt.Printf("Tasks:    %d registered, %d versions published\n", len(tasks), published)
			return nil
		},
	}
}
