package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/db"
	"github.com/example/provreg/internal/ports/primary"
	"github.com/example/provreg/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the registry and claim ownership",
		Long: `Initialize the provreg database and set the registry owner to the caller.
Initialization is one-shot: once an owner is set it can never be changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := resolveCaller(cmd)
			if err != nil {
				return err
			}

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			info, err := wire.RegistryService().InitOwner(context.Background(), primary.InitRequest{
				Caller: caller,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize registry: %w", err)
			}

			fmt.Printf("%s Registry initialized at %s\n", okMark(), dbPath)
			fmt.Printf("%s Owner set to %s\n", okMark(), info.Identity)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  provreg task register my-task")
			fmt.Println("  provreg publish my-task <hex-hash>")
			return nil
		},
	}

	addCallerFlag(cmd)
	return cmd
}
