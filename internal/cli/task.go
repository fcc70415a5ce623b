package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/provreg/internal/ports/primary"
	"github.com/example/provreg/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage registered tasks",
	Long:  "Register and inspect the named tasks whose provenance this registry tracks",
}

var taskRegisterCmd = &cobra.Command{
	Use:   "register [task-id]",
	Short: "Register a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := resolveCaller(cmd)
		if err != nil {
			return err
		}

		summary, err := wire.RegistryService().RegisterTask(context.Background(), primary.RegisterTaskRequest{
			Caller: caller,
			TaskID: args[0],
		})
		if err != nil {
			return fmt.Errorf("failed to register task: %w", err)
		}

		fmt.Printf("%s Registered task %s\n", okMark(), summary.ID)
		fmt.Printf("  No versions yet - publish one with: provreg publish %s <hex-hash>\n", summary.ID)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := wire.RegistryService().ListTasks(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks registered")
			return nil
		}

		for _, task := range tasks {
			published := fmt.Sprintf("%d published", task.PublishedCount)
			if task.PublishedCount == 0 {
				published = dimText("no versions yet")
			}
			fmt.Printf("%-30s latest v%-4d %s\n", task.ID, task.LatestVersion, published)
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		task, err := wire.RegistryService().GetTask(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Task: %s\n", task.ID)
		fmt.Printf("  Registered:     %s\n", task.CreatedAt)
		fmt.Printf("  Latest version: %d\n", task.LatestVersion)
		fmt.Printf("  Published:      %d\n", task.PublishedCount)

		latest, err := wire.RegistryService().GetLatest(ctx, task.ID)
		if err != nil {
			fmt.Printf("  Current hash:   %s\n", dimText("(none)"))
			return nil
		}
		fmt.Printf("  Current hash:   %s\n", latest.Hash)
		return nil
	},
}

// TaskCmd returns the task command with subcommands attached.
func TaskCmd() *cobra.Command {
	addCallerFlag(taskRegisterCmd)

	taskCmd.AddCommand(taskRegisterCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	return taskCmd
}
