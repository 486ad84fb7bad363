package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"queueCtl/internal/apierr"
	"queueCtl/internal/supervisor"
)

const stopTimeout = 30 * time.Second

func WorkerCmd(sup *supervisor.Supervisor) *cobra.Command {
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage the worker pool",
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Start the worker pool and block until shutdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			if count < 1 {
				return fmt.Errorf("%w: --count must be >= 1", apierr.ErrInvalidSpec)
			}
			return sup.Start(count)
		},
	}
	start.Flags().Int("count", 1, "number of workers to start")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Signal a running supervisor to shut down gracefully",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sup.Stop(stopTimeout)
		},
	}

	workerCmd.AddCommand(start, stop)
	return workerCmd
}
