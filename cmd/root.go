package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"queueCtl/internal/admin"
	"queueCtl/internal/apierr"
	"queueCtl/internal/supervisor"
)

var rootCmd = &cobra.Command{
	Use:           "qctl",
	Short:         "A single-node durable background job queue",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute wires every subcommand against api and sup, runs cobra, and
// returns the process exit code: 0 success, 1 operational failure,
// 2 usage/validation error.
func Execute(api *admin.API, sup *supervisor.Supervisor) int {
	rootCmd.AddCommand(
		EnqueueCmd(api),
		WorkerCmd(sup),
		StatusCmd(api),
		ListCmd(api),
		DlqCmd(api),
		ConfigCmd(api),
		PurgeCmd(api),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return 0
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, apierr.ErrDuplicateId),
		errors.Is(err, apierr.ErrNotFound),
		errors.Is(err, apierr.ErrNotDead),
		errors.Is(err, apierr.ErrAlreadyRunning):
		return 1
	}
	var storeErr *apierr.Store
	if errors.As(err, &storeErr) {
		return 1
	}
	return 2
}
