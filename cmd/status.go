package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"queueCtl/internal/admin"
	"queueCtl/internal/model"
)

func StatusCmd(api *admin.API) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show supervisor and job-count status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := api.Status()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if st.Running {
				fmt.Fprintf(w, "supervisor: running (pid %d, %d worker(s), started %s)\n",
					st.PID, st.WorkerCount, st.StartedAt.Format(time.RFC3339))
			} else {
				fmt.Fprintln(w, "supervisor: not running")
			}
			fmt.Fprintln(w, "jobs:")
			for _, state := range []string{model.StatePending, model.StateProcessing, model.StateCompleted, model.StateDead} {
				fmt.Fprintf(w, "  %-10s %d\n", state, st.Counts[state])
			}
			return nil
		},
	}
}
