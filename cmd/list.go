package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"queueCtl/internal/admin"
	"queueCtl/internal/model"
)

func ListCmd(api *admin.API) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _ := cmd.Flags().GetString("state")
			jobs, err := api.List(model.Filter{State: state})
			if err != nil {
				return err
			}
			return printJobs(cmd.OutOrStdout(), jobs)
		},
	}
	cmd.Flags().String("state", "", "filter by state (pending, processing, completed, dead)")
	return cmd
}

func printJobs(w io.Writer, jobs []model.Job) error {
	enc := json.NewEncoder(w)
	for _, j := range jobs {
		if err := enc.Encode(j); err != nil {
			return err
		}
	}
	return nil
}
