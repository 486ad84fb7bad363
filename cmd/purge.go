package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"queueCtl/internal/admin"
)

func PurgeCmd(api *admin.API) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete jobs matching a selector",
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, _ := cmd.Flags().GetBool("completed")
			n, err := api.Purge(completed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d job(s)\n", n)
			return nil
		},
	}
	cmd.Flags().Bool("completed", false, "purge completed jobs (required selector)")
	return cmd
}
