package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"queueCtl/internal/admin"
	"queueCtl/internal/apierr"
	"queueCtl/internal/model"
)

func EnqueueCmd(api *admin.API) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue <json>",
		Short: "Add a job to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dec := json.NewDecoder(strings.NewReader(args[0]))
			dec.DisallowUnknownFields()

			var spec model.Spec
			if err := dec.Decode(&spec); err != nil {
				return fmt.Errorf("%w: %v", apierr.ErrInvalidSpec, err)
			}

			id, err := api.Enqueue(spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enqueued job %s\n", id)
			return nil
		},
	}
}
