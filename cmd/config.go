package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"queueCtl/internal/admin"
)

func ConfigCmd(api *admin.API) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set a recognized config key",
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Args:  cobra.ExactArgs(1),
		Short: "Print a config value",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok, err := api.ConfigGet(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Args:  cobra.ExactArgs(2),
		Short: "Set a config value",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.ConfigSet(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}

	configCmd.AddCommand(get, set)
	return configCmd
}
