package cmd

import (
	"fmt"

	"github.com/dendrascience/filekit/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates and returns the config subcommand for the filekit CLI.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the filekit config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [PATH]",
		Short: "Write an example config file",
		Long: `Write the effective configuration as TOML to PATH (default filekit.toml in
the working directory). An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := envFrom(cmd)
			if err != nil {
				return err
			}
			path := config.AppName + ".toml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.WriteExample(path, *e.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	})

	return cmd
}
