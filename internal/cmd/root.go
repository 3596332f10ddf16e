package cmd

import (
	"context"
	"errors"

	"github.com/dendrascience/filekit/config"
	"github.com/dendrascience/filekit/logging"
	"github.com/dendrascience/filekit/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	groupCatalog   = "catalog"
	groupBatch     = "batch"
	groupUtilities = "utilities"

	// configKeyAnnotation marks a flag as an override for a config key.
	configKeyAnnotation = "filekit_config_key"
)

// env is the per-invocation state resolved before any subcommand runs.
type env struct {
	cfg *config.Config
	log zerolog.Logger
}

type envKey struct{}

// NewRootCmd creates and returns the root cobra command for the filekit CLI.
// It sets up all subcommands, command groups, and the shared configuration.
func NewRootCmd() *cobra.Command {
	v := config.New()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "filekit - spreadsheet-driven file cataloguing and batch jobs",
		Long: `filekit catalogues directory trees and runs bulk file jobs driven by
spreadsheets.

Use subcommands to perform different operations:
  - collect: Write a metadata report (path, name, type, size, MD5) for a tree
  - verify: Re-check a metadata report against the filesystem
  - organize: Copy documents into entity folders from a mapping workbook
  - rename: Copy files under new names from a mapping workbook
  - move: Move renamed files listed in a workbook`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				if keys, ok := f.Annotations[configKeyAnnotation]; ok && len(keys) > 0 {
					_ = v.BindPFlag(keys[0], f)
				}
			})
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{cfg: cfg, log: logger}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a filekit config file (toml, yaml or json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console or json)")
	bindFlag(rootCmd.PersistentFlags(), "log-level", "log.level")
	bindFlag(rootCmd.PersistentFlags(), "log-format", "log.format")

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupCatalog,
		Title: "Catalog Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupBatch,
		Title: "Batch Jobs",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	collectCmd := NewCollectCmd()
	verifyCmd := NewVerifyCmd()
	organizeCmd := NewOrganizeCmd()
	renameCmd := NewRenameCmd()
	moveCmd := NewMoveCmd()
	countCmd := NewCountCmd()
	seedCmd := NewSeedCmd()
	configCmd := NewConfigCmd()
	versionCmd := NewVersionCmd()

	collectCmd.GroupID = groupCatalog
	verifyCmd.GroupID = groupCatalog
	organizeCmd.GroupID = groupBatch
	renameCmd.GroupID = groupBatch
	moveCmd.GroupID = groupBatch
	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	configCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// bindFlag marks flag name in fs as overriding the config key.
func bindFlag(fs *pflag.FlagSet, name, key string) {
	_ = fs.SetAnnotation(name, configKeyAnnotation, []string{key})
}

// envFrom returns the state stored by the root command's pre-run hook.
func envFrom(cmd *cobra.Command) (*env, error) {
	e, ok := cmd.Context().Value(envKey{}).(*env)
	if !ok {
		return nil, errors.New("command context not initialised")
	}
	return e, nil
}
