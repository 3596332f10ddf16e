// Package cmd provides the command-line interface implementation for filekit.
//
// This package contains all the subcommand implementations for the filekit CLI tool.
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator, config loading and logger setup
//   - collect: Metadata report for a directory tree
//   - verify: Re-check a metadata report against the filesystem
//   - organize, rename, move: Spreadsheet-driven batch jobs
//   - count, seed, config: Utilities
//
// Each command is implemented as a separate file with its own constructor function
// that returns a *cobra.Command. The root command's pre-run hook merges defaults,
// the config file, FILEKIT_* environment variables and flags, and stores the
// result in the command context for the subcommands.
package cmd
