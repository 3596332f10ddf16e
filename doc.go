// Package main provides the filekit command-line interface.
//
// filekit catalogues directory trees and runs bulk file jobs that use a
// spreadsheet as the source of truth.
//
// The main binary supports multiple subcommands:
//   - collect: Write metadata.xlsx (path, name, type, size in KB, MD5) for a tree
//   - verify: Re-check a metadata report against the filesystem
//   - organize: Copy documents into entity folders from a mapping workbook
//   - rename: Copy files under new names from a mapping workbook
//   - move: Move renamed files listed in a workbook
//   - count: Count files in directory trees
//   - seed: Generate sample documents and a mapping workbook
//   - config init: Write an example config file
//   - version: Show version and build information
package main
