// Package batch implements the spreadsheet-driven file jobs.
//
// Each job reads a mapping table (see package sheet) and performs one
// filesystem operation per row or per directory entry:
//   - Organize: copy documents into <dest>/<entity type>/<entity number>/
//   - Rename: copy files to a new directory under new names
//   - Move: move renamed files from a staging directory to a target
//   - Seed: generate sample documents and a mapping workbook
//
// Failures on a single row are recorded and never abort the job. Only an
// invalid job definition or an unreadable mapping table is fatal.
package batch
