// Package catalog builds file inventories for a directory tree.
//
// The central operation is Collect, which walks a directory recursively and
// produces one FileRecord per file it encounters: absolute path, name,
// extension, size in kilobytes and an MD5 content fingerprint. The
// fingerprint identifies content for deduplication and migration audits. It
// is not a security primitive.
//
// Per-file failures never abort a collection. A file that cannot be sized or
// read still yields a record, with the affected fields left absent (nil).
// Only an invalid root, a cancelled context, or a failure writing the final
// report is fatal.
//
// Inventories can be written as xlsx, csv or json reports (WriteReport),
// loaded back (LoadReport) and re-checked against the filesystem (Verify).
package catalog
