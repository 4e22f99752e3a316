// Package htmlmeta converts HTML documents into plain text that approximates
// what a browser displays, together with a parallel list of metadata records
// mapping every retained tag onto a character span of that text.
//
// This package contains domain types, configuration and interfaces following
// Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., html/, sqlite/,
// jsonl/, slog/).
package htmlmeta
