// Package ingest orchestrates a metadata run: discover instrument
// files under the configured folders, process each one through the
// metadata and sinton pipelines, and aggregate the results into one
// table per datatype. Files are handled independently; a failing file
// is recorded and skipped, never aborting the run.
package ingest
