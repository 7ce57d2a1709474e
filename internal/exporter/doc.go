// Package exporter turns aggregate tables into their output forms:
// CSV files, xlsx workbooks, terminal-friendly text, and the
// summarized/formatted display variants those sinks expect.
package exporter
