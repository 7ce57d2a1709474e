// Command darts-ingest walks lab instrument folders, extracts EL
// camera image and Sinton FMT measurement metadata, and exports the
// aggregate tables as CSV, optionally as an xlsx workbook and into the
// shared SQLite result database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samborg-dev/darts-fair-workflows/internal/config"
	"github.com/samborg-dev/darts-fair-workflows/internal/exporter"
	"github.com/samborg-dev/darts-fair-workflows/internal/infrastructure"
	"github.com/samborg-dev/darts-fair-workflows/internal/ingest"
	"github.com/samborg-dev/darts-fair-workflows/internal/sinton"
	"github.com/samborg-dev/darts-fair-workflows/internal/storage"
	"github.com/samborg-dev/darts-fair-workflows/internal/table"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	folders := flag.String("folders", "", "comma-separated source folders, overrides the config")
	dbPath := flag.String("db", "", "result database path, overrides the config")
	outDir := flag.String("out", "", "output directory for CSV exports, overrides the config")
	workbook := flag.String("workbook", "", "xlsx workbook path, overrides the config")
	grid := flag.Int("grid", 0, "interpolation grid size, overrides the config")
	show := flag.Bool("show", false, "print the formatted tables after the run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *folders != "" {
		cfg.Folders = splitList(*folders)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *workbook != "" {
		cfg.Output.Workbook = *workbook
	}
	if *grid > 0 {
		cfg.Sinton.GridPoints = *grid
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if len(cfg.Folders) == 0 {
		slog.Error("No source folders configured, use -folders or the config file")
		os.Exit(1)
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())
	logger = infrastructure.LoggerWithRunID(ctx, logger)

	logger.InfoContext(ctx, "starting metadata ingestion",
		slog.Any("folders", cfg.Folders),
		slog.Int("grid_points", cfg.Sinton.GridPoints))

	parser := ingest.NewParser(logger, ingest.ParserConfig{
		Folders:      cfg.Folders,
		DatabasePath: cfg.DatabasePath,
		Sinton: sinton.Config{
			GridPoints:         cfg.Sinton.GridPoints,
			ReferenceIntensity: cfg.Sinton.ReferenceIntensity,
			SeriesResistance:   cfg.Sinton.SeriesResistance,
		},
	})

	imageTable, imageFailures, err := parser.ParseImageMetadata(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "image metadata run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sintonTable, sintonFailures, err := parser.ParseSintonFMTMetadata(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "measurement metadata run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Image metadata: %d rows, %d failures\n", imageTable.Len(), len(imageFailures))
	fmt.Printf("Sinton metadata: %d rows, %d failures\n", sintonTable.Len(), len(sintonFailures))
	printFailures("image", imageFailures)
	printFailures("measurement", sintonFailures)

	sintonSummary, err := exporter.Summarized(sintonTable)
	if err != nil {
		logger.ErrorContext(ctx, "failed to summarize measurement arrays", slog.String("error", err.Error()))
		os.Exit(1)
	}

	imageCSV := filepath.Join(cfg.Output.Dir, cfg.Output.ImageCSV)
	if err := exporter.WriteCSV(imageCSV, imageTable); err != nil {
		logger.ErrorContext(ctx, "failed to write image CSV",
			slog.String("path", imageCSV),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	sintonCSV := filepath.Join(cfg.Output.Dir, cfg.Output.SintonCSV)
	if err := exporter.WriteCSV(sintonCSV, sintonSummary); err != nil {
		logger.ErrorContext(ctx, "failed to write measurement CSV",
			slog.String("path", sintonCSV),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Wrote %s and %s\n", imageCSV, sintonCSV)

	if cfg.Output.Workbook != "" {
		path := cfg.Output.Workbook
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Output.Dir, path)
		}
		sheets := map[string]*table.Table{
			"el_image_data": imageTable,
			"sinton_data":   sintonSummary,
		}
		if err := exporter.WriteWorkbook(path, sheets); err != nil {
			logger.ErrorContext(ctx, "failed to write workbook",
				slog.String("path", path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	if cfg.DatabasePath != "" {
		db, err := storage.Open(parser.DatabasePath(), logger)
		if err != nil {
			logger.ErrorContext(ctx, "failed to open result database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		saveErr := db.SaveTable(ctx, "el_image_data", imageTable)
		if saveErr == nil {
			saveErr = db.SaveTable(ctx, "sinton_data", sintonTable)
		}
		if err := db.Close(); saveErr == nil {
			saveErr = err
		}
		if saveErr != nil {
			logger.ErrorContext(ctx, "failed to store tables", slog.String("error", saveErr.Error()))
			os.Exit(1)
		}
		fmt.Printf("Stored tables in %s\n", cfg.DatabasePath)
	}

	if *show {
		opts := exporter.DefaultFormatOptions()
		fmt.Println("\nel_image_data")
		if err := exporter.RenderText(os.Stdout, exporter.FormatTable(imageTable, opts), opts); err != nil {
			logger.ErrorContext(ctx, "failed to render image table", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println("\nsinton_data")
		if err := exporter.RenderText(os.Stdout, exporter.FormatTable(sintonSummary, opts), opts); err != nil {
			logger.ErrorContext(ctx, "failed to render measurement table", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "metadata ingestion finished",
		slog.Int("image_rows", imageTable.Len()),
		slog.Int("sinton_rows", sintonTable.Len()),
		slog.Int("failures", len(imageFailures)+len(sintonFailures)))
}

// printFailures enumerates the files a pass skipped so a bench
// operator can fix and re-run them.
func printFailures(kind string, failures []ingest.Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Printf("%d %s files skipped:\n", len(failures), kind)
	for _, f := range failures {
		fmt.Printf("  %s: %v\n", f.Path, f.Err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
