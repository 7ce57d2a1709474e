package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/samborg-dev/darts-fair-workflows/internal/files"
	"github.com/samborg-dev/darts-fair-workflows/internal/metadata"
	"github.com/samborg-dev/darts-fair-workflows/internal/sinton"
	"github.com/samborg-dev/darts-fair-workflows/internal/table"
)

// progressInterval is the file count between progress log lines.
const progressInterval = 10

// cameraName identifies the electroluminescence camera on every image
// row.
const cameraName = "EL_CCD"

// Failure records one file whose processing failed.
type Failure struct {
	Path string
	Err  error
}

// ParserConfig carries the run parameters.
type ParserConfig struct {
	// Folders are the roots scanned for instrument files.
	Folders []string
	// DatabasePath locates the result database. The parser never
	// touches it; it is carried for the storage collaborator.
	DatabasePath string
	// Sinton holds the measurement-processing parameters.
	Sinton sinton.Config
}

// Parser runs metadata ingestion over the configured folders.
type Parser struct {
	config    ParserConfig
	logger    *slog.Logger
	discovery *files.Discovery
}

// NewParser creates a parser. A nil logger falls back to
// slog.Default().
func NewParser(logger *slog.Logger, cfg ParserConfig) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		config:    cfg,
		logger:    logger,
		discovery: files.NewDiscovery(cfg.Folders, logger),
	}
}

// DatabasePath returns the configured result database location.
func (p *Parser) DatabasePath() string { return p.config.DatabasePath }

// ParseImageMetadata walks the folders for EL camera images and builds
// one row per image from its filename metadata and embedded tags. Per
// file failures are collected and skipped; the returned error is
// reserved for folders that cannot be walked at all.
func (p *Parser) ParseImageMetadata(ctx context.Context) (*table.Table, []Failure, error) {
	infos, err := p.discovery.FindByExtension(ctx, ".jpg", ".jpeg", ".tif", ".tiff")
	if err != nil {
		return nil, nil, err
	}
	p.logger.InfoContext(ctx, "processing image files", slog.Int("count", len(infos)))

	t := table.New()
	var failures []Failure
	for i, info := range infos {
		row, err := p.imageRow(info)
		if err != nil {
			p.logger.WarnContext(ctx, "skipping image file",
				slog.String("path", info.Path),
				slog.String("error", err.Error()))
			failures = append(failures, Failure{Path: info.Path, Err: err})
		} else {
			t.Append(row)
		}
		if (i+1)%progressInterval == 0 {
			p.logger.InfoContext(ctx, "image metadata progress",
				slog.Int("processed", i+1),
				slog.Int("total", len(infos)))
		}
	}

	if dropped := t.DropIncompleteColumns(); len(dropped) > 0 {
		p.logger.InfoContext(ctx, "dropped incomplete image columns",
			slog.Any("columns", dropped))
	}
	t.AddConstant("camera", cameraName)

	p.logger.InfoContext(ctx, "image metadata run finished",
		slog.Int("rows", t.Len()),
		slog.Int("failures", len(failures)))
	return t, failures, nil
}

func (p *Parser) imageRow(info files.FileInfo) (table.Row, error) {
	meta, err := metadata.ParseFilename(info.Path, metadata.DatatypeEL)
	if err != nil {
		return nil, err
	}
	tags, err := metadata.ExtractImageTags(info.Path)
	if err != nil {
		return nil, err
	}

	row := make(table.Row, len(tags)+6)
	for k, v := range tags {
		row[k] = table.TextCell(v)
	}
	for k, v := range meta.Fields() {
		row[k] = table.TextCell(v)
	}
	row["filename"] = table.TextCell(info.Name)
	return row, nil
}

// ParseSintonFMTMetadata walks the folders for .mfr measurement files
// and builds one row per file: parsed header fields, filename
// metadata, the packed measurement buffers, and the file references
// including the companion summary export when one exists. The
// continue-on-error policy matches ParseImageMetadata.
func (p *Parser) ParseSintonFMTMetadata(ctx context.Context) (*table.Table, []Failure, error) {
	mfrs, err := p.discovery.FindByExtension(ctx, ".mfr")
	if err != nil {
		return nil, nil, err
	}
	txts, err := p.discovery.FindByExtension(ctx, ".txt")
	if err != nil {
		return nil, nil, err
	}
	txtStems := make(map[string]bool, len(txts))
	for _, stem := range files.Stems(txts) {
		txtStems[stem] = true
	}

	p.logger.InfoContext(ctx, "processing measurement files",
		slog.Int("count", len(mfrs)),
		slog.Int("txt_candidates", len(txts)))

	t := table.New()
	var failures []Failure
	for i, info := range mfrs {
		row, err := p.measurementRow(info, txtStems)
		if err != nil {
			p.logger.WarnContext(ctx, "skipping measurement file",
				slog.String("path", info.Path),
				slog.String("error", err.Error()))
			failures = append(failures, Failure{Path: info.Path, Err: err})
		} else {
			t.Append(row)
		}
		if (i+1)%progressInterval == 0 {
			p.logger.InfoContext(ctx, "measurement metadata progress",
				slog.Int("processed", i+1),
				slog.Int("total", len(mfrs)))
		}
	}

	t.BlankTextAsMissing()
	if dropped := t.DropIncompleteColumns(); len(dropped) > 0 {
		p.logger.InfoContext(ctx, "dropped incomplete measurement columns",
			slog.Any("columns", dropped))
	}

	p.logger.InfoContext(ctx, "measurement metadata run finished",
		slog.Int("rows", t.Len()),
		slog.Int("failures", len(failures)))
	return t, failures, nil
}

func (p *Parser) measurementRow(info files.FileInfo, txtStems map[string]bool) (table.Row, error) {
	meta, err := metadata.ParseFilename(info.Path, metadata.DatatypeIV)
	if err != nil {
		return nil, err
	}
	raw, err := sinton.ImportRawData(info.Path)
	if err != nil {
		return nil, err
	}
	corrected, err := sinton.CorrectRawData(raw, p.config.Sinton)
	if err != nil {
		return nil, err
	}
	interpolated, err := sinton.InterpolateLoadData(corrected, p.config.Sinton)
	if err != nil {
		return nil, err
	}

	row := make(table.Row)
	for k, v := range sinton.ParseHeader(raw.Header) {
		row[k] = table.TextCell(v)
	}
	for k, v := range meta.Fields() {
		row[k] = table.TextCell(v)
	}
	for _, col := range sinton.ArrayColumns {
		row[col] = table.BlobCell(interpolated.Buffers[col])
	}
	row["filepath"] = table.TextCell(info.Path)
	row["filename"] = table.TextCell(info.Name)
	row["txt_file"] = table.TextCell(companionTxt(info.Name, txtStems))
	return row, nil
}

// companionTxt names the summary export the measurement software
// writes alongside a raw file: the measurement stem without its IVT
// prefix. "N/A" when no such export was discovered.
func companionTxt(name string, txtStems map[string]bool) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.TrimPrefix(stem, "IVT")
	if txtStems[stem] {
		return stem + ".txt"
	}
	return "N/A"
}
