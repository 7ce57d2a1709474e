// Package metadata extracts per-file measurement metadata from two
// sources: the structured filenames the lab instruments write, and
// the EXIF/TIFF tag blocks embedded in electroluminescence images.
package metadata

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
)

// Datatype selects the filename convention to parse against.
type Datatype string

const (
	// DatatypeEL names electroluminescence camera images.
	DatatypeEL Datatype = "el"
	// DatatypeIV names Sinton FMT current-voltage measurement files.
	DatatypeIV Datatype = "iv"
)

var (
	elPattern = regexp.MustCompile(`^([A-Za-z0-9-]+)_C(\d+)_P(-?\d+)_T(-?\d+)_EL\.(?i:jpe?g|tiff?)$`)
	ivPattern = regexp.MustCompile(`^IVT([A-Za-z0-9-]+)_C(\d+)_P(-?\d+)_T(-?\d+)\.(?i:mfr)$`)
)

// FileMetadata holds the fields encoded in an instrument filename.
type FileMetadata struct {
	ModuleID    string
	Cycle       int
	Pressure    int
	Temperature int
	Datatype    Datatype
}

// Fields returns the metadata as table-ready column values.
func (m FileMetadata) Fields() map[string]string {
	return map[string]string{
		"module_id":   m.ModuleID,
		"cycle":       strconv.Itoa(m.Cycle),
		"pressure":    strconv.Itoa(m.Pressure),
		"temperature": strconv.Itoa(m.Temperature),
		"datatype":    string(m.Datatype),
	}
}

// ParseFilename extracts metadata from the base name of path using the
// convention for the given datatype. A non-matching name or unknown
// datatype yields a METADATA_FORMAT error.
func ParseFilename(path string, datatype Datatype) (FileMetadata, error) {
	base := filepath.Base(path)

	var pattern *regexp.Regexp
	switch datatype {
	case DatatypeEL:
		pattern = elPattern
	case DatatypeIV:
		pattern = ivPattern
	default:
		return FileMetadata{}, apperrors.NewMetadataFormatError(
			fmt.Sprintf("unknown datatype %q for file %s", datatype, base), nil)
	}

	matches := pattern.FindStringSubmatch(base)
	if matches == nil {
		return FileMetadata{}, apperrors.NewMetadataFormatError(
			fmt.Sprintf("filename %s does not match the %s naming convention", base, datatype), nil)
	}

	cycle, err := strconv.Atoi(matches[2])
	if err != nil {
		return FileMetadata{}, apperrors.NewMetadataFormatError(
			fmt.Sprintf("filename %s has an unparsable cycle", base), err)
	}
	pressure, err := strconv.Atoi(matches[3])
	if err != nil {
		return FileMetadata{}, apperrors.NewMetadataFormatError(
			fmt.Sprintf("filename %s has an unparsable pressure", base), err)
	}
	temperature, err := strconv.Atoi(matches[4])
	if err != nil {
		return FileMetadata{}, apperrors.NewMetadataFormatError(
			fmt.Sprintf("filename %s has an unparsable temperature", base), err)
	}

	return FileMetadata{
		ModuleID:    matches[1],
		Cycle:       cycle,
		Pressure:    pressure,
		Temperature: temperature,
		Datatype:    datatype,
	}, nil
}
