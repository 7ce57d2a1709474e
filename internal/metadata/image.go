package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ExtractImageTags reads the metadata tags embedded in an image file.
// JPEG images yield their EXIF fields, TIFF images the tag dictionary
// of the first IFD. Extensions that are neither yield an empty map and
// no error so mixed folders can be scanned without special-casing.
func ExtractImageTags(path string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return extractEXIFTags(path)
	case ".tif", ".tiff":
		return extractTIFFTags(path)
	default:
		return map[string]string{}, nil
	}
}

// tagCollector accumulates EXIF fields during an exif.Walk.
type tagCollector struct {
	tags map[string]string
}

func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.tags[string(name)] = printableTagValue(tag)
	return nil
}

func extractEXIFTags(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF data from %s: %w", filepath.Base(path), err)
	}

	collector := &tagCollector{tags: make(map[string]string)}
	if err := x.Walk(collector); err != nil {
		return nil, fmt.Errorf("failed to walk EXIF fields of %s: %w", filepath.Base(path), err)
	}
	return collector.tags, nil
}

func extractTIFFTags(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	t, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TIFF data from %s: %w", filepath.Base(path), err)
	}

	tags := make(map[string]string)
	if len(t.Dirs) == 0 {
		return tags, nil
	}
	for _, tag := range t.Dirs[0].Tags {
		tags[tiffTagName(tag.Id)] = printableTagValue(tag)
	}
	return tags, nil
}

// printableTagValue renders a tag in display form. ASCII values come
// back verbatim and single numeric values as plain numbers; arrays and
// undefined payloads fall through to the tag's string form with the
// JSON quoting stripped.
func printableTagValue(t *tiff.Tag) string {
	switch t.Format() {
	case tiff.StringVal:
		if s, err := t.StringVal(); err == nil {
			return strings.TrimSpace(s)
		}
	case tiff.IntVal:
		if t.Count == 1 {
			if v, err := t.Int64(0); err == nil {
				return strconv.FormatInt(v, 10)
			}
		}
	case tiff.RatVal:
		if t.Count == 1 {
			if num, den, err := t.Rat2(0); err == nil {
				return fmt.Sprintf("%d/%d", num, den)
			}
		}
	case tiff.FloatVal:
		if t.Count == 1 {
			if v, err := t.Float(0); err == nil {
				return strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
	}
	return strings.Trim(t.String(), `"`)
}
