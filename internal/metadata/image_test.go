package metadata

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tiffEntry describes one IFD entry for the fixture builder. Values
// longer than four bytes are relocated to a data area after the IFD.
type tiffEntry struct {
	id    uint16
	typ   uint16
	count uint32
	value []byte
}

func shortEntry(id, v uint16) tiffEntry {
	return tiffEntry{id: id, typ: 3, count: 1, value: binary.LittleEndian.AppendUint16(nil, v)}
}

func asciiEntry(id uint16, s string) tiffEntry {
	return tiffEntry{id: id, typ: 2, count: uint32(len(s) + 1), value: append([]byte(s), 0)}
}

// buildTIFF assembles a minimal little-endian TIFF with a single IFD.
func buildTIFF(entries []tiffEntry) []byte {
	le := binary.LittleEndian

	b := []byte("II")
	b = le.AppendUint16(b, 42)
	b = le.AppendUint32(b, 8)

	dataStart := uint32(8 + 2 + len(entries)*12 + 4)
	var data []byte

	b = le.AppendUint16(b, uint16(len(entries)))
	for _, e := range entries {
		b = le.AppendUint16(b, e.id)
		b = le.AppendUint16(b, e.typ)
		b = le.AppendUint32(b, e.count)
		if len(e.value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.value)
			b = append(b, inline...)
		} else {
			b = le.AppendUint32(b, dataStart+uint32(len(data)))
			data = append(data, e.value...)
		}
	}
	b = le.AppendUint32(b, 0)
	return append(b, data...)
}

// wrapJPEG embeds a TIFF payload in a JPEG APP1 EXIF segment.
func wrapJPEG(tiffPayload []byte) []byte {
	intro := append([]byte("Exif"), 0, 0)
	segLen := uint16(2 + len(intro) + len(tiffPayload))

	b := []byte{0xFF, 0xD8, 0xFF, 0xE1}
	b = binary.BigEndian.AppendUint16(b, segLen)
	b = append(b, intro...)
	b = append(b, tiffPayload...)
	return append(b, 0xFF, 0xD9)
}

func writeImage(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestExtractImageTagsTIFF(t *testing.T) {
	payload := buildTIFF([]tiffEntry{
		shortEntry(256, 640),
		shortEntry(257, 480),
		asciiEntry(271, "EL-CCD Systems"),
		asciiEntry(306, "2024:03:15 10:30:00"),
		shortEntry(60000, 7),
	})
	path := writeImage(t, "PSEL2024-108_C250_P840_T85_EL.tif", payload)

	tags, err := ExtractImageTags(path)
	require.NoError(t, err)

	assert.Equal(t, "640", tags["ImageWidth"])
	assert.Equal(t, "480", tags["ImageLength"])
	assert.Equal(t, "EL-CCD Systems", tags["Make"])
	assert.Equal(t, "2024:03:15 10:30:00", tags["DateTime"])
	assert.Equal(t, "7", tags["Tag60000"])
}

func TestExtractImageTagsJPEG(t *testing.T) {
	payload := buildTIFF([]tiffEntry{
		shortEntry(256, 1024),
		asciiEntry(271, "EL-CCD Systems"),
		asciiEntry(272, "FMT-EL 450"),
		asciiEntry(306, "2024:03:15 10:30:00"),
	})
	path := writeImage(t, "PSEL2024-108_C250_P840_T85_EL.jpg", wrapJPEG(payload))

	tags, err := ExtractImageTags(path)
	require.NoError(t, err)

	assert.Equal(t, "1024", tags["ImageWidth"])
	assert.Equal(t, "EL-CCD Systems", tags["Make"])
	assert.Equal(t, "FMT-EL 450", tags["Model"])
	assert.Equal(t, "2024:03:15 10:30:00", tags["DateTime"])
}

func TestExtractImageTagsUnsupportedExtension(t *testing.T) {
	path := writeImage(t, "readme.png", []byte("not an image"))

	tags, err := ExtractImageTags(path)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestExtractImageTagsMissingEXIF(t *testing.T) {
	// A bare SOI/EOI pair has no APP1 segment to decode.
	path := writeImage(t, "empty.jpg", []byte{0xFF, 0xD8, 0xFF, 0xD9})

	_, err := ExtractImageTags(path)
	assert.Error(t, err)
}

func TestExtractImageTagsCorruptTIFF(t *testing.T) {
	path := writeImage(t, "broken.tif", []byte("definitely not a TIFF"))

	_, err := ExtractImageTags(path)
	assert.Error(t, err)
}

func TestExtractImageTagsMissingFile(t *testing.T) {
	_, err := ExtractImageTags(filepath.Join(t.TempDir(), "gone.jpg"))
	assert.Error(t, err)
}

func TestTIFFTagNameFallback(t *testing.T) {
	assert.Equal(t, "ImageWidth", tiffTagName(256))
	assert.Equal(t, "Tag60000", tiffTagName(60000))
}
