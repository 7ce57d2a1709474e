package metadata

import "fmt"

// tiffTagNames maps baseline TIFF tag IDs (plus the common extension
// tags lab imaging software writes) to their standard names.
var tiffTagNames = map[uint16]string{
	254:   "NewSubfileType",
	255:   "SubfileType",
	256:   "ImageWidth",
	257:   "ImageLength",
	258:   "BitsPerSample",
	259:   "Compression",
	262:   "PhotometricInterpretation",
	263:   "Threshholding",
	264:   "CellWidth",
	265:   "CellLength",
	266:   "FillOrder",
	269:   "DocumentName",
	270:   "ImageDescription",
	271:   "Make",
	272:   "Model",
	273:   "StripOffsets",
	274:   "Orientation",
	277:   "SamplesPerPixel",
	278:   "RowsPerStrip",
	279:   "StripByteCounts",
	280:   "MinSampleValue",
	281:   "MaxSampleValue",
	282:   "XResolution",
	283:   "YResolution",
	284:   "PlanarConfiguration",
	288:   "FreeOffsets",
	289:   "FreeByteCounts",
	290:   "GrayResponseUnit",
	291:   "GrayResponseCurve",
	296:   "ResolutionUnit",
	301:   "TransferFunction",
	305:   "Software",
	306:   "DateTime",
	315:   "Artist",
	316:   "HostComputer",
	317:   "Predictor",
	320:   "ColorMap",
	322:   "TileWidth",
	323:   "TileLength",
	324:   "TileOffsets",
	325:   "TileByteCounts",
	338:   "ExtraSamples",
	339:   "SampleFormat",
	33432: "Copyright",
	34665: "ExifIFDPointer",
	34853: "GPSInfoIFDPointer",
}

// tiffTagName resolves a numeric tag ID to its standard name, or a
// Tag<id> placeholder for IDs outside the known set.
func tiffTagName(id uint16) string {
	if name, ok := tiffTagNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Tag%d", id)
}
