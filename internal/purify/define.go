package purify

// JPEG marker codes. Every marker is preceded by a 0xFF byte.
const (
	markerPrefix byte = 0xFF

	markerTEM  byte = 0x01
	markerRST0 byte = 0xD0
	markerRST7 byte = 0xD7
	markerSOI  byte = 0xD8
	markerEOI  byte = 0xD9
	markerSOS  byte = 0xDA
	markerAPP0 byte = 0xE0
	markerAPPF byte = 0xEF
	markerCOM  byte = 0xFE
)

const (
	// jpegSegmentHeaderSize is the marker pair plus the 16-bit length field.
	jpegSegmentHeaderSize = 4
	// pngChunkOverhead is length(4) + type(4) + CRC(4).
	pngChunkOverhead = 12
)

// PNG chunk type tags this package cares about.
const (
	chunkIEND = "IEND"
	chunkTEXT = "tEXt"
	chunkZTXT = "zTXt"
	chunkITXT = "iTXt"
)

var (
	jpegSignature = []byte{markerPrefix, markerSOI, markerPrefix}
	jpegEOI       = []byte{markerPrefix, markerEOI}
	pngSignature  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
)
