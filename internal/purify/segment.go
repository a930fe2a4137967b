package purify

import "fmt"

// Marker is the second byte of a JPEG marker pair (the byte after 0xFF).
type Marker byte

// IsStandalone reports whether the marker carries no length field (TEM, RSTn).
func (m Marker) IsStandalone() bool {
	b := byte(m)
	return b == markerTEM || (b >= markerRST0 && b <= markerRST7)
}

// IsAPP reports whether the marker is one of APP0..APP15.
func (m Marker) IsAPP() bool {
	return byte(m) >= markerAPP0 && byte(m) <= markerAPPF
}

// IsMetadata reports whether segments with this marker are stripped.
func (m Marker) IsMetadata() bool {
	return m.IsAPP() || byte(m) == markerCOM
}

// Label names the marker the way removed ranges are tagged.
func (m Marker) Label() string {
	switch {
	case m.IsAPP():
		return fmt.Sprintf("APP%d", byte(m)-markerAPP0)
	case byte(m) == markerCOM:
		return "COM"
	case byte(m) == markerSOS:
		return "SOS"
	case byte(m) == markerEOI:
		return "EOI"
	case byte(m) == markerTEM:
		return "TEM"
	case byte(m) >= markerRST0 && byte(m) <= markerRST7:
		return fmt.Sprintf("RST%d", byte(m)-markerRST0)
	default:
		return fmt.Sprintf("0x%02X", byte(m))
	}
}

// ChunkType is the 4-byte ASCII tag of a PNG chunk.
type ChunkType [4]byte

func (t ChunkType) String() string { return string(t[:]) }

// IsText reports whether the chunk is one of the textual metadata chunks.
func (t ChunkType) IsText() bool {
	switch t.String() {
	case chunkTEXT, chunkZTXT, chunkITXT:
		return true
	}
	return false
}

// IsEnd reports whether the chunk terminates the PNG datastream.
func (t ChunkType) IsEnd() bool { return t.String() == chunkIEND }
