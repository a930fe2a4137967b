package main

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
)

// jpegSegment builds a marker segment whose length field covers itself and
// the payload.
func jpegSegment(marker byte, payload []byte) []byte {
	n := len(payload) + 2
	return append([]byte{0xFF, marker, byte(n >> 8), byte(n)}, payload...)
}

// pngChunk builds a chunk with a valid CRC over type and data.
func pngChunk(typ string, data []byte) []byte {
	b := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(b, uint32(len(data)))
	copy(b[4:], typ)
	b = append(b, data...)
	return binary.BigEndian.AppendUint32(b, crc32.ChecksumIEEE(b[4:]))
}

// sampleJPEG returns a small baseline JPEG layout carrying JFIF, Exif and
// comment metadata. The scan data is placeholder bytes, not a decodable image.
func sampleJPEG() []byte {
	var out []byte
	out = append(out, 0xFF, 0xD8) // SOI

	out = append(out, jpegSegment(0xE0, []byte{
		'J', 'F', 'I', 'F', 0x00, // identifier
		0x01, 0x01, // version 1.1
		0x00,       // density units
		0x00, 0x01, // X density
		0x00, 0x01, // Y density
		0x00, 0x00, // no thumbnail
	})...)

	out = append(out, jpegSegment(0xE1, []byte{
		'E', 'x', 'i', 'f', 0x00, 0x00,
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08, // TIFF header
		0x00, 0x00, // zero IFD entries
	})...)

	out = append(out, jpegSegment(0xFE, []byte("created by create-test-images"))...)

	// DQT: one 8-bit table, all ones.
	dqt := make([]byte, 65)
	for i := 1; i < len(dqt); i++ {
		dqt[i] = 1
	}
	out = append(out, jpegSegment(0xDB, dqt)...)

	// SOF0: 8-bit, 8x8, one component.
	out = append(out, jpegSegment(0xC0, []byte{0x08, 0x00, 0x08, 0x00, 0x08, 0x01, 0x01, 0x11, 0x00})...)

	// SOS for one component, followed by scan data.
	out = append(out, jpegSegment(0xDA, []byte{0x01, 0x01, 0x00, 0x00, 0x3F, 0x00})...)
	out = append(out, 0xF8, 0x00, 0xFF, 0x00, 0x3F)

	out = append(out, 0xFF, 0xD9) // EOI
	return out
}

// samplePNG returns a 1x1 grayscale PNG with tEXt and iTXt metadata.
func samplePNG() []byte {
	var out []byte
	out = append(out, 0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A)

	out = append(out, pngChunk("IHDR", []byte{
		0x00, 0x00, 0x00, 0x01, // width
		0x00, 0x00, 0x00, 0x01, // height
		0x08, // bit depth
		0x00, // color type: grayscale
		0x00, // compression
		0x00, // filter
		0x00, // interlace
	})...)

	out = append(out, pngChunk("tEXt", []byte("Software\x00create-test-images"))...)
	out = append(out, pngChunk("iTXt", []byte("Comment\x00\x00\x00\x00\x00sample"))...)

	// zlib stream of a single scanline: filter 0, pixel 0x00.
	out = append(out, pngChunk("IDAT", []byte{0x78, 0x9C, 0x63, 0x60, 0x00, 0x00, 0x00, 0x02, 0x00, 0x01})...)
	out = append(out, pngChunk("IEND", nil)...)
	return out
}

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: create-test-images <output-dir>")
		os.Exit(1)
	}

	dir := os.Args[1]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Printf("Error creating %s: %v\n", dir, err)
		os.Exit(1)
	}

	files := map[string][]byte{
		"sample.jpg": sampleJPEG(),
		"sample.png": samplePNG(),
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Created test image: %s\n", path)
	}
}
