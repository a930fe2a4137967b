package purify

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"sort"
	"testing"
)

var (
	jfifPayload = []byte{'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00}
	exifPayload = []byte{'E', 'x', 'i', 'f', 0x00, 0x00, 'M', 'M', 0x00, 0x2a, 0x00, 0x00, 0x00, 0x08}
	dqtPayload  = []byte{0x00, 0x10, 0x0b, 0x0c, 0x0e, 0x0c, 0x0a, 0x10}
	sosPayload  = []byte{0x01, 0x01, 0x00, 0x00, 0x3f, 0x00}
	scanData    = []byte{0x12, 0x34, 0xff, 0x00, 0x56, 0xff, 0xd0, 0x78}
)

func jpegSegment(marker byte, payload []byte) []byte {
	n := len(payload) + 2
	return append([]byte{0xff, marker, byte(n >> 8), byte(n)}, payload...)
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func pngChunk(typ string, data []byte) []byte {
	b := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(b, uint32(len(data)))
	copy(b[4:], typ)
	b = append(b, data...)
	return binary.BigEndian.AppendUint32(b, crc32.ChecksumIEEE(b[4:]))
}

func ihdrChunk() []byte {
	return pngChunk("IHDR", []byte{
		0x00, 0x00, 0x00, 0x01, // width
		0x00, 0x00, 0x00, 0x01, // height
		0x08, 0x00, 0x00, 0x00, 0x00,
	})
}

func idatChunk() []byte {
	return pngChunk("IDAT", []byte{0x78, 0x9c, 0x63, 0x60, 0x00, 0x00, 0x00, 0x02, 0x00, 0x01})
}

func iendChunk() []byte { return pngChunk("IEND", nil) }

// checkLayout verifies that kept and removed ranges tile a prefix of data
// without gaps or overlap and that Purified is the concatenation of Kept.
func checkLayout(t *testing.T, data []byte, res *Result) {
	t.Helper()
	all := make([]ByteRange, 0, len(res.Kept)+len(res.Removed))
	all = append(all, res.Kept...)
	for _, r := range res.Removed {
		all = append(all, r.ByteRange)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	next := 0
	keptLen := 0
	for _, r := range all {
		if r.Start != next {
			t.Fatalf("range %+v does not start at %d", r, next)
		}
		if r.End < r.Start || r.End > len(data) {
			t.Fatalf("range %+v out of bounds (len %d)", r, len(data))
		}
		next = r.End
	}
	for _, r := range res.Kept {
		keptLen += r.Len()
	}
	if keptLen != len(res.Purified) {
		t.Fatalf("kept length %d != purified length %d", keptLen, len(res.Purified))
	}
	if !bytes.Equal(Assemble(data, res.Kept), res.Purified) {
		t.Fatal("purified bytes differ from assembled kept ranges")
	}
}
