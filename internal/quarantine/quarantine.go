// Package quarantine keeps the metadata segments stripped from an image so
// they can be audited later. Records are written as a CBOR sequence inside a
// zstd or lz4 stream.
package quarantine

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/jdeng/gopurify/pkg/purify"
)

// Compression names the stream codec.
type Compression string

const (
	Zstd Compression = "zstd"
	LZ4  Compression = "lz4"
)

// Extension returns the quarantine file suffix for c.
func (c Compression) Extension() string {
	switch c {
	case LZ4:
		return ".meta.lz4"
	default:
		return ".meta.zst"
	}
}

// Record is one stripped segment with its original bytes.
type Record struct {
	Label string `cbor:"1,keyasint"`
	Start int    `cbor:"2,keyasint"`
	End   int    `cbor:"3,keyasint"`
	Data  []byte `cbor:"4,keyasint"`
}

// Write stores the removed ranges of original to w.
func Write(w io.Writer, c Compression, original []byte, removed []purify.Range) error {
	zw, err := newWriter(w, c)
	if err != nil {
		return err
	}

	enc := cbor.NewEncoder(zw)
	for _, r := range removed {
		if r.Start < 0 || r.End > len(original) || r.Start > r.End {
			zw.Close()
			return errors.Errorf("quarantine: range %v outside %d-byte input", r, len(original))
		}
		rec := Record{Label: r.Label, Start: r.Start, End: r.End, Data: original[r.Start:r.End]}
		if err := enc.Encode(rec); err != nil {
			zw.Close()
			return errors.Wrapf(err, "quarantine: encoding %s", r)
		}
	}
	return errors.Wrap(zw.Close(), "quarantine: closing stream")
}

// Read decodes every record from r.
func Read(r io.Reader, c Compression) ([]Record, error) {
	zr, closer, err := newReader(r, c)
	if err != nil {
		return nil, err
	}
	defer closer()

	var records []Record
	dec := cbor.NewDecoder(zr)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return records, nil
			}
			return nil, errors.Wrap(err, "quarantine: decoding record")
		}
		records = append(records, rec)
	}
}

func newWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case Zstd:
		zw, err := zstd.NewWriter(w, zstd.WithZeroFrames(true))
		if err != nil {
			return nil, errors.Wrap(err, "quarantine: creating zstd writer")
		}
		return zw, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, errors.Errorf("quarantine: unknown compression %q", c)
	}
}

func newReader(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, errors.Wrap(err, "quarantine: creating zstd reader")
		}
		return zr, zr.Close, nil
	case LZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return nil, nil, errors.Errorf("quarantine: unknown compression %q", c)
	}
}
