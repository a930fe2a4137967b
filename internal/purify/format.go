package purify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies the container format of an input buffer.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// extension returns the lower-cased text after the last '.' in name, or ""
// when name has no dot.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func hasJPEGSignature(data []byte) bool {
	return bytes.HasPrefix(data, jpegSignature)
}

func hasPNGSignature(data []byte) bool {
	return bytes.HasPrefix(data, pngSignature)
}

// DetectFormat resolves the format from the file extension. The signature is
// only checked against the extension's format: a PNG named .jpg is rejected
// with ErrHeaderMismatch, never reclassified.
func DetectFormat(filename string, data []byte) (Format, error) {
	ext := extension(filename)
	switch ext {
	case "jpg", "jpeg":
		if !hasJPEGSignature(data) {
			return FormatUnknown, errors.Wrapf(ErrHeaderMismatch, "%q is not a JPEG", filename)
		}
		return FormatJPEG, nil
	case "png":
		if !hasPNGSignature(data) {
			return FormatUnknown, errors.Wrapf(ErrHeaderMismatch, "%q is not a PNG", filename)
		}
		return FormatPNG, nil
	default:
		return FormatUnknown, errors.Wrapf(ErrUnsupportedExtension, "extension %q", ext)
	}
}
