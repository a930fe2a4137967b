// Package purify removes metadata segments from JPEG and PNG images without
// re-encoding them.
//
// JPEG APPn and COM segments and PNG tEXt, zTXt and iTXt chunks are stripped;
// every other byte is copied verbatim. The format is chosen by file extension
// and the file's signature must agree with it.
package purify

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/jdeng/gopurify/internal/purify"
)

// MaxFileSize is the largest input hosts are expected to hand to Purify.
// Purify itself does not enforce it.
const MaxFileSize = 100 * 1024 * 1024

var (
	// ErrEmptyInput is returned when Options.Data is empty.
	ErrEmptyInput = errors.New("purify: empty source data")
	// ErrHeaderMismatch means the signature does not match the extension.
	ErrHeaderMismatch = purify.ErrHeaderMismatch
	// ErrUnsupportedExtension means the extension is neither JPEG nor PNG.
	ErrUnsupportedExtension = purify.ErrUnsupportedExtension
	// ErrMalformedStructure means the walk hit a truncated or corrupt segment.
	ErrMalformedStructure = purify.ErrMalformedStructure
)

// Options configures a single Purify call.
type Options struct {
	// Filename decides the format by its extension.
	Filename string
	// Data is the complete image. It is never modified.
	Data []byte
	// OnProgress, if set, is called synchronously with non-decreasing
	// fractions in [0,1]. It must not block.
	OnProgress func(fraction float64)
}

// Purify strips metadata from opts.Data.
func Purify(opts Options) (*Result, error) {
	if len(opts.Data) == 0 {
		return nil, ErrEmptyInput
	}

	var progress purify.ProgressFunc
	if opts.OnProgress != nil {
		progress = purify.ProgressFunc(opts.OnProgress)
	}

	res, err := purify.Purify(opts.Filename, opts.Data, progress)
	if err != nil {
		return nil, err
	}
	return &Result{res: res}, nil
}

// Format identifies an image container format.
type Format int

const (
	// FormatUnknown is the zero value; a successful Result never carries it.
	FormatUnknown Format = iota
	// FormatJPEG is a JPEG/JFIF/Exif file.
	FormatJPEG
	// FormatPNG is a PNG file.
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatUnknown:
		return "unknown"
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MIMEType returns the media type for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the canonical file extension, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatPNG:
		return "png"
	default:
		return "bin"
	}
}

func formatOf(f purify.Format) Format {
	switch f {
	case purify.FormatJPEG:
		return FormatJPEG
	case purify.FormatPNG:
		return FormatPNG
	default:
		return FormatUnknown
	}
}

// Range is a half-open byte interval [Start, End) of the original input.
// Label is set for removed ranges only.
type Range struct {
	Start int
	End   int
	Label string
}

// Len returns the number of bytes in the range.
func (r Range) Len() int { return r.End - r.Start }

func (r Range) String() string {
	if r.Label == "" {
		return fmt.Sprintf("[%d-%d)", r.Start, r.End)
	}
	return fmt.Sprintf("%s @ [%d-%d)", r.Label, r.Start, r.End)
}

// Result is the outcome of a successful Purify call.
type Result struct {
	res *purify.Result
}

// Format returns the detected format.
func (r *Result) Format() Format {
	if r == nil || r.res == nil {
		return FormatUnknown
	}
	return formatOf(r.res.Format)
}

// BeforeEntropy returns the Shannon entropy of the input in bits per byte.
func (r *Result) BeforeEntropy() float64 {
	if r == nil || r.res == nil {
		return 0
	}
	return r.res.BeforeEntropy
}

// AfterEntropy returns the Shannon entropy of the purified output.
func (r *Result) AfterEntropy() float64 {
	if r == nil || r.res == nil {
		return 0
	}
	return r.res.AfterEntropy
}

// Removed returns the stripped ranges in ascending order.
func (r *Result) Removed() []Range {
	if r == nil || r.res == nil {
		return nil
	}
	out := make([]Range, len(r.res.Removed))
	for i, rr := range r.res.Removed {
		out[i] = Range{Start: rr.Start, End: rr.End, Label: rr.Label}
	}
	return out
}

// Kept returns the ranges of the input that make up the purified output.
func (r *Result) Kept() []Range {
	if r == nil || r.res == nil {
		return nil
	}
	out := make([]Range, len(r.res.Kept))
	for i, kr := range r.res.Kept {
		out[i] = Range{Start: kr.Start, End: kr.End}
	}
	return out
}

// RemovedBytes returns the total size of the removed ranges.
func (r *Result) RemovedBytes() int {
	if r == nil || r.res == nil {
		return 0
	}
	n := 0
	for _, rr := range r.res.Removed {
		n += rr.Len()
	}
	return n
}

// Purified returns the purified image. The slice is owned by the Result.
func (r *Result) Purified() []byte {
	if r == nil || r.res == nil {
		return nil
	}
	return r.res.Purified
}
