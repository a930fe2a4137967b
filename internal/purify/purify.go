// Package purify strips metadata segments from JPEG and PNG buffers without
// re-encoding them. The rest of the file is copied byte for byte.
//
// Purify is synchronous, performs no I/O and keeps no state between calls,
// so it is safe to call from any number of goroutines.
package purify

// ProgressFunc receives the walk position as a fraction in [0,1]. Values are
// non-decreasing within a call; 1.0 is not guaranteed to be reported.
type ProgressFunc func(fraction float64)

// Result is the outcome of a successful Purify call.
type Result struct {
	Format        Format
	BeforeEntropy float64
	AfterEntropy  float64
	// Removed lists the stripped ranges in ascending order.
	Removed []RemovedRange
	// Kept lists the ranges that make up Purified, in ascending order.
	Kept     []ByteRange
	Purified []byte
}

// Purify detects the format of data from filename, walks its structure and
// returns a copy with metadata segments removed. Any error aborts the call;
// no partial result is returned.
func Purify(filename string, data []byte, progress ProgressFunc) (*Result, error) {
	format, err := DetectFormat(filename, data)
	if err != nil {
		return nil, err
	}

	before := Entropy(data)

	var l *layout
	switch format {
	case FormatJPEG:
		l, err = walkJPEG(data, progress)
	case FormatPNG:
		l, err = walkPNG(data, progress)
	}
	if err != nil {
		return nil, err
	}

	purified := Assemble(data, l.kept)
	return &Result{
		Format:        format,
		BeforeEntropy: before,
		AfterEntropy:  Entropy(purified),
		Removed:       l.removed,
		Kept:          l.kept,
		Purified:      purified,
	}, nil
}

func report(progress ProgressFunc, fraction float64) {
	if progress != nil {
		progress(fraction)
	}
}
