package purify

import "github.com/pkg/errors"

// Error kinds. Every failure returned by Purify wraps exactly one of these;
// test with errors.Is.
var (
	// ErrHeaderMismatch means the extension names a format whose signature
	// the buffer does not carry.
	ErrHeaderMismatch = errors.New("purify: header does not match extension")
	// ErrUnsupportedExtension means the extension is neither JPEG nor PNG.
	ErrUnsupportedExtension = errors.New("purify: unsupported extension")
	// ErrMalformedStructure covers truncated length fields, segments or
	// chunks running past the buffer end, and PNG CRC mismatches.
	ErrMalformedStructure = errors.New("purify: malformed binary structure")
)

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedStructure, format, args...)
}
