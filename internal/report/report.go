// Package report describes the outcome of purifying one file in a form that
// can be written next to the purified artifact.
package report

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"

	"github.com/jdeng/gopurify/pkg/purify"
)

// Kind selects a report encoding.
type Kind string

const (
	KindJSON Kind = "json"
	KindCBOR Kind = "cbor"
)

// Extension returns the sidecar file suffix for the kind.
func (k Kind) Extension() string { return ".report." + string(k) }

// encMode uses Core Deterministic Encoding so a report always encodes to
// the same bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("report: CBOR encoder initialization failed: " + err.Error())
	}
}

// Entry is one removed segment or chunk.
type Entry struct {
	Start int    `json:"start" cbor:"start"`
	End   int    `json:"end" cbor:"end"`
	Label string `json:"label" cbor:"label"`
}

// Report summarises a single purify run.
type Report struct {
	Source         string  `json:"source" cbor:"source"`
	Format         string  `json:"format" cbor:"format"`
	MIMEType       string  `json:"mime_type" cbor:"mime_type"`
	OriginalSize   int     `json:"original_size" cbor:"original_size"`
	PurifiedSize   int     `json:"purified_size" cbor:"purified_size"`
	RemovedBytes   int     `json:"removed_bytes" cbor:"removed_bytes"`
	BeforeEntropy  float64 `json:"before_entropy" cbor:"before_entropy"`
	AfterEntropy   float64 `json:"after_entropy" cbor:"after_entropy"`
	Removed        []Entry `json:"removed" cbor:"removed"`
	OriginalBLAKE3 string  `json:"original_blake3" cbor:"original_blake3"`
	PurifiedBLAKE3 string  `json:"purified_blake3" cbor:"purified_blake3"`
}

// New builds the report for res, which was produced from original.
func New(source string, original []byte, res *purify.Result) *Report {
	removed := res.Removed()
	entries := make([]Entry, 0, len(removed))
	for _, r := range removed {
		entries = append(entries, Entry{Start: r.Start, End: r.End, Label: r.Label})
	}
	return &Report{
		Source:         source,
		Format:         res.Format().String(),
		MIMEType:       res.Format().MIMEType(),
		OriginalSize:   len(original),
		PurifiedSize:   len(res.Purified()),
		RemovedBytes:   res.RemovedBytes(),
		BeforeEntropy:  res.BeforeEntropy(),
		AfterEntropy:   res.AfterEntropy(),
		Removed:        entries,
		OriginalBLAKE3: Digest(original),
		PurifiedBLAKE3: Digest(res.Purified()),
	}
}

// Digest returns the hex-encoded BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Lines returns one console line per removed range.
func (r *Report) Lines() []string {
	lines := make([]string, len(r.Removed))
	for i, e := range r.Removed {
		lines[i] = fmt.Sprintf("Stripped %s @ [%d-%d)", e.Label, e.Start, e.End)
	}
	return lines
}

// Encode writes the report to w in the given encoding.
func (r *Report) Encode(w io.Writer, kind Kind) error {
	switch kind {
	case KindJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(r), "encoding JSON report")
	case KindCBOR:
		return errors.Wrap(encMode.NewEncoder(w).Encode(r), "encoding CBOR report")
	default:
		return errors.Errorf("unknown report kind %q", kind)
	}
}

// DecodeCBOR parses a report previously written with KindCBOR.
func DecodeCBOR(data []byte) (*Report, error) {
	var r Report
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "decoding CBOR report")
	}
	return &r, nil
}
