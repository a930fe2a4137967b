// Package export writes purified images and their optional sidecars.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jdeng/gopurify/internal/config"
	"github.com/jdeng/gopurify/internal/quarantine"
	"github.com/jdeng/gopurify/internal/report"
	"github.com/jdeng/gopurify/pkg/purify"
)

// Writer places output files in Dir.
type Writer struct {
	Dir string
	// Naming is config.NamingTimestamp or config.NamingSource.
	Naming string
	// Report is config.ReportNone, ReportJSON or ReportCBOR.
	Report string
	// Quarantine enables the stripped-segment archive.
	Quarantine  bool
	Compression quarantine.Compression
	// Now supplies the timestamp for NamingTimestamp; defaults to time.Now.
	Now func() time.Time
}

// NewWriter builds a Writer from cfg.
func NewWriter(cfg *config.Config) *Writer {
	return &Writer{
		Dir:         cfg.OutputDir,
		Naming:      cfg.Naming,
		Report:      cfg.Report,
		Quarantine:  cfg.Quarantine,
		Compression: quarantine.Compression(cfg.QuarantineCompression),
	}
}

// Paths lists the files written for one input. Empty fields were not written.
type Paths struct {
	Purified   string
	Report     string
	Quarantine string
}

// Write stores res, produced from original read at source.
func (w *Writer) Write(source string, original []byte, res *purify.Result) (Paths, error) {
	var paths Paths
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return paths, errors.Wrapf(err, "creating output directory %s", w.Dir)
	}

	ext := "." + res.Format().Extension()
	base := w.uniqueBase(w.baseName(source), ext)
	paths.Purified = filepath.Join(w.Dir, base+ext)
	if err := writeFile(paths.Purified, res.Purified()); err != nil {
		return paths, err
	}

	if w.Report != "" && w.Report != config.ReportNone {
		kind := report.Kind(w.Report)
		var buf bytes.Buffer
		if err := report.New(source, original, res).Encode(&buf, kind); err != nil {
			return paths, err
		}
		paths.Report = filepath.Join(w.Dir, base+kind.Extension())
		if err := writeFile(paths.Report, buf.Bytes()); err != nil {
			return paths, err
		}
	}

	if w.Quarantine && len(res.Removed()) > 0 {
		var buf bytes.Buffer
		if err := quarantine.Write(&buf, w.Compression, original, res.Removed()); err != nil {
			return paths, err
		}
		paths.Quarantine = filepath.Join(w.Dir, base+w.Compression.Extension())
		if err := writeFile(paths.Quarantine, buf.Bytes()); err != nil {
			return paths, err
		}
	}
	return paths, nil
}

func (w *Writer) baseName(source string) string {
	if w.Naming == config.NamingSource {
		stem := filepath.Base(source)
		stem = strings.TrimSuffix(stem, filepath.Ext(stem))
		return stem + ".purified"
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	return fmt.Sprintf("purified_file_%d", now().UnixMilli())
}

// uniqueBase appends _1, _2, ... to timestamp names already taken in Dir,
// so files finishing in the same millisecond do not overwrite each other or
// each other's sidecars. Source naming is left alone: rerunning on the same
// input replaces its output.
func (w *Writer) uniqueBase(base, ext string) string {
	if w.Naming == config.NamingSource {
		return base
	}
	suffixes := []string{ext}
	if w.Report != "" && w.Report != config.ReportNone {
		suffixes = append(suffixes, report.Kind(w.Report).Extension())
	}
	if w.Quarantine {
		suffixes = append(suffixes, w.Compression.Extension())
	}

	candidate := base
	for n := 1; w.taken(candidate, suffixes); n++ {
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	return candidate
}

func (w *Writer) taken(base string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if _, err := os.Stat(filepath.Join(w.Dir, base+suffix)); !os.IsNotExist(err) {
			return true
		}
	}
	return false
}

// writeFile writes data via a temporary file and rename so a failed write
// never leaves a truncated artifact behind.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".purify-*")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file for %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "setting mode on %s", path)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "renaming to %s", path)
}
