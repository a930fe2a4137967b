package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jdeng/gopurify/internal/config"
	"github.com/jdeng/gopurify/internal/quarantine"
	"github.com/jdeng/gopurify/internal/report"
	"github.com/jdeng/gopurify/pkg/purify"
)

var sampleJPEG = []byte{
	0xff, 0xd8,
	0xff, 0xe1, 0x00, 0x08, 'E', 'x', 'i', 'f', 0x00, 0x00,
	0xff, 0xda, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3f, 0x00,
	0x12, 0x34,
	0xff, 0xd9,
}

func purified(t *testing.T) *purify.Result {
	t.Helper()
	res, err := purify.Purify(purify.Options{Filename: "photo.jpg", Data: sampleJPEG})
	if err != nil {
		t.Fatalf("Purify: %v", err)
	}
	return res
}

func TestWriteTimestampNaming(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{
		Dir:    dir,
		Naming: config.NamingTimestamp,
		Now:    func() time.Time { return time.UnixMilli(1700000000123) },
	}
	res := purified(t)

	paths, err := w.Write("in/photo.jpg", sampleJPEG, res)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := filepath.Join(dir, "purified_file_1700000000123.jpg")
	if paths.Purified != want {
		t.Errorf("Purified path = %q, want %q", paths.Purified, want)
	}
	if paths.Report != "" || paths.Quarantine != "" {
		t.Errorf("unexpected sidecars %+v", paths)
	}
	got, err := os.ReadFile(paths.Purified)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, res.Purified()) {
		t.Error("written bytes differ from purified result")
	}
}

func TestWriteTimestampCollision(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{
		Dir:    dir,
		Naming: config.NamingTimestamp,
		Now:    func() time.Time { return time.UnixMilli(42) },
	}
	res := purified(t)

	var got []string
	for i := 0; i < 3; i++ {
		paths, err := w.Write("photo.jpg", sampleJPEG, res)
		if err != nil {
			t.Fatalf("Write #%d: %v", i, err)
		}
		got = append(got, filepath.Base(paths.Purified))
	}
	want := []string{"purified_file_42.jpg", "purified_file_42_1.jpg", "purified_file_42_2.jpg"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write %d: name = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWriteTimestampAvoidsSidecars(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{
		Dir:         dir,
		Naming:      config.NamingTimestamp,
		Report:      config.ReportJSON,
		Quarantine:  true,
		Compression: quarantine.Zstd,
		Now:         func() time.Time { return time.UnixMilli(7) },
	}
	leftovers := map[string][]byte{
		"purified_file_7.report.json": []byte("old report"),
		"purified_file_7_1.meta.zst":  []byte("old quarantine"),
	}
	for name, data := range leftovers {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	paths, err := w.Write("photo.jpg", sampleJPEG, purified(t))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(dir, "purified_file_7_2.jpg"); paths.Purified != want {
		t.Errorf("Purified path = %q, want %q", paths.Purified, want)
	}
	for name, data := range leftovers {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil || !bytes.Equal(got, data) {
			t.Errorf("%s was modified: %q, %v", name, got, err)
		}
	}
}

func TestWriteSidecars(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.Naming = config.NamingSource
	cfg.Report = config.ReportCBOR
	cfg.Quarantine = true
	cfg.QuarantineCompression = config.CompressionLZ4

	res := purified(t)
	paths, err := NewWriter(cfg).Write("/src/photo.jpeg", sampleJPEG, res)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if paths.Purified != filepath.Join(cfg.OutputDir, "photo.purified.jpg") {
		t.Errorf("Purified path = %q", paths.Purified)
	}
	if paths.Report != filepath.Join(cfg.OutputDir, "photo.purified.report.cbor") {
		t.Errorf("Report path = %q", paths.Report)
	}
	if paths.Quarantine != filepath.Join(cfg.OutputDir, "photo.purified.meta.lz4") {
		t.Errorf("Quarantine path = %q", paths.Quarantine)
	}

	data, err := os.ReadFile(paths.Report)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	rep, err := report.DecodeCBOR(data)
	if err != nil {
		t.Fatalf("DecodeCBOR: %v", err)
	}
	if rep.Source != "/src/photo.jpeg" || len(rep.Removed) != 1 || rep.Removed[0].Label != "APP1" {
		t.Errorf("unexpected report %+v", rep)
	}

	f, err := os.Open(paths.Quarantine)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	records, err := quarantine.Read(f, quarantine.LZ4)
	if err != nil {
		t.Fatalf("quarantine.Read: %v", err)
	}
	if len(records) != 1 || !bytes.Equal(records[0].Data, sampleJPEG[2:12]) {
		t.Errorf("unexpected quarantine records %+v", records)
	}
}

func TestWriteSkipsEmptyQuarantine(t *testing.T) {
	clean := append([]byte{0xff, 0xd8}, sampleJPEG[12:]...)
	res, err := purify.Purify(purify.Options{Filename: "clean.jpg", Data: clean})
	if err != nil {
		t.Fatalf("Purify: %v", err)
	}
	w := &Writer{Dir: t.TempDir(), Naming: config.NamingSource, Quarantine: true, Compression: quarantine.Zstd}
	paths, err := w.Write("clean.jpg", clean, res)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if paths.Quarantine != "" {
		t.Errorf("quarantine written for clean input: %q", paths.Quarantine)
	}
}
