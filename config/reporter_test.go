package config

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func readArchiveNames(t *testing.T, path string) []string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open report archive: %v", err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestReportClose_Finalizes(t *testing.T) {
	reportFile, err := os.CreateTemp("", "test-report-*.zip")
	if err != nil {
		t.Fatalf("failed to create temp report file: %v", err)
	}
	defer os.Remove(reportFile.Name())

	r := &Report{
		entries: make(map[string]entry),
		file:    reportFile,
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "debug.txt"), []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	tmpFile := filepath.Join(dir, "result.css")
	if err := os.WriteFile(tmpFile, []byte("a{b:c}"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r.Store("workdir", dir)
	r.Store("result-file", tmpFile)
	r.StoreData("inline.txt", []byte("payload"))

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	names := readArchiveNames(t, reportFile.Name())
	want := map[string]bool{
		"MANIFEST":           false,
		"result-file":        false,
		"inline.txt":         false,
		"workdir/debug.txt":  false,
		"workdir/result.css": false,
	}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("expected %q in report archive, have %v", n, names)
		}
	}

	// stored originals are left in place
	if _, err := os.Stat(tmpFile); err != nil {
		t.Errorf("stored file should not be removed, but got error: %v", err)
	}
}

func TestReportStoreCopy(t *testing.T) {
	reportFile, err := os.CreateTemp("", "test-report-*.zip")
	if err != nil {
		t.Fatalf("failed to create temp report file: %v", err)
	}
	defer os.Remove(reportFile.Name())

	r := &Report{
		entries: make(map[string]entry),
		file:    reportFile,
	}

	src := filepath.Join(t.TempDir(), "input.scss")
	if err := os.WriteFile(src, []byte("$a: 1;"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if err := r.StoreCopy("input", src); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}

	// modifying the original after StoreCopy must not change the report
	if err := os.WriteFile(src, []byte("$a: 2;"), 0644); err != nil {
		t.Fatalf("failed to rewrite test file: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	zr, err := zip.OpenReader(reportFile.Name())
	if err != nil {
		t.Fatalf("failed to open report archive: %v", err)
	}
	defer zr.Close()

	found := false
	for _, f := range zr.File {
		if f.Name != "input" {
			continue
		}
		found = true
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open archive entry: %v", err)
		}
		buf := make([]byte, 16)
		n, _ := rc.Read(buf)
		rc.Close()
		if string(buf[:n]) != "$a: 1;" {
			t.Errorf("archived copy = %q, want %q", string(buf[:n]), "$a: 1;")
		}
	}
	if !found {
		t.Error("expected copied entry in report archive")
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}

func TestReportName(t *testing.T) {
	var r *Report
	if n := r.Name(); n != "" {
		t.Errorf("Name on nil report = %q, want empty", n)
	}

	reportFile, err := os.CreateTemp("", "test-report-*.zip")
	if err != nil {
		t.Fatalf("failed to create temp report file: %v", err)
	}
	defer os.Remove(reportFile.Name())
	defer reportFile.Close()

	r = &Report{entries: make(map[string]entry), file: reportFile}
	if n := r.Name(); !filepath.IsAbs(n) {
		t.Errorf("Name() = %q, want absolute path", n)
	}
}
