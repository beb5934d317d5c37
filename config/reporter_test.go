package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestReport(t *testing.T) *Report {
	t.Helper()
	r, err := (&ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return r
}

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_StoreData(t *testing.T) {
	r := newTestReport(t)

	r.StoreData("source/index.html", []byte("first"))
	r.StoreData("source/index.html", []byte("second"))
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readReport(t, r.Name())
	if files["source/index.html"] != "first" {
		t.Errorf("first entry = %q", files["source/index.html"])
	}
	versioned := 0
	for name, data := range files {
		if strings.HasPrefix(name, "source/index.html-") && data == "second" {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("repeated entry must be versioned, report has %v", files)
	}
	if _, ok := files["MANIFEST"]; !ok {
		t.Error("report has no MANIFEST")
	}
}

func TestReport_Store(t *testing.T) {
	r := newTestReport(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "final.log")
	if err := os.WriteFile(src, []byte("log line"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r.Store("final.log", src)
	r.Store("panic.log", filepath.Join(dir, "absent.log"))
	r.Store("logs", dir)
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readReport(t, r.Name())
	if files["final.log"] != "log line" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	for _, name := range []string{"panic.log", "logs"} {
		if _, ok := files[name]; ok {
			t.Errorf("%s must not be in report", name)
		}
	}
	if !strings.Contains(files["MANIFEST"], "panic.log") {
		t.Errorf("MANIFEST must list all stored entries:\n%s", files["MANIFEST"])
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("stored original must not be removed: %v", err)
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.StoreData("x", []byte("y"))
	if r.Name() != "" {
		t.Error("nil report has no name")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
