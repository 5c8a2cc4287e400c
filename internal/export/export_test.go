package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fenilsonani/disklens/internal/model"
)

func sampleResult() *model.ScanResult {
	root := model.NewDirectory("/scan", "scan", []*model.Node{
		model.NewFile("/scan/a.txt", "a.txt", 100, 100, time.Unix(1700000000, 0), 0),
		model.NewFile("/scan/b.txt", "b.txt", 200, 200, time.Unix(1700000100, 0), 0),
		model.NewDirectory("/scan/d", "d", []*model.Node{
			model.NewFile("/scan/d/c.txt", "c.txt", 300, 300, time.Unix(1700000200, 0), 0),
		}),
	})
	return model.NewScanResult(root, "/scan", 2*time.Second, []model.ScanError{
		{Path: "/scan/locked", Kind: model.ErrPermissionDenied, Message: "permission denied"},
	}, time.Unix(1700001000, 0))
}

func TestJSONRoundTrip(t *testing.T) {
	result := sampleResult()
	path := filepath.Join(t.TempDir(), "report.json")

	if err := JSON(result, path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	if parsed.ScanInfo.TotalSize != result.TotalSize {
		t.Errorf("total_size = %d, want %d", parsed.ScanInfo.TotalSize, result.TotalSize)
	}
	if parsed.ScanInfo.TotalFiles != result.TotalFiles {
		t.Errorf("total_files = %d, want %d", parsed.ScanInfo.TotalFiles, result.TotalFiles)
	}
	if parsed.ScanInfo.ErrorCount != 1 {
		t.Errorf("error_count = %d, want 1", parsed.ScanInfo.ErrorCount)
	}
	if parsed.Root.Size != result.Root.Size {
		t.Errorf("root size = %d, want %d", parsed.Root.Size, result.Root.Size)
	}
	if len(parsed.Errors) != 1 || parsed.Errors[0].Kind != model.ErrPermissionDenied {
		t.Errorf("errors did not round-trip: %+v", parsed.Errors)
	}
}

func TestJSONKindsAreStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := JSON(sampleResult(), path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	text := string(data)
	if !strings.Contains(text, `"kind": "dir"`) {
		t.Error("directory kind not serialized as string")
	}
	if !strings.Contains(text, `"kind": "permission denied"`) {
		t.Error("error kind not serialized as string")
	}
}

func TestMarkdownReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := Markdown(sampleResult(), path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	text := string(data)

	for _, want := range []string{
		"# DiskLens Report",
		"**Total Size:** 600 B",
		"**Files:** 3",
		"| Name | Size | % |",
		"a.txt",
		"## Errors (1 total)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
}

func TestHTMLReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	if err := HTML(sampleResult(), path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	text := string(data)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"DiskLens Report",
		"<details>",
		"bar-fill",
		"Errors (1 total)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("html report missing %q", want)
		}
	}
}

func TestExportToUnwritablePath(t *testing.T) {
	err := JSON(sampleResult(), filepath.Join(t.TempDir(), "missing", "deep", "report.json"))
	if err == nil {
		t.Error("export into a missing directory should fail")
	}
}
