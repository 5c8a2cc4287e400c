// Package export writes scan reports in the supported output formats.
// Export failures surface to the caller; the application keeps running.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fenilsonani/disklens/internal/model"
)

// ScanInfo is the report-level summary block.
type ScanInfo struct {
	Path            string    `json:"path"`
	Timestamp       time.Time `json:"timestamp"`
	TotalSize       int64     `json:"total_size"`
	TotalFiles      int       `json:"total_files"`
	TotalDirs       int       `json:"total_dirs"`
	DurationSeconds float64   `json:"duration_seconds"`
	ErrorCount      int       `json:"error_count"`
}

// Report is the JSON document layout: a summary, the node tree mirror,
// and the flat error list.
type Report struct {
	ScanInfo ScanInfo          `json:"scan_info"`
	Root     *model.Node       `json:"root"`
	Errors   []model.ScanError `json:"errors"`
}

// NewReport assembles the export document from a scan result.
func NewReport(result *model.ScanResult) *Report {
	return &Report{
		ScanInfo: ScanInfo{
			Path:            result.RootPath,
			Timestamp:       result.Timestamp,
			TotalSize:       result.TotalSize,
			TotalFiles:      result.TotalFiles,
			TotalDirs:       result.TotalDirs,
			DurationSeconds: result.Duration.Seconds(),
			ErrorCount:      len(result.Errors),
		},
		Root:   result.Root,
		Errors: result.Errors,
	}
}

// JSON writes the report to path as indented JSON.
func JSON(result *model.ScanResult, path string) error {
	data, err := json.MarshalIndent(NewReport(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
