package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BundleReport accumulates one line per wheel processed by a bundle run and
// can append the result to a report file next to the cache, so shipped
// bundles keep a record of what was fetched and when.
type BundleReport struct {
	Entries []string
}

// Record adds a wheel outcome ("downloaded" or "cached") to the report.
func (r *BundleReport) Record(fileName, outcome string) {
	r.Entries = append(r.Entries, fmt.Sprintf("%s\t%s", fileName, outcome))
}

// WriteTo appends the report to bundle-report.txt inside dir and clears the
// recorded entries. An empty report writes nothing.
func (r *BundleReport) WriteTo(dir string) error {
	if len(r.Entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	reportPath := filepath.Join(dir, "bundle-report.txt")
	f, err := os.OpenFile(reportPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening report file: %w", err)
	}
	defer f.Close()

	stamp := time.Now().UTC().Format(time.RFC3339)
	if _, err := fmt.Fprintf(f, "# bundle run %s\n%s\n", stamp, strings.Join(r.Entries, "\n")); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	r.Entries = nil
	return nil
}
