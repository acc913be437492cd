package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sebasr/sensores-dashboard/internal/pipeline"
)

// ExportFilename builds the deterministic download name for a chart export.
// Colons are stripped from the timestamp so the name is valid on every
// filesystem.
func ExportFilename(scope string, typ Type, windowLabel string, at time.Time) string {
	stamp := strings.ReplaceAll(at.UTC().Format(time.RFC3339), ":", "")
	return fmt.Sprintf("sensores-%s-%s-%s-%s.png", scope, typ, windowLabel, stamp)
}

// Exporter writes chart PNGs to a directory. Exports render at the chart's
// natural width rather than the clamped on-screen width.
type Exporter struct {
	dir string
	now func() time.Time
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir, now: time.Now}
}

// Export renders the chart and writes it under the export directory,
// returning the generated filename.
func (e *Exporter) Export(scope string, data pipeline.ChartData, typ Type) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	name := ExportFilename(scope, typ, data.WindowLabel, e.now())
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}

	width := pipeline.UnclampedWidth(len(data.Points))
	if err := Render(data, typ, width, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("rendering export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	return name, nil
}
