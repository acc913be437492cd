package chart

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasr/sensores-dashboard/internal/pipeline"
)

func TestExportFilename(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	name := ExportFilename("esp32-01", TypeLines, "5d", at)
	assert.Equal(t, "sensores-esp32-01-lines-5d-2024-01-02T150405Z.png", name)
}

func TestExportFilename_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	at := time.Date(2024, 6, 10, 12, 30, 0, 0, loc)

	name := ExportFilename("all", TypeBars, "24h", at)
	assert.Equal(t, "sensores-all-bars-24h-2024-06-10T113000Z.png", name)
}

func TestExporter_ExportWritesPNG(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)
	e.now = func() time.Time {
		return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	}

	name, err := e.Export("esp32-01", chartFixture(t, 24), TypeLines)
	require.NoError(t, err)
	assert.Equal(t, "sensores-esp32-01-lines-5d-2024-01-02T150405Z.png", name)

	info, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExporter_ExportCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	e := NewExporter(dir)

	name, err := e.Export("all", chartFixture(t, 3), TypeArea)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)
}

func TestExporter_ExportEmptyWindowStillRenders(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	data := pipeline.ChartData{Empty: true, Width: 800, WindowLabel: "24h"}
	name, err := e.Export("esp32-01", data, TypeLines)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
