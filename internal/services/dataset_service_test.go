package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"visacli/internal/config"
	"visacli/internal/geo"
	"visacli/internal/visa"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// writeTestWorkbook builds a small but realistic consulate workbook.
func writeTestWorkbook(t *testing.T, dir, name string) string {
	t.Helper()

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Schengen State", "Country where consulate is located", "Consulate", "Uniform visas applied for", "Total uniform visas issued (including MEV)", "Uniform visas not issued"},
		{"France", "Senegal", "Dakar", 100, 80, 20},
		{"Germany", "India", "Mumbai", 2500, 2100, 400},
		{"Iceland", "", "Reykjavik desk", 5, 5, 0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func newTestDatasetService(t *testing.T, inputDir string) *DatasetService {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.InputDir = inputDir

	pipeline := visa.NewPipeline(geo.NewTableClassifier(), testLogger())
	return NewDatasetService(cfg, pipeline, testLogger())
}

func TestDatasetService_LoadWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := writeTestWorkbook(t, dir, "visa_2019.xlsx")

	svc := newTestDatasetService(t, dir)
	dataset, err := svc.LoadWorkbook(context.Background(), path)
	require.NoError(t, err)

	// The row with no consulate country is dropped.
	assert.Len(t, dataset.Records, 2)
	assert.Equal(t, 1, dataset.Stats.RowsDropped)

	current := svc.Dataset()
	require.NotNil(t, current)
	assert.Equal(t, dataset, current)

	source, loadedAt := svc.Source()
	assert.Equal(t, path, source)
	assert.False(t, loadedAt.IsZero())
}

func TestDatasetService_LoadLatest(t *testing.T) {
	dir := t.TempDir()
	writeTestWorkbook(t, dir, "visa_2018.xlsx")
	writeTestWorkbook(t, dir, "visa_2019.xlsx")

	svc := newTestDatasetService(t, dir)
	_, err := svc.LoadLatest(context.Background())
	require.NoError(t, err)

	source, _ := svc.Source()
	assert.Equal(t, filepath.Join(dir, "visa_2019.xlsx"), source)
}

func TestDatasetService_LoadLatestEmptyDir(t *testing.T) {
	dir := t.TempDir()
	svc := newTestDatasetService(t, dir)

	_, err := svc.LoadLatest(context.Background())
	assert.Error(t, err)
}

func TestDiscoverWorkbooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"visa_2019.xlsx", "visa_2018.xlsx", "~$visa_2019.xlsx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	workbooks, err := DiscoverWorkbooks(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "visa_2018.xlsx"),
		filepath.Join(dir, "visa_2019.xlsx"),
	}, workbooks)
}
