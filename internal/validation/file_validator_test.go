package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *FileValidator {
	return NewFileValidator(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestValidateInputDirectory(t *testing.T) {
	v := newValidator()

	dir := t.TempDir()
	assert.NoError(t, v.ValidateInputDirectory(dir), "empty directory is valid")

	assert.Error(t, v.ValidateInputDirectory(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.Error(t, v.ValidateInputDirectory(file), "a file is not a directory")
}

func TestValidateOutputDirectory(t *testing.T) {
	v := newValidator()

	dir := filepath.Join(t.TempDir(), "reports", "2019")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	// The writability check must not leave a file behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidateWorkbookFile(t *testing.T) {
	v := newValidator()
	dir := t.TempDir()

	workbook := filepath.Join(dir, "visa_2019.xlsx")
	require.NoError(t, os.WriteFile(workbook, []byte("x"), 0644))
	assert.NoError(t, v.ValidateWorkbookFile(workbook))

	assert.Error(t, v.ValidateWorkbookFile(filepath.Join(dir, "missing.xlsx")))
	assert.Error(t, v.ValidateWorkbookFile(dir), "directories are rejected")

	csv := filepath.Join(dir, "records.csv")
	require.NoError(t, os.WriteFile(csv, []byte("x"), 0644))
	assert.Error(t, v.ValidateWorkbookFile(csv))

	lock := filepath.Join(dir, "~$visa_2019.xlsx")
	require.NoError(t, os.WriteFile(lock, []byte("x"), 0644))
	assert.Error(t, v.ValidateWorkbookFile(lock))
}
