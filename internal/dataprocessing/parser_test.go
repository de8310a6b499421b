package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visacli/internal/visa"
)

var header = []string{
	"Schengen State",
	"Country where consulate is located",
	"Consulate",
	"Uniform visas applied for",
	"Total uniform visas issued (including MEV)",
	"Uniform visas not issued",
}

func TestSelectRows(t *testing.T) {
	rows := [][]string{
		{"Schengen visa statistics for consulates, 2018"},
		{},
		header,
		{"France", "Senegal", "Dakar", "110", "80", "20"},
		{"Germany", "India", "Mumbai", "2,500", "2,100", "400"},
		{"Iceland", "Senegal", "Dakar", "", "", ""},
		{"TOTAL", "", "", "2610", "2180", "420"},
	}

	records, err := SelectRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 3, "totals row and banner rows are skipped")

	assert.Equal(t, "France", records[0].SchengenState)
	assert.Equal(t, "Senegal", records[0].ConsulateCountry)
	assert.Equal(t, "Dakar", records[0].ConsulateCity)
	require.NotNil(t, records[0].Issued)
	assert.Equal(t, int64(80), *records[0].Issued)
	require.NotNil(t, records[0].NotIssued)
	assert.Equal(t, int64(20), *records[0].NotIssued)

	// Thousands separators are stripped.
	require.NotNil(t, records[1].Issued)
	assert.Equal(t, int64(2100), *records[1].Issued)

	// Blank count cells stay nil so the zero-default policy can see them.
	assert.Nil(t, records[2].Issued)
	assert.Nil(t, records[2].NotIssued)
}

func TestSelectRowsMissingColumn(t *testing.T) {
	// Header lacks the "not issued" column.
	rows := [][]string{
		{"Schengen State", "Country where consulate is located", "Consulate", "Issued"},
		{"France", "Senegal", "Dakar", "80"},
	}

	_, err := SelectRows(rows)
	require.Error(t, err)

	var schemaErr *visa.SchemaError
	require.True(t, errors.As(err, &schemaErr), "missing column must surface as SchemaError")
	assert.Equal(t, visa.ColNotIssued, schemaErr.Column)
	assert.Contains(t, err.Error(), "not_issued")
}

func TestSelectRowsNoHeader(t *testing.T) {
	rows := [][]string{
		{"just", "some", "cells"},
		{"1", "2", "3"},
	}

	_, err := SelectRows(rows)
	require.Error(t, err)
	var schemaErr *visa.SchemaError
	assert.False(t, errors.As(err, &schemaErr))
}

func TestSelectRowsHeaderVariants(t *testing.T) {
	// Different year, different header spellings.
	rows := [][]string{
		{"SCHENGEN STATE", "Country where consulate is located:", "CONSULATE", "Visas applied for", "visas ISSUED", "Visas NOT-issued"},
		{"Norway", "Brazil", "Rio de Janeiro", "55", "50", "5"},
	}

	records, err := SelectRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Rio de Janeiro", records[0].ConsulateCity)
	require.NotNil(t, records[0].NotIssued)
	assert.Equal(t, int64(5), *records[0].NotIssued)
}

func TestSelectRowsUnparseableCountTreatedAsMissing(t *testing.T) {
	rows := [][]string{
		header,
		{"Spain", "Morocco", "Rabat", "100", "n/a*", "10"},
	}

	records, err := SelectRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Issued)
	require.NotNil(t, records[0].NotIssued)
	assert.Equal(t, int64(10), *records[0].NotIssued)
}

func TestSelectRowsNegativeCountTreatedAsMissing(t *testing.T) {
	// A negative count can never describe visa volumes; letting it
	// through would allow rejection rates outside [0, 1].
	rows := [][]string{
		header,
		{"Spain", "Morocco", "Rabat", "5", "-5", "10"},
		{"Spain", "Morocco", "Casablanca", "5", "80", "-3.0"},
	}

	records, err := SelectRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Nil(t, records[0].Issued)
	require.NotNil(t, records[0].NotIssued)
	assert.Equal(t, int64(10), *records[0].NotIssued)

	require.NotNil(t, records[1].Issued)
	assert.Equal(t, int64(80), *records[1].Issued)
	assert.Nil(t, records[1].NotIssued)
}

func TestSelectRowsFloatCount(t *testing.T) {
	rows := [][]string{
		header,
		{"Spain", "Morocco", "Casablanca", "110.0", "80.0", "30.0"},
	}

	records, err := SelectRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Issued)
	assert.Equal(t, int64(80), *records[0].Issued)
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Uniform visas NOT issued", "uniform visas not issued"},
		{"not-issued", "not issued"},
		{"  Schengen   State ", "schengen state"},
		{"Consulate:", "consulate"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeHeader(tt.in))
	}
}

func TestParseWorkbookMissingFile(t *testing.T) {
	_, err := ParseWorkbook("testdata/does-not-exist.xlsx")
	assert.Error(t, err)
}
