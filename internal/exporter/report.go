package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"visacli/internal/visa"
)

// Output file names produced for each processed dataset.
const (
	RecordsFile    = "records.csv"
	CountriesFile  = "country_rates.csv"
	ContinentsFile = "continent_rates.csv"
	SummaryFile    = "summary.txt"
)

// WriteDataset writes the full set of report files for a processed
// dataset into outDir.
func WriteDataset(dataset *visa.Dataset, outDir string) error {
	writer := NewCSVWriter(outDir)

	if err := writer.WriteSimpleCSV(RecordsFile, recordHeaders(), recordRows(dataset.Records)); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := writer.WriteSimpleCSV(CountriesFile, countryHeaders(), countryRows(dataset.Countries)); err != nil {
		return fmt.Errorf("write country rates: %w", err)
	}
	if err := writer.WriteSimpleCSV(ContinentsFile, continentHeaders(), continentRows(dataset.Continents)); err != nil {
		return fmt.Errorf("write continent rates: %w", err)
	}
	if err := WriteSummary(dataset, filepath.Join(outDir, SummaryFile)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func recordHeaders() []string {
	return []string{
		"schengen_state",
		"consulate_country",
		"consulate_city",
		"continent",
		"issued",
		"not_issued",
		"tot_application",
		"rej_rate",
	}
}

func recordRows(records []visa.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		// Undefined rates serialize as an empty cell, never as NaN
		// or a sentinel number.
		rate := ""
		if rec.RateDefined {
			rate = formatRate(rec.RejRate)
		}
		rows = append(rows, []string{
			rec.SchengenState,
			rec.ConsulateCountry,
			rec.ConsulateCity,
			rec.Continent,
			strconv.FormatInt(rec.Issued, 10),
			strconv.FormatInt(rec.NotIssued, 10),
			strconv.FormatInt(rec.TotApplication, 10),
			rate,
		})
	}
	return rows
}

func countryHeaders() []string {
	return []string{
		"consulate_country",
		"mean_rej_rate",
		"total_applications",
		"consulates",
	}
}

func countryRows(countries []visa.CountryAggregate) [][]string {
	rows := make([][]string, 0, len(countries))
	for _, agg := range countries {
		mean := ""
		if agg.MeanDefined {
			mean = formatRate(agg.MeanRejRate)
		}
		rows = append(rows, []string{
			agg.ConsulateCountry,
			mean,
			strconv.FormatInt(agg.TotalApplications, 10),
			strconv.Itoa(agg.Consulates),
		})
	}
	return rows
}

func continentHeaders() []string {
	return []string{
		"continent",
		"mean_rej_rate",
		"total_applications",
		"records",
	}
}

func continentRows(continents []visa.ContinentAggregate) [][]string {
	rows := make([][]string, 0, len(continents))
	for _, agg := range continents {
		mean := ""
		if agg.MeanDefined {
			mean = formatRate(agg.MeanRejRate)
		}
		rows = append(rows, []string{
			agg.Continent,
			mean,
			strconv.FormatInt(agg.TotalApplications, 10),
			strconv.Itoa(agg.Records),
		})
	}
	return rows
}

// formatRate renders a rejection rate with six decimal places, enough to
// round-trip the ratios that two int64 counts can produce in practice.
func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 6, 64)
}

// WriteSummary creates a human-readable summary report of the run.
func WriteSummary(dataset *visa.Dataset, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	stats := dataset.Stats

	fmt.Fprintf(file, "Schengen Visa Statistics - Summary Report\n")
	fmt.Fprintf(file, "==========================================\n\n")
	fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "DATASET OVERVIEW\n")
	fmt.Fprintf(file, "----------------\n")
	fmt.Fprintf(file, "Source Rows: %d\n", stats.RowsIn)
	fmt.Fprintf(file, "Records Kept: %d\n", len(dataset.Records))
	fmt.Fprintf(file, "Countries: %d\n", len(dataset.Countries))
	fmt.Fprintf(file, "Continents: %d\n\n", len(dataset.Continents))

	fmt.Fprintf(file, "DATA QUALITY\n")
	fmt.Fprintf(file, "------------\n")
	fmt.Fprintf(file, "Rows Dropped (no consulate country): %d\n", stats.RowsDropped)
	fmt.Fprintf(file, "Counts Defaulted to Zero: %d\n", stats.CountsDefaulted)
	fmt.Fprintf(file, "Undefined Rejection Rates: %d\n", stats.RatesUndefined)
	fmt.Fprintf(file, "Unclassified Continents: %d\n\n", stats.Unclassified)

	if lowest, highest, ok := rateExtremes(dataset.Countries); ok {
		fmt.Fprintf(file, "REJECTION RATE EXTREMES\n")
		fmt.Fprintf(file, "-----------------------\n")
		fmt.Fprintf(file, "Lowest: %s (%.4f)\n", lowest.ConsulateCountry, lowest.MeanRejRate)
		fmt.Fprintf(file, "Highest: %s (%.4f)\n", highest.ConsulateCountry, highest.MeanRejRate)
	}

	return nil
}

// rateExtremes returns the countries with the lowest and highest defined
// weighted mean rejection rate. Country aggregates arrive sorted with
// defined means first, ascending.
func rateExtremes(countries []visa.CountryAggregate) (lowest, highest visa.CountryAggregate, ok bool) {
	definedUpTo := -1
	for i, agg := range countries {
		if !agg.MeanDefined {
			break
		}
		definedUpTo = i
	}
	if definedUpTo < 0 {
		return visa.CountryAggregate{}, visa.CountryAggregate{}, false
	}
	return countries[0], countries[definedUpTo], true
}
