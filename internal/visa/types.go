package visa

import "fmt"

// Column roles the pipeline requires from the source workbook. The parser
// maps heterogeneous human-authored headers onto these names before any
// cleaning happens; every other source column is discarded.
const (
	ColSchengenState    = "schengen_state"
	ColConsulateCountry = "consulate_country"
	ColConsulateCity    = "consulate_city"
	ColIssued           = "issued"
	ColNotIssued        = "not_issued"
)

// RequiredColumns lists the five column roles that must be present in an
// input sheet for the pipeline to run.
var RequiredColumns = []string{
	ColSchengenState,
	ColConsulateCountry,
	ColConsulateCity,
	ColIssued,
	ColNotIssued,
}

// SchemaError reports a required source column that could not be located.
// It is fatal: the pipeline never proceeds with partial input.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q not found in source sheet", e.Column)
}

// SourceRow is a single row as selected and renamed from the raw workbook.
// Count fields are pointers so a blank cell stays distinguishable from an
// explicit zero until the default policy runs.
type SourceRow struct {
	SchengenState    string
	ConsulateCountry string
	ConsulateCity    string
	Issued           *int64
	NotIssued        *int64
}

// Record is one cleaned (schengen state, consulate) observation with the
// derived rejection-rate fields.
type Record struct {
	SchengenState    string  `json:"schengen_state"`
	ConsulateCountry string  `json:"consulate_country"`
	ConsulateCity    string  `json:"consulate_city"`
	Issued           int64   `json:"issued"`
	NotIssued        int64   `json:"not_issued"`
	TotApplication   int64   `json:"tot_application"`
	RejRate          float64 `json:"rej_rate"`
	RateDefined      bool    `json:"rate_defined"`
	Continent        string  `json:"continent,omitempty"`
}

// IsValid checks the per-record invariants that hold after cleaning.
func (r Record) IsValid() bool {
	if r.ConsulateCountry == "" || r.Issued < 0 || r.NotIssued < 0 {
		return false
	}
	if r.TotApplication != r.Issued+r.NotIssued {
		return false
	}
	if r.RateDefined {
		return r.TotApplication > 0 && r.RejRate >= 0 && r.RejRate <= 1
	}
	return r.TotApplication == 0
}

// CountryAggregate is the per-country weighted rejection rate used for
// presentation ordering. TotalApplications counts every record of the
// country, including zero-denominator ones; MeanRejRate is weighted over
// defined-rate records only, and MeanDefined is false when the country has
// no such record.
type CountryAggregate struct {
	ConsulateCountry  string  `json:"consulate_country"`
	MeanRejRate       float64 `json:"mean_rej_rate"`
	MeanDefined       bool    `json:"mean_defined"`
	TotalApplications int64   `json:"total_applications"`
	Consulates        int     `json:"consulates"`
}

// ContinentAggregate is the per-continent view. The Unclassified sentinel
// appears as its own row so every record stays accounted for.
type ContinentAggregate struct {
	Continent         string  `json:"continent"`
	MeanRejRate       float64 `json:"mean_rej_rate"`
	MeanDefined       bool    `json:"mean_defined"`
	TotalApplications int64   `json:"total_applications"`
	Records           int     `json:"records"`
}

// RunStats counts the data-quality policies applied during one run. These
// are policy outcomes, not errors; a run never aborts because of them.
type RunStats struct {
	RowsIn          int `json:"rows_in"`
	RowsDropped     int `json:"rows_dropped"`
	CountsDefaulted int `json:"counts_defaulted"`
	RatesUndefined  int `json:"rates_undefined"`
	Unclassified    int `json:"unclassified"`
}

// Dataset bundles the derived tables of one pipeline run.
type Dataset struct {
	Records    []Record             `json:"records"`
	Countries  []CountryAggregate   `json:"countries"`
	Continents []ContinentAggregate `json:"continents"`
	Stats      RunStats             `json:"stats"`
}
