package visa

import "visacli/internal/geo"

// Each stage is a pure function from one record slice to the next. The
// stages never mutate their input and never fail on data quality: every
// repair is a named policy whose application count is returned so callers
// can log and meter it.

// DropUnidentified removes rows with a missing consulate country.
// Such rows cannot be aggregated or mapped to a continent, and where a
// request was lodged is not reconstructible from the other columns, so the
// drop is deliberate and lossy. Returns the surviving rows and the number
// dropped.
func DropUnidentified(rows []SourceRow) ([]SourceRow, int) {
	kept := make([]SourceRow, 0, len(rows))
	for _, row := range rows {
		if row.ConsulateCountry == "" {
			continue
		}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}

// DefaultMissingCounts converts source rows to records, replacing absent
// issued/not_issued cells with zero. A blank count cell in the
// source spreadsheets means "no activity reported", not "unknown"; this
// default applies to exactly these two fields and nothing else. Returns
// the records and the number of cells defaulted.
func DefaultMissingCounts(rows []SourceRow) ([]Record, int) {
	records := make([]Record, 0, len(rows))
	defaulted := 0
	for _, row := range rows {
		rec := Record{
			SchengenState:    row.SchengenState,
			ConsulateCountry: row.ConsulateCountry,
			ConsulateCity:    row.ConsulateCity,
		}
		if row.Issued != nil {
			rec.Issued = *row.Issued
		} else {
			defaulted++
		}
		if row.NotIssued != nil {
			rec.NotIssued = *row.NotIssued
		} else {
			defaulted++
		}
		records = append(records, rec)
	}
	return records, defaulted
}

// DeriveMetrics computes tot_application and rej_rate per record.
// When tot_application is zero the rate is marked undefined rather than
// set to zero or NaN, so volume views can still count the record while
// rate views exclude it. Returns the derived records and the number of
// undefined rates.
func DeriveMetrics(records []Record) ([]Record, int) {
	derived := make([]Record, len(records))
	undefined := 0
	for i, rec := range records {
		rec.TotApplication = rec.Issued + rec.NotIssued
		if rec.TotApplication > 0 {
			rec.RejRate = float64(rec.NotIssued) / float64(rec.TotApplication)
			rec.RateDefined = true
		} else {
			rec.RejRate = 0
			rec.RateDefined = false
			undefined++
		}
		derived[i] = rec
	}
	return derived, undefined
}

// ClassifyContinents resolves each record's consulate country to a
// continent via the injected classifier. Unresolvable names get
// the geo.Unclassified sentinel so continent aggregates account for every
// record. Returns the enriched records and the number left unclassified.
func ClassifyContinents(records []Record, classifier geo.Classifier) ([]Record, int) {
	enriched := make([]Record, len(records))
	unclassified := 0
	for i, rec := range records {
		rec.Continent = classifier.Continent(rec.ConsulateCountry)
		if rec.Continent == geo.Unclassified {
			unclassified++
		}
		enriched[i] = rec
	}
	return enriched, unclassified
}
