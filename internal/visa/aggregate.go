package visa

import "sort"

// weightedMean accumulates an application-volume weighted mean of defined
// rejection rates. Records with an undefined rate carry zero weight and
// are excluded from both numerator and denominator, so a group made
// entirely of such records yields an undefined mean instead of a division
// by zero.
type weightedMean struct {
	numerator   float64
	denominator float64
}

func (w *weightedMean) add(rec Record) {
	if !rec.RateDefined {
		return
	}
	weight := float64(rec.TotApplication)
	w.numerator += rec.RejRate * weight
	w.denominator += weight
}

func (w *weightedMean) value() (float64, bool) {
	if w.denominator == 0 {
		return 0, false
	}
	return w.numerator / w.denominator, true
}

// AggregateByCountry groups cleaned records by consulate country and
// computes the volume-weighted mean rejection rate per country.
// The result is sorted ascending by mean rate, lowest first; countries
// with no defined-rate record sort after all rated ones. Ties break on
// country name so repeated runs produce byte-identical output.
func AggregateByCountry(records []Record) []CountryAggregate {
	type bucket struct {
		mean       weightedMean
		apps       int64
		consulates int
	}
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		b, ok := buckets[rec.ConsulateCountry]
		if !ok {
			b = &bucket{}
			buckets[rec.ConsulateCountry] = b
		}
		b.mean.add(rec)
		b.apps += rec.TotApplication
		b.consulates++
	}

	aggregates := make([]CountryAggregate, 0, len(buckets))
	for country, b := range buckets {
		mean, defined := b.mean.value()
		aggregates = append(aggregates, CountryAggregate{
			ConsulateCountry:  country,
			MeanRejRate:       mean,
			MeanDefined:       defined,
			TotalApplications: b.apps,
			Consulates:        b.consulates,
		})
	}

	sort.Slice(aggregates, func(i, j int) bool {
		a, b := aggregates[i], aggregates[j]
		if a.MeanDefined != b.MeanDefined {
			return a.MeanDefined
		}
		if a.MeanDefined && a.MeanRejRate != b.MeanRejRate {
			return a.MeanRejRate < b.MeanRejRate
		}
		return a.ConsulateCountry < b.ConsulateCountry
	})
	return aggregates
}

// AggregateByContinent groups enriched records by continent. Volume counts
// every record; the weighted mean follows the same defined-rates-only rule
// as the country aggregate. Rows are sorted by continent name for
// deterministic output, with the Unclassified sentinel appearing like any
// other category.
func AggregateByContinent(records []Record) []ContinentAggregate {
	type bucket struct {
		mean    weightedMean
		apps    int64
		records int
	}
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		b, ok := buckets[rec.Continent]
		if !ok {
			b = &bucket{}
			buckets[rec.Continent] = b
		}
		b.mean.add(rec)
		b.apps += rec.TotApplication
		b.records++
	}

	aggregates := make([]ContinentAggregate, 0, len(buckets))
	for continent, b := range buckets {
		mean, defined := b.mean.value()
		aggregates = append(aggregates, ContinentAggregate{
			Continent:         continent,
			MeanRejRate:       mean,
			MeanDefined:       defined,
			TotalApplications: b.apps,
			Records:           b.records,
		})
	}

	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Continent < aggregates[j].Continent
	})
	return aggregates
}
