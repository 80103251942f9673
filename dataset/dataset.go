// Package dataset holds the life-expectancy tables the exploration
// graph derives from: a wide form as stored on disk (one row per
// country, one column per year) and a long form convenient for
// filtering and plotting (one row per observation). All operations are
// pure functions over immutable snapshots; nothing here touches the
// reactive graph.
package dataset

import (
	"math"
	"sort"
)

// Row is one observation in long form.
type Row struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

// Range is an inclusive year interval.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year falls inside the range.
func (r Range) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// Wide is the on-disk table shape: years as columns, countries as
// rows. Missing observations are NaN.
type Wide struct {
	Years     []int
	Countries []string
	series    map[string][]float64
}

// Series returns the per-year values for a country, aligned with
// Years. The second return is false for an unknown country.
func (w *Wide) Series(country string) ([]float64, bool) {
	s, ok := w.series[country]
	return s, ok
}

// Long reshapes the table into one row per present observation,
// ordered by country then year. Missing (NaN) cells are dropped.
func (w *Wide) Long() []Row {
	rows := make([]Row, 0, len(w.Countries)*len(w.Years))
	for _, country := range w.Countries {
		series := w.series[country]
		for i, year := range w.Years {
			if math.IsNaN(series[i]) {
				continue
			}
			rows = append(rows, Row{Country: country, Year: year, Value: series[i]})
		}
	}
	return rows
}

// FromLong reshapes long-form rows back into a wide table. Countries
// keep first-seen order; year columns are sorted. Cells without an
// observation are NaN.
func FromLong(rows []Row) *Wide {
	yearSet := map[int]struct{}{}
	var countries []string
	seen := map[string]struct{}{}
	for _, r := range rows {
		yearSet[r.Year] = struct{}{}
		if _, ok := seen[r.Country]; !ok {
			seen[r.Country] = struct{}{}
			countries = append(countries, r.Country)
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	col := make(map[int]int, len(years))
	for i, y := range years {
		col[y] = i
	}

	series := make(map[string][]float64, len(countries))
	for _, c := range countries {
		s := make([]float64, len(years))
		for i := range s {
			s[i] = math.NaN()
		}
		series[c] = s
	}
	for _, r := range rows {
		series[r.Country][col[r.Year]] = r.Value
	}

	return &Wide{Years: years, Countries: countries, series: series}
}

// Filter keeps rows whose country is in countries and whose year falls
// inside years. Row order is preserved. The graph core never validates
// the range; bounds checking belongs to the input layer.
func Filter(rows []Row, countries []string, years Range) []Row {
	want := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		want[c] = struct{}{}
	}

	var out []Row
	for _, r := range rows {
		if !years.Contains(r.Year) {
			continue
		}
		if _, ok := want[r.Country]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summary is a per-country five-number summary, the boxplot shape.
type Summary struct {
	Country string  `json:"country"`
	N       int     `json:"n"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
}

// Summarize computes a five-number summary per country, ordered by
// country name. Countries with no rows are absent.
func Summarize(rows []Row) []Summary {
	byCountry := map[string][]float64{}
	for _, r := range rows {
		byCountry[r.Country] = append(byCountry[r.Country], r.Value)
	}

	names := make([]string, 0, len(byCountry))
	for c := range byCountry {
		names = append(names, c)
	}
	sort.Strings(names)

	out := make([]Summary, 0, len(names))
	for _, c := range names {
		values := byCountry[c]
		sort.Float64s(values)
		out = append(out, Summary{
			Country: c,
			N:       len(values),
			Min:     values[0],
			Q1:      quantile(values, 0.25),
			Median:  quantile(values, 0.5),
			Q3:      quantile(values, 0.75),
			Max:     values[len(values)-1],
		})
	}
	return out
}

// quantile interpolates linearly over sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
