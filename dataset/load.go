package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// LoadError reports a failed table load with file position context.
// It always surfaces before any reactive node is constructed, so a
// session never starts over a partially loaded table.
type LoadError struct {
	Path   string
	Line   int // 1-based, 0 when not row-specific
	Column int // 1-based, 0 when not cell-specific
	Msg    string
	Err    error
}

func (e *LoadError) Error() string {
	at := e.Path
	if e.Line > 0 {
		at = fmt.Sprintf("%s:%d", at, e.Line)
		if e.Column > 0 {
			at = fmt.Sprintf("%s col %d", at, e.Column)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("dataset: %s: %s: %v", at, e.Msg, e.Err)
	}
	return fmt.Sprintf("dataset: %s: %s", at, e.Msg)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads a wide-form CSV: a "country" column followed by one
// column per year, one row per country. Empty cells are kept as
// missing observations (NaN); anything else malformed fails the whole
// load.
func Load(path string) (*Wide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Msg: "open", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: path, Msg: "parse csv", Err: err}
	}
	if len(records) < 2 {
		return nil, &LoadError{Path: path, Msg: "table needs a header and at least one country row"}
	}

	header := records[0]
	if len(header) < 2 || !strings.EqualFold(header[0], "country") {
		return nil, &LoadError{Path: path, Line: 1, Msg: `header must be "country" followed by year columns`}
	}

	years := make([]int, len(header)-1)
	for i, cell := range header[1:] {
		year, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			return nil, &LoadError{Path: path, Line: 1, Column: i + 2, Msg: fmt.Sprintf("year column %q", cell), Err: err}
		}
		years[i] = year
	}

	w := &Wide{
		Years:  years,
		series: make(map[string][]float64, len(records)-1),
	}
	for i, record := range records[1:] {
		line := i + 2
		if len(record) != len(header) {
			return nil, &LoadError{Path: path, Line: line, Msg: fmt.Sprintf("row has %d cells, header has %d", len(record), len(header))}
		}
		country := strings.TrimSpace(record[0])
		if country == "" {
			return nil, &LoadError{Path: path, Line: line, Column: 1, Msg: "empty country name"}
		}
		if _, dup := w.series[country]; dup {
			return nil, &LoadError{Path: path, Line: line, Column: 1, Msg: fmt.Sprintf("duplicate country %q", country)}
		}

		series := make([]float64, len(years))
		for j, cell := range record[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				series[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &LoadError{Path: path, Line: line, Column: j + 2, Msg: fmt.Sprintf("value %q", cell), Err: err}
			}
			series[j] = v
		}

		w.Countries = append(w.Countries, country)
		w.series[country] = series
	}

	return w, nil
}
