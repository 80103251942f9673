package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vitalstat/lifelens/dataset"
)

var (
	filterCountries []string
	filterFrom      int
	filterTo        int
	filterFormat    string
	filterSummary   bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Run a one-off filter query against the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}

		countries := filterCountries
		if len(countries) == 0 {
			countries = table.Countries
		}
		years := dataset.Range{From: filterFrom, To: filterTo}
		if years.To == 0 && len(table.Years) > 0 {
			years = dataset.Range{From: table.Years[0], To: table.Years[len(table.Years)-1]}
		}

		rows := dataset.Filter(table.Long(), countries, years)

		if filterSummary {
			return printSummaries(dataset.Summarize(rows))
		}
		if filterFormat == "csv" {
			return printCSV(rows)
		}
		return printRows(rows)
	},
}

func init() {
	filterCmd.Flags().StringSliceVar(&filterCountries, "countries", nil, "countries to keep (default: all)")
	filterCmd.Flags().IntVar(&filterFrom, "from", 0, "first year (default: dataset start)")
	filterCmd.Flags().IntVar(&filterTo, "to", 0, "last year (default: dataset end)")
	filterCmd.Flags().StringVar(&filterFormat, "format", "table", "output format: table or csv")
	filterCmd.Flags().BoolVar(&filterSummary, "summary", false, "print per-country five-number summaries instead of rows")
}

func printRows(rows []dataset.Row) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTRY\tYEAR\tLIFE EXPECTANCY")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%.1f\n", r.Country, r.Year, r.Value)
	}
	return w.Flush()
}

func printCSV(rows []dataset.Row) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"country", "year", "value"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Country, strconv.Itoa(r.Year), strconv.FormatFloat(r.Value, 'f', -1, 64)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printSummaries(summaries []dataset.Summary) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTRY\tN\tMIN\tQ1\tMEDIAN\tQ3\tMAX")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			s.Country, s.N, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
	return w.Flush()
}
