// Package explore wires one user session: country and year-range
// input signals, a filtered view of the life-expectancy table, and the
// plot/table sinks that push render frames to the display collaborator.
//
// A Session owns a private reactive graph confined to the goroutine
// that created it; nothing reactive is shared between sessions.
package explore

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vitalstat/lifelens/dataset"
	"github.com/vitalstat/lifelens/reactive"
)

// Frame is one rendered artifact pushed to the display side.
type Frame struct {
	Kind    string `json:"kind"` // "plot" or "table"
	Session string `json:"session"`
	Payload any    `json:"payload"`
}

// Emitter is the render backend: purely a function of the frame it is
// handed, invoked synchronously by a flushing sink.
type Emitter interface {
	Emit(Frame)
}

// Point is one plotted observation.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series is one country's line.
type Series struct {
	Country string  `json:"country"`
	Points  []Point `json:"points"`
}

// PlotPayload feeds the line plot and the boxplot.
type PlotPayload struct {
	Series    []Series          `json:"series"`
	Summaries []dataset.Summary `json:"summaries"`
}

// TablePayload feeds the data table.
type TablePayload struct {
	Rows []dataset.Row `json:"rows"`
}

// Session is one user's private exploration state.
type Session struct {
	ID string

	log   zerolog.Logger
	graph *reactive.Graph

	rows   []dataset.Row
	bounds dataset.Range
	known  map[string]struct{}

	countries *reactive.Signal[[]string]
	yearRange *reactive.Signal[dataset.Range]
	filtered  *reactive.Computed[[]dataset.Row]
	summary   *reactive.Computed[[]dataset.Summary]
}

// NewSession builds the session graph over an already loaded table.
// Call it on the goroutine that will drive the session; the graph is
// confined to it. The initial view selects every country over the full
// year span; nothing renders until the first Flush.
func NewSession(table *dataset.Wide, emit Emitter, log zerolog.Logger) *Session {
	s := &Session{
		ID:    uuid.NewString(),
		graph: reactive.New(),
		rows:  table.Long(),
		known: make(map[string]struct{}, len(table.Countries)),
	}
	if len(table.Years) > 0 {
		s.bounds = dataset.Range{From: table.Years[0], To: table.Years[len(table.Years)-1]}
	}
	for _, c := range table.Countries {
		s.known[c] = struct{}{}
	}
	s.log = log.With().Str("session", s.ID).Logger()

	s.countries = reactive.NewSignal(s.graph, append([]string(nil), table.Countries...), reactive.WithName("countries"))
	s.yearRange = reactive.NewSignal(s.graph, s.bounds, reactive.WithName("yearRange"))

	s.filtered = reactive.NewComputed(s.graph, func() []dataset.Row {
		return dataset.Filter(s.rows, s.countries.Read(), s.yearRange.Read())
	}, reactive.WithName("filtered"))

	s.summary = reactive.NewComputed(s.graph, func() []dataset.Summary {
		return dataset.Summarize(s.filtered.Read())
	}, reactive.WithName("summary"))

	reactive.NewSink(s.graph, "plot", []reactive.Dep{s.filtered, s.summary}, func() {
		emit.Emit(s.plotFrame())
	})
	reactive.NewSink(s.graph, "table", []reactive.Dep{s.filtered}, func() {
		emit.Emit(s.tableFrame())
	})

	s.log.Debug().Int("rows", len(s.rows)).Msg("session graph built")
	return s
}

func (s *Session) plotFrame() Frame {
	rows := s.filtered.Read()

	var series []Series
	byCountry := map[string]int{}
	for _, r := range rows {
		i, ok := byCountry[r.Country]
		if !ok {
			i = len(series)
			byCountry[r.Country] = i
			series = append(series, Series{Country: r.Country})
		}
		series[i].Points = append(series[i].Points, Point{Year: r.Year, Value: r.Value})
	}

	return Frame{
		Kind:    "plot",
		Session: s.ID,
		Payload: PlotPayload{Series: series, Summaries: s.summary.Read()},
	}
}

func (s *Session) tableFrame() Frame {
	return Frame{
		Kind:    "table",
		Session: s.ID,
		Payload: TablePayload{Rows: s.filtered.Read()},
	}
}

// Flush runs one propagation cycle, rendering every sink whose inputs
// changed. The first call renders the initial view.
func (s *Session) Flush() error {
	return s.graph.Flush()
}

// Close tears down the session graph.
func (s *Session) Close() {
	s.graph.Close()
}

// Countries reports the current selection.
func (s *Session) Countries() []string { return s.countries.Read() }

// YearRange reports the current year window.
func (s *Session) YearRange() dataset.Range { return s.yearRange.Read() }

// Bounds reports the dataset's full year span.
func (s *Session) Bounds() dataset.Range { return s.bounds }

func (s *Session) hasCountry(c string) bool {
	_, ok := s.known[c]
	return ok
}
