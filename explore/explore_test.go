package explore

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalstat/lifelens/dataset"
)

type captureEmitter struct {
	frames []Frame
}

func (e *captureEmitter) Emit(f Frame) { e.frames = append(e.frames, f) }

func (e *captureEmitter) kinds() []string {
	out := make([]string, len(e.frames))
	for i, f := range e.frames {
		out[i] = f.Kind
	}
	return out
}

func testTable(t *testing.T) *dataset.Wide {
	t.Helper()
	return dataset.FromLong([]dataset.Row{
		{Country: "Sweden", Year: 1900, Value: 52.2},
		{Country: "Sweden", Year: 1950, Value: 71.1},
		{Country: "Sweden", Year: 2000, Value: 79.8},
		{Country: "Norway", Year: 1900, Value: 54.0},
		{Country: "Norway", Year: 1950, Value: 72.3},
		{Country: "Norway", Year: 2000, Value: 78.7},
	})
}

func TestSession(t *testing.T) {
	t.Run("first flush renders initial view", func(t *testing.T) {
		emit := &captureEmitter{}
		s := NewSession(testTable(t), emit, zerolog.Nop())
		defer s.Close()

		require.NoError(t, s.Flush())
		assert.Equal(t, []string{"plot", "table"}, emit.kinds())

		plot, ok := emit.frames[0].Payload.(PlotPayload)
		require.True(t, ok)
		assert.Len(t, plot.Series, 2)
		assert.Len(t, plot.Summaries, 2)

		table, ok := emit.frames[1].Payload.(TablePayload)
		require.True(t, ok)
		assert.Len(t, table.Rows, 6)
	})

	t.Run("country change rerenders both sinks once", func(t *testing.T) {
		emit := &captureEmitter{}
		s := NewSession(testTable(t), emit, zerolog.Nop())
		defer s.Close()

		require.NoError(t, s.Flush())
		emit.frames = nil

		require.NoError(t, s.Apply(Input{Countries: []string{"Sweden"}}))
		assert.Equal(t, []string{"plot", "table"}, emit.kinds())

		table := emit.frames[1].Payload.(TablePayload)
		assert.Len(t, table.Rows, 3)
		for _, r := range table.Rows {
			assert.Equal(t, "Sweden", r.Country)
		}
	})

	t.Run("year range narrows the view", func(t *testing.T) {
		emit := &captureEmitter{}
		s := NewSession(testTable(t), emit, zerolog.Nop())
		defer s.Close()

		require.NoError(t, s.Flush())
		emit.frames = nil

		require.NoError(t, s.Apply(Input{YearRange: &dataset.Range{From: 1950, To: 2000}}))

		table := emit.frames[1].Payload.(TablePayload)
		assert.Len(t, table.Rows, 4)
		assert.Equal(t, dataset.Range{From: 1950, To: 2000}, s.YearRange())
	})

	t.Run("identical selection renders nothing", func(t *testing.T) {
		emit := &captureEmitter{}
		s := NewSession(testTable(t), emit, zerolog.Nop())
		defer s.Close()

		require.NoError(t, s.Flush())
		emit.frames = nil

		require.NoError(t, s.Apply(Input{Countries: []string{"Sweden", "Norway"}}))
		assert.Empty(t, emit.frames)
	})

	t.Run("rejects unknown country without writing", func(t *testing.T) {
		emit := &captureEmitter{}
		s := NewSession(testTable(t), emit, zerolog.Nop())
		defer s.Close()

		require.NoError(t, s.Flush())
		emit.frames = nil

		err := s.Apply(Input{Countries: []string{"Atlantis"}})
		assert.ErrorContains(t, err, "unknown country")
		assert.Empty(t, emit.frames)
		assert.Equal(t, []string{"Sweden", "Norway"}, s.Countries())
	})

	t.Run("rejects out of bounds and inverted ranges", func(t *testing.T) {
		emit := &captureEmitter{}
		s := NewSession(testTable(t), emit, zerolog.Nop())
		defer s.Close()

		err := s.Apply(Input{YearRange: &dataset.Range{From: 1700, To: 2000}})
		assert.ErrorContains(t, err, "outside dataset span")

		err = s.Apply(Input{YearRange: &dataset.Range{From: 2000, To: 1900}})
		assert.ErrorContains(t, err, "inverted")
	})

	t.Run("rejects empty country list", func(t *testing.T) {
		emit := &captureEmitter{}
		s := NewSession(testTable(t), emit, zerolog.Nop())
		defer s.Close()

		err := s.Apply(Input{Countries: []string{}})
		assert.ErrorContains(t, err, "invalid input")
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		e1, e2 := &captureEmitter{}, &captureEmitter{}
		s1 := NewSession(testTable(t), e1, zerolog.Nop())
		defer s1.Close()
		s2 := NewSession(testTable(t), e2, zerolog.Nop())
		defer s2.Close()

		require.NoError(t, s1.Flush())
		require.NoError(t, s2.Flush())
		e1.frames, e2.frames = nil, nil

		require.NoError(t, s1.Apply(Input{Countries: []string{"Sweden"}}))

		assert.Len(t, e1.frames, 2)
		assert.Empty(t, e2.frames)
		assert.NotEqual(t, s1.ID, s2.ID)
	})
}
