package explore

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vitalstat/lifelens/dataset"
)

// Input is one user interaction event. Nil fields leave the matching
// signal untouched, so a countries-only event does not disturb the
// year window.
type Input struct {
	Countries []string       `json:"countries" validate:"omitempty,min=1,dive,required"`
	YearRange *dataset.Range `json:"year_range" validate:"omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Apply validates the event, writes the matching signals, and flushes
// once. Input validation lives here, on the input-collection side; the
// graph itself never checks ranges. A rejected event writes nothing.
func (s *Session) Apply(in Input) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("explore: invalid input: %w", err)
	}
	// omitempty treats a present-but-empty list as absent; an explicit
	// empty selection is still a client error.
	if in.Countries != nil && len(in.Countries) == 0 {
		return fmt.Errorf("explore: invalid input: empty country selection")
	}
	for _, c := range in.Countries {
		if !s.hasCountry(c) {
			return fmt.Errorf("explore: unknown country %q", c)
		}
	}
	if r := in.YearRange; r != nil {
		if r.From > r.To {
			return fmt.Errorf("explore: year range %d-%d is inverted", r.From, r.To)
		}
		if r.From < s.bounds.From || r.To > s.bounds.To {
			return fmt.Errorf("explore: year range %d-%d outside dataset span %d-%d",
				r.From, r.To, s.bounds.From, s.bounds.To)
		}
	}

	s.log.Debug().
		Strs("countries", in.Countries).
		Interface("year_range", in.YearRange).
		Msg("applying input")

	return s.graph.Batch(func() {
		if in.Countries != nil {
			s.countries.Write(in.Countries)
		}
		if in.YearRange != nil {
			s.yearRange.Write(*in.YearRange)
		}
	})
}
