package arena

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle discovered during evaluation.
// The graph must stay acyclic; re-entering a node's evaluation from
// within its own pass fails with this error instead of recursing.
type CycleError struct {
	// Path lists node names along the cycle, first and last identical.
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("arena: dependency cycle: %s", strings.Join(e.Path, " -> "))
}

// SinkError wraps one sink's failure during a flush.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// FlushError aggregates the failures of a single flush cycle. Sinks
// that failed are listed in visit order; all other sinks rendered.
type FlushError struct {
	Sinks []*SinkError
}

func (e *FlushError) Error() string {
	msgs := make([]string, len(e.Sinks))
	for i, s := range e.Sinks {
		msgs[i] = s.Error()
	}
	return fmt.Sprintf("arena: flush: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes the per-sink errors to errors.Is / errors.As.
func (e *FlushError) Unwrap() []error {
	errs := make([]error, len(e.Sinks))
	for i, s := range e.Sinks {
		errs[i] = s
	}
	return errs
}
