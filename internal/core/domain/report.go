package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// Outcome is the result of one generator invocation.
type Outcome struct {
	// Identifier is the structure the generator was invoked for.
	Identifier string
	// Err is the generation error, nil on success.
	Err error
}

// Report aggregates the per-identifier outcomes of one generation pass.
// Failures are isolated: a failed identifier never retracts the artifacts of
// the identifiers that succeeded.
type Report struct {
	// Generated lists the identifiers whose artifacts were written.
	Generated []string
	// Failed lists the identifiers whose generation failed, with their errors.
	Failed []Outcome
}

// Add records one outcome.
func (r *Report) Add(o Outcome) {
	if o.Err != nil {
		r.Failed = append(r.Failed, o)
		return
	}
	r.Generated = append(r.Generated, o.Identifier)
}

// Err returns nil when every identifier succeeded, otherwise the joined
// per-identifier errors annotated with their identifiers.
func (r *Report) Err() error {
	var errs error
	for _, o := range r.Failed {
		wrapped := zerr.With(zerr.Wrap(o.Err, "structure generation failed"), "identifier", o.Identifier)
		errs = errors.Join(errs, wrapped)
	}
	return errs
}
