package cleanup

import (
	"go.uber.org/multierr"
)

// Report aggregates the outcomes of a whole run.
type Report struct {
	Outcomes      []Outcome
	LeavesScanned int
	WalkErrors    []error
}

// Add records the outcomes of one decision.
func (r *Report) Add(outcomes []Outcome) {
	r.LeavesScanned++
	r.Outcomes = append(r.Outcomes, outcomes...)
}

// AddWalkError records a directory that could not be listed.
func (r *Report) AddWalkError(err error) {
	r.WalkErrors = append(r.WalkErrors, err)
}

func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Err combines every deletion failure and walk error, or returns nil.
func (r *Report) Err() error {
	var err error
	for _, e := range r.WalkErrors {
		err = multierr.Append(err, e)
	}
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			err = multierr.Append(err, o.Err)
		}
	}
	return err
}
