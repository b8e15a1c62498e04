package scrub

import (
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/c360studio/owlscrubber/ontology"
)

// Phase names, in execution order.
const (
	PhaseBranches    = "branches"
	PhaseComplex     = "complex"
	PhaseProperties  = "properties"
	PhaseReferences  = "references"
	PhaseIndividuals = "individuals"
	PhaseEmpty       = "empty"
	PhaseFlat        = "flat"
	PhasePersist     = "persist"
)

// Change counts the graph mutations made by one operation.
type Change struct {
	// Entities is the number of declared entities removed.
	Entities int
	// Removed and Added count axioms.
	Removed int
	Added   int
	// Skipped counts items left alone because they could not be processed.
	Skipped int
}

func (c *Change) add(o Change) {
	c.Entities += o.Entities
	c.Removed += o.Removed
	c.Added += o.Added
	c.Skipped += o.Skipped
}

// PhaseResult summarizes one phase of a run.
type PhaseResult struct {
	Name string
	Change
	Duration time.Duration
	// Errors aggregates the recoverable errors of the phase, nil when there
	// were none.
	Errors error
}

// ErrorCount returns the number of recoverable errors recorded.
func (p PhaseResult) ErrorCount() int {
	if p.Errors == nil {
		return 0
	}
	var merr *multierror.Error
	if errors.As(p.Errors, &merr) {
		return merr.Len()
	}
	return 1
}

// fail records a skipped entry.
func (p *PhaseResult) fail(err error) {
	p.Errors = multierror.Append(p.Errors, err)
	p.Skipped++
}

// absorb merges the errors of an operation that already counted its skips.
func (p *PhaseResult) absorb(err error) {
	if err == nil {
		return
	}
	p.Errors = multierror.Append(p.Errors, err)
}

// Report is the outcome of a scrub run.
type Report struct {
	Phases []PhaseResult
	// Removed holds every class deleted by branch removal. It is frozen once
	// reference fixing starts.
	Removed      *ontology.RemovedSet
	AxiomsBefore int
	AxiomsAfter  int
	Duration     time.Duration
}

// Record appends a phase result.
func (r *Report) Record(p PhaseResult) {
	r.Phases = append(r.Phases, p)
}

// Phase returns the result of the named phase.
func (r *Report) Phase(name string) (PhaseResult, bool) {
	for _, p := range r.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return PhaseResult{}, false
}

// Totals sums the counters of every recorded phase.
func (r *Report) Totals() PhaseResult {
	total := PhaseResult{Name: "total"}
	for _, p := range r.Phases {
		total.add(p.Change)
		total.Duration += p.Duration
		total.absorb(p.Errors)
	}
	return total
}

// Err returns every recoverable error of the run, or nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, p := range r.Phases {
		if p.Errors != nil {
			result = multierror.Append(result, p.Errors)
		}
	}
	return result.ErrorOrNil()
}
