// Package scrub implements the scrubbing phases applied to a loaded
// ontology and the engine that sequences them.
package scrub

import (
	"context"
	"log/slog"
	"time"

	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/owlscrubber/config"
	"github.com/c360studio/owlscrubber/ontology"
)

// Options selects the optional phases and how list entries are resolved.
type Options struct {
	// Namespace resolves bare identifiers from the deletion lists.
	Namespace string
	// Prefix is the compound-literal tag prefix, empty outside XML literal
	// mode.
	Prefix string
	// ScrubEmpty enables the empty-axiom phase.
	ScrubEmpty bool
	// KeepIndividuals disables individual suppression.
	KeepIndividuals bool
	// ConstructSynonyms derives SimplifyTarget values from the simplify list.
	ConstructSynonyms bool
	SimplifyTarget    string
	// Pretty skips every phase.
	Pretty bool
}

// OptionsFromConfig maps a validated Config to engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Namespace:         cfg.Namespace,
		Prefix:            cfg.TagPrefix(),
		ScrubEmpty:        cfg.Scrub.Empty,
		KeepIndividuals:   cfg.Scrub.KeepIndividuals,
		ConstructSynonyms: cfg.Scrub.ConstructSynonyms,
		SimplifyTarget:    cfg.Simplify.TargetProperty,
		Pretty:            cfg.Scrub.Pretty,
	}
}

// Engine runs the scrub phases over a graph. Phases run strictly in order
// and each commits its mutations before the next starts.
type Engine struct {
	opts    Options
	logger  *slog.Logger
	metrics *Metrics
}

// NewEngine creates an engine. metrics may be nil.
func NewEngine(opts Options, logger *slog.Logger, metrics *Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

type phase struct {
	name    string
	enabled bool
	run     func(*PhaseResult)
}

// Run applies the enabled phases to g: branch removal, complex-property
// rewriting, property removal, reference fixing, individual suppression
// and empty-axiom scrubbing. Malformed list entries and literals are
// recorded in the report and never stop the run. The only error returned
// is a cancelled ctx, checked between phases.
func (e *Engine) Run(ctx context.Context, g *ontology.Graph, lists *config.DeletionLists) (*Report, error) {
	if lists == nil {
		lists = &config.DeletionLists{}
	}
	start := time.Now()
	removed := ontology.NewRemovedSet()
	report := &Report{
		Removed:      removed,
		AxiomsBefore: g.Len(),
	}

	if e.opts.Pretty {
		e.logger.Info("Pretty print mode, skipping scrub phases")
		report.AxiomsAfter = g.Len()
		return report, nil
	}

	phases := []phase{
		{PhaseBranches, true, func(r *PhaseResult) { e.removeBranches(g, lists.Branches, removed, r) }},
		{PhaseComplex, true, func(r *PhaseResult) { e.rewriteComplex(g, lists, r) }},
		{PhaseProperties, true, func(r *PhaseResult) { e.removeProperties(g, lists.Properties, r) }},
		{PhaseReferences, true, func(r *PhaseResult) { e.fixReferences(g, removed, r) }},
		{PhaseIndividuals, !e.opts.KeepIndividuals, func(r *PhaseResult) { r.add(RemoveAllIndividuals(g)) }},
		{PhaseEmpty, e.opts.ScrubEmpty, func(r *PhaseResult) { r.add(RemoveEmptyAxioms(g)) }},
	}

	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			report.AxiomsAfter = g.Len()
			report.Duration = time.Since(start)
			return report, errs.WrapFatal(err, "scrub", "Run", "start phase "+p.name)
		}
		if !p.enabled {
			e.logger.Debug("Phase disabled", slog.String("phase", p.name))
			continue
		}

		e.logger.Info("Running phase", slog.String("phase", p.name))
		result := PhaseResult{Name: p.name}
		phaseStart := time.Now()
		p.run(&result)
		result.Duration = time.Since(phaseStart)

		report.Record(result)
		e.metrics.Observe(result)
		e.logger.Info("Phase complete",
			slog.String("phase", p.name),
			slog.Int("entities_removed", result.Entities),
			slog.Int("axioms_removed", result.Removed),
			slog.Int("axioms_added", result.Added),
			slog.Int("skipped", result.Skipped),
			slog.Duration("duration", result.Duration))
	}

	report.AxiomsAfter = g.Len()
	report.Duration = time.Since(start)
	return report, nil
}

func (e *Engine) skip(r *PhaseResult, err error) {
	r.fail(err)
	e.logger.Warn("Skipping entry", slog.String("phase", r.Name), slog.String("error", err.Error()))
}

func (e *Engine) removeBranches(g *ontology.Graph, lines []config.ListLine, removed *ontology.RemovedSet, r *PhaseResult) {
	idx := ontology.NewReferenceIndex(g)
	for _, line := range lines {
		root, err := ParseBranch(e.opts.Namespace, line)
		if err != nil {
			e.skip(r, err)
			continue
		}
		ids, change := RemoveBranch(g, idx, removed, root)
		r.add(change)
		if len(ids) == 0 {
			e.logger.Info("Branch root not present", slog.String("class", root.String()))
			continue
		}
		e.logger.Info("Removed branch", slog.String("root", root.String()), slog.Int("classes", len(ids)))
		for _, id := range ids {
			e.logger.Debug("Removed class", slog.String("class", id.String()))
		}
	}
}

func (e *Engine) rewriteComplex(g *ontology.Graph, lists *config.DeletionLists, r *PhaseResult) {
	if e.opts.ConstructSynonyms {
		target := ontology.Resolve(e.opts.Namespace, e.opts.SimplifyTarget)
		for _, line := range lists.Simplify {
			entry, err := ParseSimplify(e.opts.Namespace, line)
			if err != nil {
				e.skip(r, err)
				continue
			}
			change, err := DeriveCleanProperty(g, target, entry, e.opts.Prefix)
			r.add(change)
			e.absorb(r, err)
			e.logger.Debug("Derived clean property",
				slog.String("source", entry.Property.Fragment()),
				slog.String("target", target.Fragment()),
				slog.Int("added", change.Added))
		}
	}

	for _, line := range lists.Complex {
		entry, err := ParseComplex(e.opts.Namespace, line)
		if err != nil {
			e.skip(r, err)
			continue
		}
		change, err := StripSubTag(g, entry, e.opts.Prefix)
		r.add(change)
		e.absorb(r, err)
		e.logger.Debug("Stripped sub-tag",
			slog.String("property", entry.Property.Fragment()),
			slog.String("tag", entry.Tag),
			slog.Int("rewritten", change.Added))
	}
}

func (e *Engine) removeProperties(g *ontology.Graph, lines []config.ListLine, r *PhaseResult) {
	for _, line := range lines {
		entry, err := ParseProperty(e.opts.Namespace, line)
		if err != nil {
			e.skip(r, err)
			continue
		}
		change := RemoveProperty(g, entry, e.opts.Prefix)
		r.add(change)
		e.logger.Debug("Removed property axioms",
			slog.String("property", entry.Property.Fragment()),
			slog.Int("qualifiers", len(entry.Qualifiers)),
			slog.Int("removed", change.Removed))
	}
}

func (e *Engine) fixReferences(g *ontology.Graph, removed *ontology.RemovedSet, r *PhaseResult) {
	removed.Freeze()
	for _, a := range FixDanglingReferences(g, removed, e.opts.Namespace) {
		r.Removed++
		e.logger.Info("Removed association",
			slog.String("class", a.Subject.String()),
			slog.String("property", a.Property.Fragment()),
			slog.String("value", a.Literal.Value))
	}
}

// absorb records errors already counted as skipped by the operation.
func (e *Engine) absorb(r *PhaseResult, err error) {
	if err == nil {
		return
	}
	r.absorb(err)
	e.logger.Warn("Skipped malformed literals", slog.String("phase", r.Name), slog.String("error", err.Error()))
}
