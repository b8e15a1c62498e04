package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/c360studio/semstreams/metric"
	"github.com/google/uuid"

	"github.com/c360studio/owlscrubber/config"
	"github.com/c360studio/owlscrubber/export"
	"github.com/c360studio/owlscrubber/flatfile"
	"github.com/c360studio/owlscrubber/ontology"
	"github.com/c360studio/owlscrubber/rdfio"
	"github.com/c360studio/owlscrubber/reasoner"
	"github.com/c360studio/owlscrubber/scrub"
	"github.com/c360studio/owlscrubber/storage"
)

// App wires one scrub run: load, scrub, flat file, persist.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *scrub.Metrics

	// store serves s3:// locations; nil when no endpoint is configured.
	store storage.ObjectStore
}

// NewApp validates cfg and creates an application instance. registry may
// be nil to disable metrics.
func NewApp(cfg *config.Config, logger *slog.Logger, registry metric.MetricsRegistrar) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errs.WrapInvalid(fmt.Errorf("invalid configuration: %w", err), "app", "NewApp", "validate configuration")
	}
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{cfg: cfg, logger: logger}

	if registry != nil {
		m, err := scrub.NewMetrics(registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		app.metrics = m
	}

	if cfg.S3.Endpoint != "" {
		s, err := storage.NewS3Store(cfg.S3)
		if err != nil {
			return nil, errs.WrapFatal(err, "app", "NewApp", "create object store")
		}
		app.store = s
	}
	return app, nil
}

// Run performs a complete scrub run. The returned report is non-nil
// whenever the ontology was loaded, even if a later step failed.
func (a *App) Run(ctx context.Context) (*scrub.Report, error) {
	cfg := a.cfg
	start := time.Now()
	logger := a.logger.With("run_id", uuid.New().String())

	input, err := storage.ParseLocation(cfg.Input)
	if err != nil {
		return nil, errs.WrapInvalid(err, "app", "Run", "parse input location")
	}
	output, err := storage.ParseLocation(cfg.Output)
	if err != nil {
		return nil, errs.WrapInvalid(err, "app", "Run", "parse output location")
	}
	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return nil, errs.WrapInvalid(err, "app", "Run", "parse output format")
	}

	lists := &config.DeletionLists{}
	if !cfg.Scrub.Pretty {
		lists, err = config.LoadLists(cfg.Lists)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded deletion lists",
			"entries", lists.Total(),
			"branches", len(lists.Branches),
			"properties", len(lists.Properties),
			"complex", len(lists.Complex),
			"simplify", len(lists.Simplify))
	}

	logger.Info("Loading ontology", "input", input.String())
	g, err := rdfio.LoadLocation(ctx, input, export.Format(cfg.InputFormat), a.store)
	if err != nil {
		return nil, err
	}
	logger.Info("Ontology loaded",
		"iri", g.IRI.String(),
		"entities", g.EntityCount(),
		"axioms", g.Len())

	engine := scrub.NewEngine(scrub.OptionsFromConfig(cfg), logger, a.metrics)
	report, err := engine.Run(ctx, g, lists)
	if err != nil {
		return report, err
	}

	if cfg.Flat.Output != "" && !cfg.Scrub.Pretty {
		if err := a.writeFlat(ctx, g, report, logger); err != nil {
			return report, err
		}
	}

	if err := a.persist(ctx, g, output, format, report, logger); err != nil {
		return report, err
	}

	report.Duration = time.Since(start)
	if report.Err() != nil {
		logger.Warn("Run finished with skipped entries", "errors", report.Totals().ErrorCount())
	}
	logger.Info("Scrub complete",
		"output", output.String(),
		"classes_removed", report.Removed.Len(),
		"axioms_before", report.AxiomsBefore,
		"axioms_after", report.AxiomsAfter,
		"duration", report.Duration)
	return report, nil
}

func (a *App) writeFlat(ctx context.Context, g *ontology.Graph, report *scrub.Report, logger *slog.Logger) error {
	start := time.Now()
	cfg := a.cfg

	loc, err := storage.ParseLocation(cfg.Flat.Output)
	if err != nil {
		return errs.WrapInvalid(err, "app", "writeFlat", "parse flat file location")
	}
	gen, err := flatfile.NewGenerator(g, reasoner.NewTold(), flatfile.FieldsFromConfig(cfg),
		cfg.TagPrefix(), cfg.Flat.CacheSize, logger)
	if err != nil {
		return errs.WrapFatal(err, "app", "writeFlat", "create generator")
	}

	out, err := storage.Create(loc, a.store)
	if err != nil {
		return errs.WrapFatal(err, "app", "writeFlat", "open flat file")
	}
	n, err := gen.WriteTo(out)
	if err != nil {
		if aerr := out.Abort(); aerr != nil {
			logger.Warn("Failed to close flat file", "error", aerr)
		}
		return errs.WrapFatal(err, "app", "writeFlat", "write flat file")
	}
	if err := out.Commit(ctx); err != nil {
		return errs.WrapFatal(err, "app", "writeFlat", "publish flat file")
	}

	a.record(report, scrub.PhaseResult{Name: scrub.PhaseFlat, Duration: time.Since(start)})
	logger.Info("Flat file written", "location", out.Location().String(), "bytes", n)
	return nil
}

func (a *App) persist(ctx context.Context, g *ontology.Graph, loc storage.Location, format export.Format,
	report *scrub.Report, logger *slog.Logger) error {
	start := time.Now()

	out, err := storage.Create(loc, a.store)
	if err != nil {
		return errs.WrapFatal(err, "app", "persist", "open output")
	}
	prefixes := export.Prefixes(a.cfg.TagPrefix(), a.cfg.Prefixes)
	if err := export.Store(out, g, format, prefixes); err != nil {
		if aerr := out.Abort(); aerr != nil {
			logger.Warn("Failed to close output", "error", aerr)
		}
		return errs.WrapFatal(err, "app", "persist", "store ontology")
	}
	if err := out.Commit(ctx); err != nil {
		return errs.WrapFatal(err, "app", "persist", "publish output")
	}

	report.AxiomsAfter = g.Len()
	a.record(report, scrub.PhaseResult{Name: scrub.PhasePersist, Duration: time.Since(start)})
	info, _ := export.GetFormatInfo(format)
	logger.Info("Ontology saved",
		"location", out.Location().String(),
		"format", string(format),
		"media_type", info.MIMEType)
	return nil
}

func (a *App) record(report *scrub.Report, p scrub.PhaseResult) {
	report.Record(p)
	a.metrics.Observe(p)
}
