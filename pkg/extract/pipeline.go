package extract

import (
	"context"
	"errors"
	"log/slog"

	"biograph/pkg/biography"
)

// Source is the text handed to one extraction run, already normalized by
// the upstream collaborators. Composite cells mixing date, age and place in
// one string are an expected shape.
type Source struct {
	PersonName string
	BirthCell  string
	DeathCell  string
	Body       string
	Fields     map[string]string
	Categories []string
}

// Pipeline runs the four extractors over one Source and aggregates the
// result. The extractors have no data dependency on each other, so they run
// as independent jobs on a fixed worker pool, joined before aggregation.
// A pipeline holds no per-run state and may be reused across people.
type Pipeline struct {
	BirthDates *DateLocationExtractor
	DeathDates *DateLocationExtractor
	Timeline   *TimelineExtractor
	Relations  *RelationExtractor

	// Workers is the fixed pool size; defaults to one goroutine per
	// extraction job.
	Workers int
	Log     *slog.Logger
}

// NewPipeline wires the default extractors. Both date extractors use the
// country+city two-token policy; override the fields to change behavior.
// logger may be nil for silent operation.
func NewPipeline(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		BirthDates: NewDateLocationExtractor(CountryCity, logger),
		DeathDates: NewDateLocationExtractor(CountryCity, logger),
		Timeline:   NewTimelineExtractor(logger),
		Relations:  NewRelationExtractor(nil, logger),
		Workers:    4,
		Log:        logger,
	}
}

// Run extracts all facts from src and builds the immutable record. A fresh
// aggregator is created per call, so one pipeline can serve a batch. Date
// extraction failures degrade to absent sub-records; only context
// cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context, src Source) (biography.Record, error) {
	var (
		birth, death biography.DateLocation
		deathAge     int
		timeline     biography.Timeline
		relations    biography.RelationGraph
	)

	jobs := []Job{
		func(context.Context) error {
			if src.BirthCell == "" {
				return nil
			}
			dl, _, err := p.BirthDates.Extract(src.BirthCell)
			if err != nil {
				return err
			}
			birth = dl
			return nil
		},
		func(context.Context) error {
			if src.DeathCell == "" {
				return nil
			}
			dl, age, err := p.DeathDates.Extract(src.DeathCell)
			if err != nil {
				return err
			}
			death, deathAge = dl, age
			return nil
		},
		func(context.Context) error {
			timeline = p.Timeline.Extract(src.Body)
			return nil
		},
		func(context.Context) error {
			relations = p.Relations.Extract(src.PersonName, src.Body)
			return nil
		},
	}

	workers := p.Workers
	if workers <= 0 {
		workers = len(jobs)
	}
	pool := NewWorkerPool(workers, len(jobs))
	pool.Start(ctx)

	// Each job writes to its own slot; errs[i] belongs to jobs[i], so there
	// is no shared mutable state between workers.
	errs := make([]error, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		if err := pool.SubmitCtx(ctx, func(jctx context.Context) error {
			errs[i] = job(jctx)
			return errs[i]
		}); err != nil {
			pool.Close()
			return biography.Record{}, err
		}
	}
	pool.Close()

	if err := ctx.Err(); err != nil {
		return biography.Record{}, err
	}
	for _, err := range errs {
		// Missing dates are already logged at warning level by the
		// extractor; they surface here as absent sub-records.
		if err != nil && !errors.Is(err, ErrNoDate) {
			return biography.Record{}, err
		}
	}

	agg := biography.NewAggregator(p.Log)
	return agg.Build(biography.Input{
		PersonName: src.PersonName,
		Fields:     src.Fields,
		Birth:      birth,
		Death:      death,
		DeathAge:   deathAge,
		Timeline:   timeline,
		Relations:  relations,
		Categories: src.Categories,
	})
}
