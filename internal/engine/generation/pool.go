package generation

import (
	"context"

	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/mayer2014/appserver/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Pool runs work chunks through the generator concurrently. One worker is
// started per chunk; within a worker the chunk's structures are processed
// sequentially, with no ordering guarantee across workers.
type Pool struct {
	generator ports.Generator
	store     ports.ArtifactStore
	telemetry ports.Telemetry
	logger    ports.Logger
}

// NewPool creates a Pool over the given collaborators. The generator and
// store handles are shared read-only across workers; identifier uniqueness
// and disjoint chunk membership guarantee that no two workers ever write the
// same artifact path.
func NewPool(generator ports.Generator, store ports.ArtifactStore, telemetry ports.Telemetry, logger ports.Logger) *Pool {
	return &Pool{
		generator: generator,
		store:     store,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Run dispatches one worker per chunk and blocks until every worker has
// completed. A generation error for one identifier is reported and the
// worker continues with the remainder of its chunk; already written
// artifacts stay on disk. The aggregated report is only assembled after the
// full join, never surfaced mid-run.
func (p *Pool) Run(ctx context.Context, chunks []domain.Chunk) *domain.Report {
	// Each worker writes only its own slot, so aggregation needs no locks.
	outcomes := make([][]domain.Outcome, len(chunks))

	var g errgroup.Group
	for i, chunk := range chunks {
		g.Go(func() error {
			outcomes[i] = p.runChunk(ctx, chunk)
			return nil
		})
	}
	// Workers never return errors through the group; failures are carried
	// per identifier in the outcome slots.
	_ = g.Wait()

	report := &domain.Report{}
	for _, chunkOutcomes := range outcomes {
		for _, o := range chunkOutcomes {
			report.Add(o)
		}
	}
	return report
}

func (p *Pool) runChunk(ctx context.Context, chunk domain.Chunk) []domain.Outcome {
	outcomes := make([]domain.Outcome, 0, len(chunk))
	for _, s := range chunk {
		_, vertex := p.telemetry.Record(ctx, "generate "+s.Identifier)

		err := p.generator.Generate(ctx, s, p.store)
		vertex.Complete(err)
		if err != nil {
			p.logger.Error(err)
		}

		outcomes = append(outcomes, domain.Outcome{Identifier: s.Identifier, Err: err})
	}
	return outcomes
}
