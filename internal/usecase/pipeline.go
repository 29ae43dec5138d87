package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"GameNewsBot/internal/domain"
	"GameNewsBot/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Sources       []ports.ArticleSource
	Selection     *SelectionEngine
	Store         ports.NewsStore
	Publisher     ports.Publisher
	SourceTimeout time.Duration
	Logger        *slog.Logger
}

// Pipeline runs one publication tick: collect, select, deliver, record.
type Pipeline struct {
	sources       []ports.ArticleSource
	selection     *SelectionEngine
	store         ports.NewsStore
	publisher     ports.Publisher
	sourceTimeout time.Duration
	logger        *slog.Logger

	mu          sync.Mutex
	lastOutcome domain.TickOutcome
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	timeout := deps.SourceTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Pipeline{
		sources:       deps.Sources,
		selection:     deps.Selection,
		store:         deps.Store,
		publisher:     deps.Publisher,
		sourceTimeout: timeout,
		logger:        deps.Logger,
		lastOutcome:   domain.TickNone,
	}
}

// Run executes a single tick. It never returns an error: every failure mode
// is an outcome, logged and retried on the next scheduled tick.
func (p *Pipeline) Run(ctx context.Context) domain.TickOutcome {
	batch := p.collect(ctx)

	record, fromReserve, err := p.selection.SelectAndReserve(ctx, batch)
	if err != nil {
		// The store could not answer "already posted?"; assuming "no"
		// risks a duplicate publication, so the tick is skipped.
		p.logger.Error("selection aborted, skipping tick", "error", err)
		return p.finish(domain.TickSkipped)
	}
	if record == nil {
		p.logger.Info("idle tick, nothing to publish")
		return p.finish(domain.TickIdle)
	}

	if err := p.publisher.Deliver(ctx, *record); err != nil {
		// Unposted articles stay eligible for the next tick.
		p.logger.Error("delivery failed", "title", record.Title, "error", err)
		return p.finish(domain.TickFailed)
	}

	if err := p.store.MarkPosted(ctx, *record); err != nil {
		p.logger.Error("posted record not persisted, article may repeat", "id", record.ID, "error", err)
	} else {
		p.logger.Info("article published", "title", record.Title, "source", record.Source, "from_reserve", fromReserve)
	}

	if count, err := p.store.ReserveCount(ctx); err == nil {
		p.logger.Info("reserve size", "unused", count)
	}

	if fromReserve {
		return p.finish(domain.TickReserve)
	}
	return p.finish(domain.TickPublished)
}

// collect fans out over all sources concurrently and joins before returning.
// Batch order follows source registration order regardless of which fetch
// finished first; a failed or timed-out source contributes nothing.
func (p *Pipeline) collect(ctx context.Context) []domain.ArticleRecord {
	results := make([][]domain.ArticleRecord, len(p.sources))

	var wg sync.WaitGroup
	for i, source := range p.sources {
		wg.Add(1)
		go func(i int, source ports.ArticleSource) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, p.sourceTimeout)
			defer cancel()

			records, err := source.Fetch(fetchCtx)
			if err != nil {
				p.logger.Warn("source failed", "source", source.Name(), "error", err)
				return
			}
			p.logger.Debug("source fetched", "source", source.Name(), "count", len(records))
			results[i] = records
		}(i, source)
	}
	wg.Wait()

	var batch []domain.ArticleRecord
	for _, records := range results {
		batch = append(batch, records...)
	}
	p.logger.Info("collection done", "sources", len(p.sources), "candidates", len(batch))
	return batch
}

func (p *Pipeline) finish(outcome domain.TickOutcome) domain.TickOutcome {
	p.mu.Lock()
	p.lastOutcome = outcome
	p.mu.Unlock()
	return outcome
}

// LastOutcome reports how the most recent tick ended.
func (p *Pipeline) LastOutcome() domain.TickOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastOutcome
}

// ReserveCount exposes the unused reserve size for the stats endpoint.
func (p *Pipeline) ReserveCount(ctx context.Context) (int, error) {
	return p.store.ReserveCount(ctx)
}
