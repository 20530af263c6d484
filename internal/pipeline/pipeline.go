package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TEC-Andres/HackSAERO/internal/domain"
	"github.com/TEC-Andres/HackSAERO/internal/observability"
)

const tracerName = "github.com/TEC-Andres/HackSAERO/internal/pipeline"

// BatchExtractor reads up to batchSize raw requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw request into a serialized report.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader publishes reports to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline consumes request envelopes, computes their reports, and publishes
// them in batches.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil while the loop is running and its last
// extract and load succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline is not running or its last batch failed")
	}
	return nil
}

// Run consumes, computes, and publishes batches until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	p.ready.Store(true)
	defer func() {
		p.ready.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	retry := newBackoff(200*time.Millisecond, 5*time.Second)
	for ctx.Err() == nil {
		if err := p.serveBatch(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.ready.Store(false)
			if !retry.wait(ctx) {
				break
			}
			continue
		}
		retry.reset()
	}

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// serveBatch runs one consume/compute/publish cycle. A non-nil error means
// the source or sink failed and the loop should back off.
func (p *Pipeline) serveBatch(ctx context.Context) error {
	start := time.Now()

	requests, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("extract batch failed", "error", err)
		}
		return err
	}
	if len(requests) == 0 {
		return nil
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.Batch",
		trace.WithAttributes(attribute.Int("batch.size", len(requests))))
	defer span.End()

	p.metrics.MessagesConsumed.Add(float64(len(requests)))
	p.metrics.BatchSize.Observe(float64(len(requests)))

	reports, answered := p.computeReports(ctx, requests)
	span.SetAttributes(attribute.Int("batch.reports", len(reports)))

	if len(reports) > 0 {
		if err := p.loader.LoadBatch(ctx, reports); err != nil {
			p.logger.Error("load batch failed", "error", err, "batch_size", len(reports))
			span.RecordError(err)
			span.SetStatus(codes.Error, "load batch failed")
			return err
		}
		p.metrics.MessagesProduced.Add(float64(len(reports)))
		for _, raw := range answered {
			p.commit(ctx, raw)
		}
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	}

	p.ready.Store(true)
	return nil
}

// computeReports transforms every request in the batch. Unreadable messages
// are committed immediately so they are never redelivered; the rest are
// returned alongside their reports to be committed after publishing.
func (p *Pipeline) computeReports(ctx context.Context, requests []domain.RawEvent) ([]domain.OutputEvent, []domain.RawEvent) {
	reports := make([]domain.OutputEvent, 0, len(requests))
	answered := make([]domain.RawEvent, 0, len(requests))

	for _, raw := range requests {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("unreadable request, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		reports = append(reports, out)
		answered = append(answered, raw)
	}
	return reports, answered
}

// commit acknowledges raw if the source supports commits.
func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// backoff doubles the wait after each failure up to max.
type backoff struct {
	initial, max, current time.Duration
}

func newBackoff(initial, maxWait time.Duration) *backoff {
	return &backoff{initial: initial, max: maxWait, current: initial}
}

func (b *backoff) reset() { b.current = b.initial }

// wait sleeps for the current delay and advances it. It returns false if ctx
// ended first.
func (b *backoff) wait(ctx context.Context) bool {
	timer := time.NewTimer(b.current)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	b.current = min(b.current*2, b.max)
	return true
}
