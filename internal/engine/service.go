// Package engine is the service layer over the impact and deflection
// models. It validates requests, runs the pure engines, enriches impact
// sites, and records logs, metrics, and spans for every calculation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/TEC-Andres/HackSAERO/internal/deflection"
	"github.com/TEC-Andres/HackSAERO/internal/domain"
	"github.com/TEC-Andres/HackSAERO/internal/observability"
)

const tracerName = "github.com/TEC-Andres/HackSAERO/internal/engine"

const (
	opImpact     = "impact"
	opDeflection = "deflection"
)

// Service runs impact and deflection calculations.
type Service struct {
	integrator      domain.Integrator
	geocoder        domain.Geocoder
	impactCache     *lru.Cache[domain.MeteoroidParameters, domain.ImpactReport]
	deflectionCache *lru.Cache[DeflectionRequest, DeflectionResponse]
	metrics         *observability.Metrics
	logger          *slog.Logger
	ready           atomic.Bool
}

// Option configures a Service.
type Option func(*Service)

// WithGeocoder enables impact-site enrichment.
func WithGeocoder(g domain.Geocoder) Option {
	return func(s *Service) { s.geocoder = g }
}

// WithResultCache memoizes up to size results per operation. Size 0 or
// less leaves caching off.
func WithResultCache(size int) Option {
	return func(s *Service) {
		if size <= 0 {
			s.impactCache, s.deflectionCache = nil, nil
			return
		}
		// lru.New only fails for a non-positive size.
		s.impactCache, _ = lru.New[domain.MeteoroidParameters, domain.ImpactReport](size)
		s.deflectionCache, _ = lru.New[DeflectionRequest, DeflectionResponse](size)
	}
}

// WithIntegrator overrides the entry integrator's step policy.
func WithIntegrator(in domain.Integrator) Option {
	return func(s *Service) { s.integrator = in }
}

// New creates a Service.
func New(logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		integrator: domain.DefaultIntegrator(),
		metrics:    metrics,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CalculateImpact runs the entry, energy, and crater chain for one meteoroid.
func (s *Service) CalculateImpact(ctx context.Context, req ImpactRequest) (resp ImpactResponse, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "engine.CalculateImpact",
		trace.WithAttributes(meteoroidAttributes(req.MeteoroidParameters)...))
	defer span.End()
	defer s.observe(ctx, span, opImpact, time.Now(), &err)

	if err := req.MeteoroidParameters.Validate(); err != nil {
		return ImpactResponse{}, err
	}
	if req.Site != nil {
		if err := req.Site.Validate(); err != nil {
			return ImpactResponse{}, err
		}
	}

	report, err := s.impactReport(req.MeteoroidParameters)
	if err != nil {
		return ImpactResponse{}, err
	}

	span.SetAttributes(
		attribute.Bool("impact.broke", report.Atmosphere.Broke),
		attribute.Bool("impact.dissipated", report.Atmosphere.Dissipated),
		attribute.Bool("impact.stalled", report.Atmosphere.Stalled),
		attribute.Float64("impact.megatons", report.ImpactMegatons()),
	)

	resp = newImpactResponse(report)
	if req.Site != nil {
		site := domain.EnrichSite(ctx, *req.Site, s.geocoder, s.logger)
		resp.Site = &site
	}
	return resp, nil
}

func (s *Service) impactReport(p domain.MeteoroidParameters) (domain.ImpactReport, error) {
	if s.impactCache != nil {
		if report, ok := s.impactCache.Get(p); ok {
			s.metrics.ResultCache.WithLabelValues(opImpact, "hit").Inc()
			return report, nil
		}
		s.metrics.ResultCache.WithLabelValues(opImpact, "miss").Inc()
	}

	report, err := s.integrator.CalculateImpact(p)
	if err != nil {
		return domain.ImpactReport{}, err
	}
	s.metrics.EntryOutcomes.WithLabelValues(entryOutcome(report.Atmosphere)).Inc()

	if s.impactCache != nil {
		s.impactCache.Add(p, report)
	}
	return report, nil
}

// EvaluateDeflection evaluates one strategy, or every strategy plus a ranked
// comparison when the request names "all".
func (s *Service) EvaluateDeflection(ctx context.Context, req DeflectionRequest) (resp DeflectionResponse, err error) {
	attrs := append(meteoroidAttributes(req.Meteoroid),
		attribute.String("deflection.strategy", string(req.Strategy)),
		attribute.Float64("deflection.lead_time_years", req.LeadTimeYears),
	)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "engine.EvaluateDeflection", trace.WithAttributes(attrs...))
	defer span.End()
	defer s.observe(ctx, span, opDeflection, time.Now(), &err)

	strategies, err := strategiesFor(req.Strategy)
	if err != nil {
		return DeflectionResponse{}, err
	}
	state, err := domain.ComputeEntryState(req.Meteoroid)
	if err != nil {
		return DeflectionResponse{}, err
	}
	if err := deflection.ValidateLeadTime(req.LeadTimeYears); err != nil {
		return DeflectionResponse{}, err
	}

	if s.deflectionCache != nil {
		if cached, ok := s.deflectionCache.Get(req); ok {
			s.metrics.ResultCache.WithLabelValues(opDeflection, "hit").Inc()
			return cached, nil
		}
		s.metrics.ResultCache.WithLabelValues(opDeflection, "miss").Inc()
	}

	results, err := evaluateConcurrently(req, state, strategies)
	if err != nil {
		return DeflectionResponse{}, err
	}
	for _, r := range results {
		s.metrics.DeflectionSafety.WithLabelValues(string(r.Strategy), string(r.SafetyLevel)).Inc()
	}

	resp = DeflectionResponse{Results: results}
	if req.Strategy == deflection.All {
		comparison, err := deflection.Compare(results)
		if err != nil {
			return DeflectionResponse{}, err
		}
		resp.Comparison = &comparison
		span.SetAttributes(attribute.String("deflection.best", string(comparison.Best)))
	}

	if s.deflectionCache != nil {
		s.deflectionCache.Add(req, resp)
	}
	return resp, nil
}

// evaluateConcurrently runs one goroutine per strategy; results keep the
// order of strategies.
func evaluateConcurrently(req DeflectionRequest, state domain.EntryState, strategies []deflection.Strategy) ([]deflection.Result, error) {
	results := make([]deflection.Result, len(strategies))

	var g errgroup.Group
	for i, st := range strategies {
		g.Go(func() error {
			r, err := deflection.Evaluate(req.Meteoroid, state, st, req.LeadTimeYears)
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", st, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func strategiesFor(s deflection.Strategy) ([]deflection.Strategy, error) {
	if s == deflection.All {
		return deflection.Strategies(), nil
	}
	parsed, err := deflection.ParseStrategy(string(s))
	if err != nil || parsed == deflection.All {
		return nil, fmt.Errorf("%w: %q", deflection.ErrUnsupportedStrategy, s)
	}
	return []deflection.Strategy{parsed}, nil
}

// SelfCheck runs the historical calibration fixtures through the configured
// integrator. The service reports ready once every fixture passes.
func (s *Service) SelfCheck() error {
	var failures []string
	for _, ev := range domain.HistoricalEvents() {
		report, err := s.integrator.CalculateImpact(ev.Parameters)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", ev.Name, err))
			continue
		}
		for _, p := range ev.Check(report) {
			failures = append(failures, fmt.Sprintf("%s: %s", ev.Name, p))
		}
	}
	if len(failures) > 0 {
		s.ready.Store(false)
		return fmt.Errorf("calibration self-check failed: %s", strings.Join(failures, "; "))
	}

	s.ready.Store(true)
	s.logger.Info("calibration self-check passed",
		"atmosphere_model", domain.AtmosphereModelVersion,
		"crater_scaling", domain.CraterScalingVersion,
		"materials", domain.MaterialTableVersion,
		"success_curve", deflection.ProbabilityCurveVersion,
	)
	return nil
}

// CheckReadiness returns nil once SelfCheck has passed.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("engine calibration self-check has not passed")
	}
	return nil
}

// observe records the outcome of one calculation. Computation faults are
// logged at error level; rejected inputs at debug.
func (s *Service) observe(ctx context.Context, span trace.Span, op string, start time.Time, errp *error) {
	s.metrics.CalculationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	err := *errp
	if err == nil {
		s.metrics.Calculations.WithLabelValues(op, "ok").Inc()
		return
	}

	kind := KindOf(err)
	s.metrics.Calculations.WithLabelValues(op, string(kind)).Inc()
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.kind", string(kind)))

	if kind == KindComputation {
		span.SetStatus(codes.Error, computationErrorMessage)
		s.logger.ErrorContext(ctx, "calculation failed", "operation", op, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "request rejected", "operation", op, "kind", kind, "error", err)
}

func meteoroidAttributes(p domain.MeteoroidParameters) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64("meteoroid.radius_m", p.RadiusM),
		attribute.Float64("meteoroid.velocity_ms", p.VelocityMS),
		attribute.Float64("meteoroid.entry_angle_deg", p.EntryAngleDeg),
		attribute.String("meteoroid.material", string(p.Material)),
	}
}

func entryOutcome(atm domain.AtmosphericImpactResult) string {
	switch {
	case atm.Dissipated:
		return "dissipated"
	case atm.EAfterJ == 0:
		return "airburst"
	case atm.Broke:
		return "fragmented"
	default:
		return "intact"
	}
}
