package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEC-Andres/HackSAERO/internal/deflection"
	"github.com/TEC-Andres/HackSAERO/internal/domain"
	"github.com/TEC-Andres/HackSAERO/internal/observability"
)

func newTestService(opts ...Option) (*Service, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, metrics, opts...), metrics
}

var chelyabinsk = domain.MeteoroidParameters{RadiusM: 10, VelocityMS: 19_000, EntryAngleDeg: 20, Material: domain.MaterialRock}

type stubGeocoder struct {
	result domain.GeocodingResult
	err    error
}

func (s stubGeocoder) ForwardGeocode(context.Context, string, string) (domain.GeocodingResult, error) {
	return s.result, s.err
}

func (s stubGeocoder) ReverseGeocode(context.Context, float64, float64) (domain.GeocodingResult, error) {
	return s.result, s.err
}

func TestCalculateImpact_Chelyabinsk(t *testing.T) {
	svc, metrics := newTestService()

	resp, err := svc.CalculateImpact(context.Background(), ImpactRequest{MeteoroidParameters: chelyabinsk})
	require.NoError(t, err)

	atm := resp.AtmosphericImpact
	assert.True(t, atm.Broke)
	require.NotNil(t, atm.BreakupAltitudeM)
	assert.GreaterOrEqual(t, *atm.BreakupAltitudeM, 20_000.0)
	assert.LessOrEqual(t, *atm.BreakupAltitudeM, 30_000.0)
	assert.Nil(t, atm.CraterDiameterM)
	assert.Equal(t, 20.0, resp.Calculations.DiameterM)
	assert.Equal(t, 19_000.0, resp.Calculations.VelocityMS)
	assert.Nil(t, resp.Site)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Calculations.WithLabelValues("impact", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EntryOutcomes.WithLabelValues("airburst")))
}

func TestCalculateImpact_JSONOmitsUndefinedFields(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.CalculateImpact(context.Background(), ImpactRequest{MeteoroidParameters: chelyabinsk})
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var fields map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields["atmospheric_impact"], "E_after_J")
	assert.Contains(t, fields["atmospheric_impact"], "breakup_altitude_m")
	assert.NotContains(t, fields["atmospheric_impact"], "crater_diameter_m")
	assert.NotContains(t, fields, "site")
	assert.Contains(t, fields["calculations"], "kinetic_energy_initial_megatons_tnt")
}

func TestCalculateImpact_LargeIronMakesCrater(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.CalculateImpact(context.Background(), ImpactRequest{
		MeteoroidParameters: domain.MeteoroidParameters{RadiusM: 1_000, VelocityMS: 20_000, EntryAngleDeg: 90, Material: domain.MaterialIron},
	})
	require.NoError(t, err)

	assert.Greater(t, resp.AtmosphericImpact.FTotal, 0.95)
	require.NotNil(t, resp.AtmosphericImpact.CraterDiameterM)
	assert.Greater(t, *resp.AtmosphericImpact.CraterDiameterM, 1_000.0)
}

func TestCalculateImpact_InvalidInput(t *testing.T) {
	svc, metrics := newTestService()

	_, err := svc.CalculateImpact(context.Background(), ImpactRequest{
		MeteoroidParameters: domain.MeteoroidParameters{RadiusM: 0, VelocityMS: 19_000, EntryAngleDeg: 20, Material: domain.MaterialRock},
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Contains(t, NewErrorBody(err).Error, "radius_m")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Calculations.WithLabelValues("impact", "invalid_input")))
}

func TestCalculateImpact_PartialSiteRejected(t *testing.T) {
	svc, _ := newTestService()
	lat := 54.9

	_, err := svc.CalculateImpact(context.Background(), ImpactRequest{
		MeteoroidParameters: chelyabinsk,
		Site:                &domain.ImpactSite{Lat: &lat},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculateImpact_DivergenceIsComputationError(t *testing.T) {
	svc, metrics := newTestService(WithIntegrator(domain.Integrator{AltitudeStepM: domain.DefaultAltitudeStepM, MaxSteps: 100}))

	_, err := svc.CalculateImpact(context.Background(), ImpactRequest{MeteoroidParameters: chelyabinsk})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNumericDivergence)
	assert.Equal(t, ErrorBody{Error: "computation error", Kind: KindComputation}, NewErrorBody(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Calculations.WithLabelValues("impact", "computation")))
}

func TestCalculateImpact_EnrichesSite(t *testing.T) {
	geo := stubGeocoder{result: domain.GeocodingResult{
		FormattedAddress: "Chelyabinsk, Chelyabinsk Oblast, Russia",
		PlaceName:        "Chelyabinsk",
		Confidence:       0.9,
	}}
	svc, _ := newTestService(WithGeocoder(geo))
	lat, lon := 54.9, 61.4

	resp, err := svc.CalculateImpact(context.Background(), ImpactRequest{
		MeteoroidParameters: chelyabinsk,
		Site:                &domain.ImpactSite{Lat: &lat, Lon: &lon},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Site)
	assert.Equal(t, "Chelyabinsk", resp.Site.PlaceName)
	assert.Equal(t, domain.GeoSourceReverse, resp.Site.GeoSource)
}

func TestCalculateImpact_GeocodeFailureDegrades(t *testing.T) {
	svc, _ := newTestService(WithGeocoder(stubGeocoder{err: errors.New("mapbox down")}))
	lat, lon := 54.9, 61.4

	resp, err := svc.CalculateImpact(context.Background(), ImpactRequest{
		MeteoroidParameters: chelyabinsk,
		Site:                &domain.ImpactSite{Lat: &lat, Lon: &lon},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Site)
	assert.Equal(t, domain.GeoSourceFailed, resp.Site.GeoSource)
}

func TestCalculateImpact_ResultCache(t *testing.T) {
	svc, metrics := newTestService(WithResultCache(8))
	req := ImpactRequest{MeteoroidParameters: chelyabinsk}

	first, err := svc.CalculateImpact(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.CalculateImpact(context.Background(), req)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached response differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResultCache.WithLabelValues("impact", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResultCache.WithLabelValues("impact", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EntryOutcomes.WithLabelValues("airburst")))
}

func TestCalculateImpact_ResultCacheDisabled(t *testing.T) {
	svc, metrics := newTestService(WithResultCache(8), WithResultCache(0))
	req := ImpactRequest{MeteoroidParameters: chelyabinsk}

	for range 2 {
		_, err := svc.CalculateImpact(context.Background(), req)
		require.NoError(t, err)
		_, err = svc.EvaluateDeflection(context.Background(), DeflectionRequest{Meteoroid: chelyabinsk, Strategy: deflection.All, LeadTimeYears: 3})
		require.NoError(t, err)
	}

	assert.Zero(t, testutil.CollectAndCount(metrics.ResultCache))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.EntryOutcomes.WithLabelValues("airburst")))
}

func TestImpactRequest_DecodesFlatJSON(t *testing.T) {
	var req ImpactRequest
	body := `{"radius_m":10,"velocity_ms":19000,"entry_angle_deg":20,"material":"Rock","site":{"lat":54.9,"lon":61.4}}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, chelyabinsk, req.MeteoroidParameters)
	require.NotNil(t, req.Site)
	assert.True(t, req.Site.HasCoords())
}

func TestEvaluateDeflection_Single(t *testing.T) {
	svc, metrics := newTestService()

	resp, err := svc.EvaluateDeflection(context.Background(), DeflectionRequest{
		Meteoroid:     chelyabinsk,
		Strategy:      deflection.KineticImpactor,
		LeadTimeYears: 10,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, deflection.KineticImpactor, resp.Results[0].Strategy)
	assert.Nil(t, resp.Comparison)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DeflectionSafety.WithLabelValues(
		string(deflection.KineticImpactor), string(resp.Results[0].SafetyLevel))))
}

func TestEvaluateDeflection_AllMatchesSequential(t *testing.T) {
	svc, _ := newTestService()
	req := DeflectionRequest{
		Meteoroid:     domain.MeteoroidParameters{RadiusM: 150, VelocityMS: 17_000, EntryAngleDeg: 45, Material: domain.MaterialIron},
		Strategy:      deflection.All,
		LeadTimeYears: 6,
	}

	resp, err := svc.EvaluateDeflection(context.Background(), req)
	require.NoError(t, err)

	state, err := domain.ComputeEntryState(req.Meteoroid)
	require.NoError(t, err)
	want, err := deflection.EvaluateAll(req.Meteoroid, state, req.LeadTimeYears)
	require.NoError(t, err)

	if diff := cmp.Diff(want, resp.Results); diff != "" {
		t.Errorf("concurrent results differ (-sequential +concurrent):\n%s", diff)
	}
	require.NotNil(t, resp.Comparison)
	require.Len(t, resp.Comparison.Ranking, 4)
	assert.Equal(t, resp.Comparison.Ranking[0].Strategy, resp.Comparison.Best)
}

func TestEvaluateDeflection_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  DeflectionRequest
		kind ErrorKind
	}{
		{"unknown strategy", DeflectionRequest{Meteoroid: chelyabinsk, Strategy: "ion_beam", LeadTimeYears: 5}, KindUnsupportedStrategy},
		{"empty strategy", DeflectionRequest{Meteoroid: chelyabinsk, LeadTimeYears: 5}, KindUnsupportedStrategy},
		{"zero lead time", DeflectionRequest{Meteoroid: chelyabinsk, Strategy: deflection.All, LeadTimeYears: 0}, KindInvalidInput},
		{"lead time too long", DeflectionRequest{Meteoroid: chelyabinsk, Strategy: deflection.LaserAblation, LeadTimeYears: 11}, KindInvalidInput},
		{"bad meteoroid", DeflectionRequest{Meteoroid: domain.MeteoroidParameters{RadiusM: 10, Material: domain.MaterialRock}, Strategy: deflection.All, LeadTimeYears: 5}, KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, metrics := newTestService()

			_, err := svc.EvaluateDeflection(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Calculations.WithLabelValues("deflection", string(tt.kind))))
		})
	}
}

func TestEvaluateDeflection_ResultCache(t *testing.T) {
	svc, metrics := newTestService(WithResultCache(4))
	req := DeflectionRequest{Meteoroid: chelyabinsk, Strategy: deflection.All, LeadTimeYears: 3}

	_, err := svc.EvaluateDeflection(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.EvaluateDeflection(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResultCache.WithLabelValues("deflection", "hit")))
}

func TestSelfCheck(t *testing.T) {
	svc, _ := newTestService()

	require.Error(t, svc.CheckReadiness(context.Background()))
	require.NoError(t, svc.SelfCheck())
	assert.NoError(t, svc.CheckReadiness(context.Background()))
}

func TestSelfCheck_FailsWithStarvedIntegrator(t *testing.T) {
	svc, _ := newTestService(WithIntegrator(domain.Integrator{AltitudeStepM: domain.DefaultAltitudeStepM, MaxSteps: 10}))

	err := svc.SelfCheck()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chelyabinsk")
	assert.Error(t, svc.CheckReadiness(context.Background()))
}

func TestHandle(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2013, time.February, 15, 3, 20, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	svc, _ := newTestService()

	t.Run("impact", func(t *testing.T) {
		report, err := svc.Handle(context.Background(), RequestEnvelope{
			ID:     "req-1",
			Kind:   KindImpact,
			Impact: &ImpactRequest{MeteoroidParameters: chelyabinsk},
		})
		require.NoError(t, err)
		assert.Equal(t, "req-1", report.ID)
		assert.Equal(t, fakeClock.Now(), report.ComputedAt)
		require.NotNil(t, report.Impact)
		assert.Nil(t, report.Error)
	})

	t.Run("deflection error is reported", func(t *testing.T) {
		report, err := svc.Handle(context.Background(), RequestEnvelope{
			ID:         "req-2",
			Kind:       KindDeflection,
			Deflection: &DeflectionRequest{Meteoroid: chelyabinsk, Strategy: "ion_beam", LeadTimeYears: 5},
		})
		require.NoError(t, err)
		assert.Nil(t, report.Deflection)
		require.NotNil(t, report.Error)
		assert.Equal(t, KindUnsupportedStrategy, report.Error.Kind)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, env := range []RequestEnvelope{
			{ID: "req-3", Kind: "orbit"},
			{ID: "req-4", Kind: KindImpact},
			{ID: "req-5", Kind: KindDeflection},
		} {
			_, err := svc.Handle(context.Background(), env)
			assert.ErrorIs(t, err, ErrMalformedEnvelope, env.ID)
		}
	})
}
