package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RequestKind selects the operation carried by an envelope.
type RequestKind string

const (
	KindImpact     RequestKind = "impact"
	KindDeflection RequestKind = "deflection"
)

// ErrMalformedEnvelope is returned for an envelope that cannot be dispatched.
var ErrMalformedEnvelope = errors.New("malformed request envelope")

// RequestEnvelope is one queued request.
type RequestEnvelope struct {
	ID         string             `json:"id"`
	Kind       RequestKind        `json:"kind"`
	Impact     *ImpactRequest     `json:"impact,omitempty"`
	Deflection *DeflectionRequest `json:"deflection,omitempty"`
}

// ReportEnvelope is the answer to a RequestEnvelope. Exactly one of Impact,
// Deflection, or Error is set.
type ReportEnvelope struct {
	ID         string              `json:"id"`
	Kind       RequestKind         `json:"kind"`
	ComputedAt time.Time           `json:"computed_at"`
	Impact     *ImpactResponse     `json:"impact,omitempty"`
	Deflection *DeflectionResponse `json:"deflection,omitempty"`
	Error      *ErrorBody          `json:"error,omitempty"`
}

// Handle dispatches env to the matching operation. Calculation failures are
// reported inside the envelope; the returned error is reserved for envelopes
// that name no runnable operation.
func (s *Service) Handle(ctx context.Context, env RequestEnvelope) (ReportEnvelope, error) {
	report := ReportEnvelope{ID: env.ID, Kind: env.Kind}

	var err error
	switch env.Kind {
	case KindImpact:
		if env.Impact == nil {
			return ReportEnvelope{}, fmt.Errorf("%w: kind %q without impact body", ErrMalformedEnvelope, env.Kind)
		}
		var resp ImpactResponse
		if resp, err = s.CalculateImpact(ctx, *env.Impact); err == nil {
			report.Impact = &resp
		}
	case KindDeflection:
		if env.Deflection == nil {
			return ReportEnvelope{}, fmt.Errorf("%w: kind %q without deflection body", ErrMalformedEnvelope, env.Kind)
		}
		var resp DeflectionResponse
		if resp, err = s.EvaluateDeflection(ctx, *env.Deflection); err == nil {
			report.Deflection = &resp
		}
	default:
		return ReportEnvelope{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedEnvelope, env.Kind)
	}

	if err != nil {
		body := NewErrorBody(err)
		report.Error = &body
	}
	report.ComputedAt = clock.Now().UTC()
	return report, nil
}
