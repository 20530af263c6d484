package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/TEC-Andres/HackSAERO/internal/domain"
	"github.com/TEC-Andres/HackSAERO/internal/engine"
)

// Header names set on every published report.
const (
	HeaderRequestKind = "request_kind"
	HeaderComputedAt  = "computed_at"
)

// Handler computes the report for one request envelope.
type Handler interface {
	Handle(ctx context.Context, env engine.RequestEnvelope) (engine.ReportEnvelope, error)
}

// EnvelopeTransformer implements Transformer by decoding a request envelope,
// handing it to the engine and encoding the resulting report.
type EnvelopeTransformer struct {
	handler Handler
	logger  *slog.Logger
}

// NewTransformer creates an EnvelopeTransformer backed by h.
func NewTransformer(h Handler, logger *slog.Logger) *EnvelopeTransformer {
	return &EnvelopeTransformer{handler: h, logger: logger}
}

// Transform returns an error only for messages that cannot become a report:
// undecodable JSON or an envelope naming no operation. Rejected parameters
// and calculation failures travel inside the report's error field.
func (t *EnvelopeTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	env, err := decodeEnvelope(raw.Value)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	if env.ID == "" {
		env.ID = string(raw.Key)
	}

	report, err := t.handler.Handle(ctx, env)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("handle request %q: %w", env.ID, err)
	}
	if report.Error != nil {
		t.logger.Debug("request rejected",
			"id", report.ID,
			"kind", report.Kind,
			"error_kind", report.Error.Kind,
			"offset", raw.Offset,
		)
	}

	value, err := json.Marshal(report)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("marshal report %q: %w", report.ID, err)
	}

	return domain.OutputEvent{
		Key:   []byte(report.ID),
		Value: value,
		Headers: map[string]string{
			HeaderRequestKind: string(report.Kind),
			HeaderComputedAt:  report.ComputedAt.Format(time.RFC3339),
		},
	}, nil
}

func decodeEnvelope(data []byte) (engine.RequestEnvelope, error) {
	var env engine.RequestEnvelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return engine.RequestEnvelope{}, fmt.Errorf("decode request envelope: %w", err)
	}
	return env, nil
}
