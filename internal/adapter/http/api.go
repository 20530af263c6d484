package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/TEC-Andres/HackSAERO/internal/engine"
)

const maxRequestBytes = 1 << 20

// Calculator runs engine operations.
type Calculator interface {
	CalculateImpact(ctx context.Context, req engine.ImpactRequest) (engine.ImpactResponse, error)
	EvaluateDeflection(ctx context.Context, req engine.DeflectionRequest) (engine.DeflectionResponse, error)
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	var req engine.ImpactRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.calc.CalculateImpact(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeflection(w http.ResponseWriter, r *http.Request) {
	var req engine.DeflectionRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.calc.EvaluateDeflection(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		msg := fmt.Sprintf("invalid request body: %v", err)
		if errors.As(err, &maxErr) {
			msg = fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
		}
		writeJSON(w, http.StatusBadRequest, engine.ErrorBody{Error: msg, Kind: engine.KindInvalidInput})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	body := engine.NewErrorBody(err)
	status := http.StatusBadRequest
	if body.Kind == engine.KindComputation {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, body)
}
