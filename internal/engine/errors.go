package engine

import (
	"errors"

	"github.com/TEC-Andres/HackSAERO/internal/deflection"
	"github.com/TEC-Andres/HackSAERO/internal/domain"
)

// ErrorKind classifies a failed request for clients.
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "invalid_input"
	KindUnsupportedStrategy ErrorKind = "unsupported_strategy"
	KindComputation         ErrorKind = "computation"
)

const computationErrorMessage = "computation error"

// ErrorBody is the error payload returned to clients.
type ErrorBody struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind"`
}

// KindOf classifies err. Anything that is not a rejected input is treated
// as an internal computation fault.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, deflection.ErrUnsupportedStrategy):
		return KindUnsupportedStrategy
	case errors.Is(err, domain.ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindComputation
	}
}

// NewErrorBody builds the client payload for err. Computation faults carry
// a generic message; their detail is only logged.
func NewErrorBody(err error) ErrorBody {
	kind := KindOf(err)
	if kind == KindComputation {
		return ErrorBody{Error: computationErrorMessage, Kind: kind}
	}
	return ErrorBody{Error: err.Error(), Kind: kind}
}
