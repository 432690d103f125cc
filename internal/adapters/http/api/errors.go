package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/skillwheel/internal/adapters/http/live"
	"github.com/okian/skillwheel/internal/adapters/repository"
	service "github.com/okian/skillwheel/internal/app"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/selection"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrBackpressure = errors.New("backpressure")
	ErrInternal     = errors.New("internal error")
)

// Response codes.
const (
	codeBadRequest     = "bad_request"
	codeNotFound       = "not_found"
	codeBackpressure   = "backpressure"
	codeConflict       = "conflict"
	codeInvalidDataset = "invalid_dataset"
	codeUnavailable    = "unavailable"
	codeThrottled      = "throttled"
	codeInternal       = "internal_error"
)

// Wrap annotates err with the operation that failed.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind reports a failure of op with no further cause.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind reports a failure of op as kind, keeping cause inspectable.
func WrapKind(op string, kind, cause error) error {
	if cause == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}

// classify maps an error to its HTTP status and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, live.ErrThrottled):
		return http.StatusTooManyRequests, codeThrottled
	case errors.Is(err, service.ErrBackpressure), errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, codeBackpressure
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrAmbiguousSelection),
		errors.Is(err, selection.ErrUnknownNode),
		errors.Is(err, selection.ErrUnknownRing),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, service.ErrNoDatasetPath):
		return http.StatusConflict, codeConflict
	case errors.Is(err, model.ErrMalformedEntity),
		errors.Is(err, repository.ErrDecode),
		errors.Is(err, repository.ErrRead),
		errors.Is(err, repository.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity, codeInvalidDataset
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// ErrorCode returns the response code for err.
func ErrorCode(err error) string {
	_, code := classify(err)
	return code
}
