package respond

import (
	"context"
	"errors"
	"net/http"

	"perangkum/internal/domain/entity"
	"perangkum/internal/usecase/document"
	"perangkum/internal/usecase/summary"
	"perangkum/pkg/extractive"
)

// fetchSentinels are reported by name when a remote fetch fails, so the
// client learns what went wrong without seeing upstream details.
var fetchSentinels = []error{
	summary.ErrTooManyRedirects,
	summary.ErrBodyTooLarge,
	summary.ErrTimeout,
	summary.ErrReadabilityFailed,
	summary.ErrInvalidFeedFormat,
	summary.ErrFeedFetchFailed,
	summary.ErrFetchFailed,
}

// StatusFor maps an application error to its HTTP status code.
func StatusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrValidationFailed),
		errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, extractive.ErrInvalidArgument),
		summary.IsBadRequest(err):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, document.ErrDocumentTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, extractive.ErrEmptyVocabulary), errors.Is(err, document.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, summary.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	case summary.IsFetchFailure(err):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// DomainError writes err with the status StatusFor assigns. Client errors
// carry the sanitized message; fetch failures carry only the sentinel text;
// anything else becomes "internal server error".
func DomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	code := StatusFor(err)
	switch {
	case code < 500:
		AppErrorResponse(w, code, NewAppError(code, SanitizeError(err), err))
	case code == http.StatusServiceUnavailable:
		AppErrorResponse(w, code, NewAppError(code, summary.ErrUpstreamUnavailable.Error(), err))
	case code == http.StatusBadGateway:
		AppErrorResponse(w, code, NewAppError(code, fetchMessage(err), err))
	case code == http.StatusGatewayTimeout:
		AppErrorResponse(w, code, NewAppError(code, "request timeout", err))
	default:
		SafeError(w, code, err)
	}
}

func fetchMessage(err error) string {
	for _, sentinel := range fetchSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return summary.ErrFetchFailed.Error()
}
