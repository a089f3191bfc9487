package summary

import (
	"encoding/json"
	"errors"
	"net/http"

	"perangkum/internal/handler/http/respond"
)

// decode reads a JSON body into v and writes the error response itself
// when that fails.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respond.DomainError(w, err)
			return false
		}
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}
