package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"doemais/internal/domain"
)

// statusInvalidToken is the non-standard code the API uses for tokens that are
// well-formed but expired, forged, or no longer resolvable.
const statusInvalidToken = 498

// writeServiceError maps a service error to its HTTP status code and writes
// the standard {"error": message} body. Anything without a mapped sentinel is
// logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusUnprocessableEntity, "Please use another email.")
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "Product not available.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, statusInvalidToken, "Invalid token.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "You are not allowed to perform this action on this product.")
	default:
		slog.Error(logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
