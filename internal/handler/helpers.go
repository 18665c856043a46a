package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/httputil"
)

// successResponse is the body of mutations that return no resource
type successResponse struct {
	Success bool `json:"success"`
}

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		validationErr  *domain.ValidationError
		conflictErr    *domain.ConflictError
		unavailableErr *domain.ServiceUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		extras := map[string]interface{}{}
		if validationErr.Field != "" {
			extras["field"] = validationErr.Field
		}
		if len(validationErr.Fields) > 0 {
			extras["errors"] = validationErr.Fields
		}
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, validationErr.Message, extras)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &unavailableErr):
		httputil.RespondErrorWithExtras(w, http.StatusServiceUnavailable, unavailableErr.Message,
			map[string]interface{}{"service": unavailableErr.Service})
	case errors.Is(err, domain.ErrServiceUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses the JSON body into dest or writes a 400/413
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	err := httputil.ParseJSON(w, r, dest)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return false
	}
	httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// requireIdentity returns the request actor or writes a 401
func requireIdentity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, ok := httputil.GetIdentity(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
	}
	return identity, ok
}
