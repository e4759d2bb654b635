package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/api/middleware"
	"github.com/pratik-mahalle/trainhub/internal/auth"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and validates it. It returns
// the AppError to write when the body is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, val *validator.Validator, dst interface{}) *errors.AppError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.BadRequest("Invalid request body")
	}
	if errs := val.Validate(dst); len(errs) > 0 {
		return errors.ValidationError("Validation failed", errs)
	}
	return nil
}

// requireUser returns the caller's user ID or writes 401
func requireUser(r *http.Request) (string, *errors.AppError) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		return "", errors.Unauthorized("Missing identity")
	}
	return userID, nil
}

func isAdmin(r *http.Request) bool {
	return middleware.HasRole(r, auth.RoleAdmin)
}

// parseAsOf reads the optional asOf query parameter (RFC 3339). A zero time
// means "now" to the resolver.
func parseAsOf(r *http.Request) (time.Time, *errors.AppError) {
	v := r.URL.Query().Get("asOf")
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, errors.BadRequest("asOf must be an RFC 3339 timestamp")
	}
	return t.UTC(), nil
}
