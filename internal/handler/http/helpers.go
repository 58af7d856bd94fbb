package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// actor returns the caller resolved by the auth middleware. It writes a 401 and
// returns false when the request was not authenticated.
func actor(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return identity.Identity{}, false
	}
	return id, true
}

// decodeJSON reads the request body into dst, answering 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// getIntQueryParam parses an optional int query parameter.
func getIntQueryParam(r *http.Request, key string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal, nil
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return 0, validator.ValidationErrors{{Field: key, Message: "must be an integer"}}
	}
	return intVal, nil
}
