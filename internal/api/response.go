package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/erazemk/shareit/internal/service"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("encoding response", zap.Error(err))
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service failure onto an HTTP status. Unclassified
// errors are logged and hidden behind a generic message.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		jsonError(w, status, "internal error")
		return
	}
	jsonError(w, status, err.Error())
}

// StatusFor returns the HTTP status for a service error.
func StatusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindNotFound, service.KindOwnershipConflict:
		return http.StatusNotFound
	case service.KindUnavailable, service.KindInvalidTimeRange, service.KindInvalidState, service.KindBadRequest:
		return http.StatusBadRequest
	case service.KindConflict, service.KindOverlap:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

// paging reads the from and size query parameters.
func paging(r *http.Request) (from, size int, err error) {
	if from, err = queryInt(r, "from", 0); err != nil {
		return 0, 0, err
	}
	if size, err = queryInt(r, "size", 10); err != nil {
		return 0, 0, err
	}
	return from, size, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
