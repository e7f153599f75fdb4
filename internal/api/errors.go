package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/uiguide/internal/figma"
	"github.com/dgallion1/uiguide/internal/pipeline"
)

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}

// statusFor maps a pipeline error to an HTTP status. Anything unrecognized
// came from an upstream call and is reported as a bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, figma.ErrBadURL), errors.Is(err, pipeline.ErrTokenRequired):
		return http.StatusBadRequest
	case errors.Is(err, figma.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, figma.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, figma.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("pipeline failed", "path", r.URL.Path, "status", code, "error", err)
	} else {
		s.log.Warn("pipeline rejected request", "path", r.URL.Path, "status", code, "error", err)
	}
	jsonError(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
