package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/dotcommander/atscore/internal/logger"
	"github.com/dotcommander/atscore/internal/resume"
	"github.com/dotcommander/atscore/internal/textutil"
	"github.com/dotcommander/atscore/internal/types"
)

// maxLoggedBody caps how much of a rejected body reaches the debug log.
const maxLoggedBody = 200

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// scoreHandler scores a JSON resume document. A null or empty body is the
// "nothing to score" state and yields null.
func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	log := s.requestLogger(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorResponse(w, "Request too large", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		writeErrorResponse(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}

	doc, _, err := resume.Parse(body, types.FormatJSON)
	if err != nil {
		log.Debug("rejected resume document", zap.Error(err), zap.String("body", textutil.TruncateForLog(string(body), maxLoggedBody)))
		writeErrorResponse(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
		return
	}

	report := s.scorer.Score(doc)
	if report != nil {
		s.metrics.ObserveScore(report.Rating, report.Overall)
		log.Debug("scored",
			zap.Int(logger.FieldScore, report.Overall),
			zap.String(logger.FieldRating, report.Rating))
	}

	writeJSON(w, http.StatusOK, report, log)
}

// healthHandler reports service liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: s.version,
	}, s.requestLogger(r))
}

func writeJSON(w http.ResponseWriter, status int, v any, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to encode response", zap.Error(err))
	}
}

// writeErrorResponse writes an ErrorResponse with status.
func writeErrorResponse(w http.ResponseWriter, errMsg, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: errMsg, Message: message})
}
