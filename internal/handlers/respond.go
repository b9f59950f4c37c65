package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
)

// respondJSON writes the payload as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Log.WithError(err).Error("Failed to encode response")
		}
	}
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleServiceError translates service-layer errors into HTTP responses.
// Validation problems report the offending field, missing or foreign
// resources collapse into a generic 404, and everything else is treated
// as an internal failure without leaking details to the client.
func handleServiceError(w http.ResponseWriter, err error) {
	if verr, ok := apperrors.AsValidation(err); ok {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": verr.Message,
			"field": verr.Field,
		})
		return
	}
	if apperrors.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}

	logger.Log.WithError(err).Error("Unhandled service error")
	respondError(w, http.StatusInternalServerError, "internal server error")
}
