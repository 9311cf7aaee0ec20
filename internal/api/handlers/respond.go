package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/taskhive/taskhive-be/internal/apperr"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a classified error to its status and a
// {success:false, message} body. Internal errors are logged server-side and
// surfaced as a generic message, never with detail.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Unhandled error")
	}
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": apperr.ClientMessage(err),
	})
}
