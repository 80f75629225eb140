package api

import (
	"encoding/json"
	"net/http"

	"github.com/Mkhisamo/learn-english/internal/errors"
	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/services"
)

type Server struct {
	Words    services.WordService
	Training services.TrainingService
	Progress services.ProgressService
	Notify   services.NotifyService
	Gate     *Gate
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid request body: " + err.Error())
	}
	return nil
}
