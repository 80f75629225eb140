package api

import (
	"net/http"

	"github.com/Mkhisamo/learn-english/internal/models"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	window := models.Window(r.URL.Query().Get("window"))
	overview, err := s.Progress.Overview(r.Context(), window)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, overview)
}

func (s *Server) handleProgressHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.Progress.History(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"results": history, "count": len(history)})
}

func (s *Server) handleClearProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.Progress.Clear(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}
