package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/services"
)

func (s *Server) handleStartTraining(w http.ResponseWriter, r *http.Request) {
	var req services.StartRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Training.Start(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGetTraining(w http.ResponseWriter, r *http.Request) {
	view, err := s.Training.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Training.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleSkipQuestion(w http.ResponseWriter, r *http.Request) {
	view, err := s.Training.Skip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleContinueTraining(w http.ResponseWriter, r *http.Request) {
	view, err := s.Training.Continue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleRestartTraining(w http.ResponseWriter, r *http.Request) {
	view, err := s.Training.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleResetTraining(w http.ResponseWriter, r *http.Request) {
	view, err := s.Training.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleTrainingResults(w http.ResponseWriter, r *http.Request) {
	result, err := s.Training.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleNotifyResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := s.Training.Results(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Notify.NotifyResult(r.Context(), *result); err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("notification requested for training %s", id)
	respondJSON(w, r, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleLastNotification(w http.ResponseWriter, r *http.Request) {
	status := s.Notify.LastDelivery()
	if status == nil {
		respondJSON(w, r, http.StatusOK, map[string]any{"delivery": nil})
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"delivery": status})
}
