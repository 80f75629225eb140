package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Post("/unlock", s.handleUnlock)
	r.Post("/lock", s.handleLock)

	r.Route("/words", func(r chi.Router) {
		r.Get("/", s.handleListWords)
		r.Get("/export", s.handleExportWords)

		// Mutations require parent mode.
		r.Group(func(r chi.Router) {
			r.Use(s.parentMiddleware)
			r.Post("/", s.handleCreateWord)
			r.Put("/{id}", s.handleUpdateWord)
			r.Delete("/{id}", s.handleDeleteWord)
			r.Post("/import", s.handleImportWords)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.handleListCategories)

		r.Group(func(r chi.Router) {
			r.Use(s.parentMiddleware)
			r.Post("/", s.handleCreateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})
	})

	r.Route("/training", func(r chi.Router) {
		r.Post("/", s.handleStartTraining)
		r.Get("/{id}", s.handleGetTraining)
		r.Post("/{id}/answer", s.handleSubmitAnswer)
		r.Post("/{id}/skip", s.handleSkipQuestion)
		r.Post("/{id}/continue", s.handleContinueTraining)
		r.Post("/{id}/restart", s.handleRestartTraining)
		r.Post("/{id}/reset", s.handleResetTraining)
		r.Get("/{id}/results", s.handleTrainingResults)
		r.Post("/{id}/notify", s.handleNotifyResult)
	})

	r.Route("/progress", func(r chi.Router) {
		r.Get("/", s.handleProgress)
		r.Get("/history", s.handleProgressHistory)
		r.With(s.parentMiddleware).Post("/clear", s.handleClearProgress)
	})

	r.Get("/notifications/last", s.handleLastNotification)

	return r
}
