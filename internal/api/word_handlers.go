package api

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Mkhisamo/learn-english/internal/errors"
	"github.com/Mkhisamo/learn-english/internal/export"
	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/models"
)

type wordRequest struct {
	English     string `json:"english"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	filter := models.WordFilter{CategoryID: r.URL.Query().Get("category")}
	words, err := s.Words.ListWords(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"words": words, "count": len(words)})
}

func (s *Server) handleCreateWord(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	word, err := s.Words.CreateWord(r.Context(), req.English, req.Translation, req.Category)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, word)
}

func (s *Server) handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	word, err := s.Words.UpdateWord(r.Context(), chi.URLParam(r, "id"), req.English, req.Translation, req.Category)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, word)
}

func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	if err := s.Words.DeleteWord(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Words.ListCategories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	category, err := s.Words.CreateCategory(r.Context(), req.Name, req.Icon, req.Color)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.Words.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleExportWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	filter := models.WordFilter{CategoryID: r.URL.Query().Get("category")}

	rows, err := s.Words.Export(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := export.WriteCSV(&buf, rows); err != nil {
			handleError(w, r, errors.NewInternalError(err))
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="words.csv"`)
	case "xlsx":
		if err := export.WriteXLSX(&buf, rows); err != nil {
			handleError(w, r, errors.NewInternalError(err))
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="words.xlsx"`)
	default:
		handleError(w, r, errors.NewValidationError("format", "must be csv or xlsx"))
		return
	}

	log.Info("exporting %d words as %s", len(rows), format)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("failed to write export: %v", err)
	}
}

func (s *Server) handleImportWords(w http.ResponseWriter, r *http.Request) {
	records, err := readImportRecords(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Words.Import(r.Context(), records)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

// readImportRecords accepts either a multipart upload under the "file"
// field or a raw CSV body.
func readImportRecords(r *http.Request) ([]export.Record, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, errors.NewBadRequestError("missing file upload: " + err.Error())
		}
		defer file.Close()

		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".xlsx":
			records, err := export.ReadXLSX(file)
			if err != nil {
				return nil, errors.NewBadRequestError(err.Error())
			}
			return records, nil
		case ".csv", "":
			records, err := export.ReadCSV(file)
			if err != nil {
				return nil, errors.NewBadRequestError(err.Error())
			}
			return records, nil
		default:
			return nil, errors.NewValidationError("file", "must be a .csv or .xlsx file")
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.NewBadRequestError("failed to read body: " + err.Error())
	}
	records, err := export.ReadCSV(bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	return records, nil
}
