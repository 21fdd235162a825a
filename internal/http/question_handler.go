package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"questionlists/internal/domain/list"
	"questionlists/internal/platform/apperr"
)

type questionRequest struct {
	Title        string                   `json:"title"`
	Alternatives [2]list.AlternativeInput `json:"alternatives"`
}

func (h *Handler) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	q, err := h.listSvc.AddQuestion(r.Context(), userIDFromCtx(r), l.ID, req.Title, req.Alternatives)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	questionID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid question id", err))
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	q, err := h.listSvc.UpdateQuestion(r.Context(), userIDFromCtx(r), l.ID, questionID, req.Title, req.Alternatives)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	questionID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid question id", err))
		return
	}

	if err := h.listSvc.DeleteQuestion(r.Context(), userIDFromCtx(r), l.ID, questionID); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
