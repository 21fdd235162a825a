package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"questionlists/internal/platform/apperr"
)

type createListRequest struct {
	Title   string `json:"title"`
	Private bool   `json:"private"`
}

type updateListRequest struct {
	Title   *string `json:"title"`
	Private *bool   `json:"private"`
}

func (h *Handler) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	l, err := h.listSvc.Create(r.Context(), userIDFromCtx(r), req.Title, req.Private)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, l)
}

func (h *Handler) handleActiveLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.listSvc.ActiveLists(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *Handler) handleMyLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.listSvc.ListsByOwner(r.Context(), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *Handler) handleGetList(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	questions, err := h.listSvc.Questions(r.Context(), l.ID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"list":      l,
		"questions": questions,
	})
}

func (h *Handler) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	var req updateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	userID := userIDFromCtx(r)
	if req.Title != nil {
		if l, err = h.listSvc.Rename(r.Context(), userID, l.ID, *req.Title); err != nil {
			errorResponse(w, err)
			return
		}
	}
	if req.Private != nil {
		if l, err = h.listSvc.SetPrivate(r.Context(), userID, l.ID, *req.Private); err != nil {
			errorResponse(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	if err := h.listSvc.Delete(r.Context(), userIDFromCtx(r), l.ID); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePublishList(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	l, err = h.listSvc.Publish(r.Context(), userIDFromCtx(r), l.ID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, l)
}
