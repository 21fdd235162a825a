package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"questionlists/internal/domain/vote"
	"questionlists/internal/metrics"
	"questionlists/internal/platform/apperr"
	"questionlists/internal/worker"
)

type voteRequest struct {
	AlternativeID int64 `json:"alternative_id"`
}

// sharedByParam reads the stateless sharing token from the URL. It is
// never stored in a session; every request carries it again.
func sharedByParam(r *http.Request) string {
	return r.URL.Query().Get("shared_by")
}

// @Summary     Next unanswered question
// @Tags        answering
// @Security    BearerAuth
// @Produce     json
// @Param       slug       path      string  true   "List slug"
// @Param       shared_by  query     string  false  "Username of the sharer"
// @Success     200  {object}  vote.NextQuestion
// @Failure     400  {object}  map[string]string  "list not published"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/lists/{slug}/next [get]
func (h *Handler) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	next, err := h.voteSvc.PresentNext(r.Context(), userIDFromCtx(r), l)
	if err != nil {
		if errors.Is(err, vote.ErrAllAnswered) {
			// completion is durable: send the user to results, keeping the
			// sharing token on the way
			writeJSON(w, http.StatusOK, map[string]any{
				"redirect":  "results",
				"shared_by": sharedByParam(r),
			})
			return
		}
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, next)
}

// @Summary     Record a vote
// @Tags        answering
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       slug       path      string       true   "List slug"
// @Param       shared_by  query     string       false  "Username of the sharer"
// @Param       request    body      voteRequest  true   "Vote payload"
// @Success     200  {object}  vote.Outcome
// @Failure     400  {object}  map[string]string  "invalid body or unpublished list"
// @Failure     422  {object}  vote.Outcome       "alternative outside this list"
// @Router      /api/v1/lists/{slug}/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if req.AlternativeID == 0 {
		errorResponse(w, apperr.BadRequest("invalid_input", "alternative_id is required", nil))
		return
	}

	outcome, err := h.voteSvc.Record(r.Context(), userIDFromCtx(r), l, req.AlternativeID, sharedByParam(r))
	if err != nil {
		errorResponse(w, err)
		return
	}

	metrics.IncVote(string(outcome.Status))

	if outcome.Status == vote.StatusAccepted {
		select {
		case h.voteCh <- worker.VoteEvent{ListID: l.ID, AlternativeID: req.AlternativeID}:
		default:
		}
	}

	status := http.StatusOK
	if outcome.Status == vote.StatusRejected {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{
		"status":    outcome.Status,
		"reason":    outcome.Reason,
		"remaining": outcome.Remaining,
		"completed": outcome.Completed,
		"shared_by": sharedByParam(r),
	})
}

// @Summary     List results
// @Tags        answering
// @Security    BearerAuth
// @Produce     json
// @Param       slug       path      string  true   "List slug"
// @Param       shared_by  query     string  false  "Username of the sharer to compare against"
// @Success     200  {object}  vote.ResultsView
// @Failure     404  {object}  map[string]string  "not found"
// @Failure     409  {object}  map[string]string  "viewer has unanswered questions"
// @Router      /api/v1/lists/{slug}/results [get]
func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	l, err := h.listSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	view, err := h.voteSvc.Results(r.Context(), l, userIDFromCtx(r), sharedByParam(r))
	if err != nil {
		if errors.Is(err, vote.ErrMustCompleteList) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"redirect":  "answer",
				"reason":    "must complete the list before seeing results",
				"shared_by": sharedByParam(r),
			})
			return
		}
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
