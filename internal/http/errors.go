package api

import (
	"database/sql"
	"errors"
	"net/http"

	"questionlists/internal/domain/list"
	"questionlists/internal/domain/user"
	"questionlists/internal/domain/vote"
	"questionlists/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, user.ErrInactiveUser):
		return apperr.Unauthorized("inactive_user", "user is inactive", err)
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.BadRequest("email_taken", "email already taken", err)
	case errors.Is(err, user.ErrUsernameTaken):
		return apperr.BadRequest("username_taken", "username already taken", err)
	case errors.Is(err, list.ErrNotOwner):
		return apperr.Forbidden("not_owner", "only the owner may change this list", err)
	case errors.Is(err, list.ErrListActive):
		return apperr.BadRequest("list_published", "published lists cannot be edited", err)
	case errors.Is(err, list.ErrListIncomplete):
		return apperr.BadRequest("list_incomplete", "list needs at least one question with two alternatives", err)
	case errors.Is(err, list.ErrAlreadyPublished):
		return apperr.Conflict("already_published", "list is already published", err)
	case errors.Is(err, list.ErrQuestionNotInList):
		return apperr.BadRequest("question_not_in_list", "question does not belong to this list", err)
	case errors.Is(err, vote.ErrListNotActive):
		return apperr.BadRequest("list_not_active", "the list you are trying to see is incomplete", err)
	case errors.Is(err, vote.ErrAlreadyVoted):
		return apperr.Conflict("already_voted", "question already answered", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
