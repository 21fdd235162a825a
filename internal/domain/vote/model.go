package vote

import (
	"context"
	"time"
)

// Vote is one user's immutable choice for one question. SharedBy carries
// the username of the person whose shared link the voter followed, if any.
type Vote struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ListID        int64     `json:"list_id"`
	QuestionID    int64     `json:"question_id"`
	AlternativeID int64     `json:"alternative_id"`
	SharedBy      *string   `json:"shared_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Repository interface {
	// Create persists the vote. Implementations must enforce uniqueness of
	// (user_id, question_id) and return ErrAlreadyVoted when it is violated,
	// so a concurrent resubmit folds into the duplicate path.
	Create(ctx context.Context, v *Vote) error
	Exists(ctx context.Context, userID, questionID int64) (bool, error)
	// VotedAlternativeID returns 0 when the user has no vote for the question.
	VotedAlternativeID(ctx context.Context, userID, questionID int64) (int64, error)
	AnsweredQuestionIDs(ctx context.Context, userID, listID int64) (map[int64]bool, error)
	// CountByList returns alternative id -> vote count for the whole list.
	CountByList(ctx context.Context, listID int64) (map[int64]int64, error)
	AggregatedByList(ctx context.Context, listID int64) (map[int64]int64, error)
	IncrementAggregated(ctx context.Context, listID, alternativeID int64) error
}
