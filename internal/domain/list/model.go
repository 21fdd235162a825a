package list

import (
	"context"
	"time"
)

// A question list is authored as a draft (Active=false), filled with
// questions, and published exactly once. After publication its structure
// is frozen; only votes accumulate.
type List struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	OwnerID    *int64    `json:"owner_id,omitempty"`
	Active     bool      `json:"active"`
	Private    bool      `json:"private"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

type Question struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	ListID    int64     `json:"list_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Alternative struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	QuestionID  int64  `json:"question_id"`
	ImageRef    string `json:"image_ref,omitempty"`
	Attribution string `json:"attribution,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, l *List) error
	Update(ctx context.Context, l *List) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*List, error)
	GetBySlug(ctx context.Context, slug string) (*List, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListActive(ctx context.Context) ([]List, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]List, error)
	SetActive(ctx context.Context, id int64) error

	// Questions returns the list's questions ordered by id ascending.
	// That order is the answering order and must be stable.
	Questions(ctx context.Context, listID int64) ([]Question, error)
	QuestionByID(ctx context.Context, id int64) (*Question, error)
	CreateQuestion(ctx context.Context, q *Question, alternatives []Alternative) error
	UpdateQuestion(ctx context.Context, q *Question, alternatives []Alternative) error
	DeleteQuestion(ctx context.Context, id int64) error
	Alternatives(ctx context.Context, questionID int64) ([]Alternative, error)
	AlternativeByID(ctx context.Context, id int64) (*Alternative, error)
	FullQuestionCount(ctx context.Context, listID int64) (int64, error)
}
