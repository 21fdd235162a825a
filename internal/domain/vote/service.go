package vote

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sync"
	"time"

	"questionlists/internal/domain/list"
	"questionlists/internal/domain/user"
)

var (
	ErrAlreadyVoted     = errors.New("user already voted for this question")
	ErrListNotActive    = errors.New("list is not published")
	ErrAllAnswered      = errors.New("all questions already answered")
	ErrMustCompleteList = errors.New("list must be completed before seeing results")
)

type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusDuplicate Status = "duplicate"
	StatusRejected  Status = "rejected"
)

// NextQuestion is the answering engine's presentation of the first
// unanswered question.
type NextQuestion struct {
	Question     list.Question      `json:"question"`
	Alternatives []list.Alternative `json:"alternatives"`
	Progress     float64            `json:"progress"`
}

// Outcome reports what recording a vote did and where the user stands
// afterwards.
type Outcome struct {
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
	Remaining int    `json:"remaining"`
	Completed bool   `json:"completed"`
}

type AlternativeResult struct {
	Alternative list.Alternative `json:"alternative"`
	Votes       int64            `json:"votes"`
	Percentage  float64          `json:"percentage"`
}

// ResultRow pairs a question with the tallies of its two alternatives and
// the choices of the viewer and, when shown, the sharer.
type ResultRow struct {
	Question     list.Question       `json:"question"`
	Alternatives []AlternativeResult `json:"alternatives"`
	ViewerChoice *list.Alternative   `json:"viewer_choice,omitempty"`
	SharerChoice *list.Alternative   `json:"sharer_choice,omitempty"`
}

type ResultsView struct {
	List *list.List  `json:"list"`
	Rows []ResultRow `json:"rows"`
	// SharedBy is the resolved sharer when a sharing token was present and
	// the sharer has completed the list.
	SharedBy *user.User `json:"shared_by,omitempty"`
	// SharerPending flags a sharer who has not finished answering; their
	// choices are suppressed and the comparison degrades to viewer-only.
	SharerPending bool `json:"sharer_pending,omitempty"`
}

type cachedTally struct {
	counts    map[int64]int64
	expiresAt time.Time
}

type Service struct {
	repo  Repository
	lists list.Repository
	users user.Repository

	mu       sync.Mutex
	cache    map[int64]cachedTally
	cacheTTL time.Duration
}

func NewService(repo Repository, lists list.Repository, users user.Repository) *Service {
	return &Service{
		repo:     repo,
		lists:    lists,
		users:    users,
		cache:    make(map[int64]cachedTally),
		cacheTTL: 5 * time.Second,
	}
}

// Unanswered returns the questions of the list the user has not voted on,
// in answering order (question id ascending).
func (s *Service) Unanswered(ctx context.Context, userID, listID int64) ([]list.Question, error) {
	questions, err := s.lists.Questions(ctx, listID)
	if err != nil {
		return nil, err
	}
	answered, err := s.repo.AnsweredQuestionIDs(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	unanswered := make([]list.Question, 0, len(questions))
	for _, q := range questions {
		if !answered[q.ID] {
			unanswered = append(unanswered, q)
		}
	}
	return unanswered, nil
}

func (s *Service) UnansweredCount(ctx context.Context, userID, listID int64) (int, error) {
	unanswered, err := s.Unanswered(ctx, userID, listID)
	if err != nil {
		return 0, err
	}
	return len(unanswered), nil
}

// PresentNext returns the first unanswered question with its alternatives
// and the progress percentage. The question being presented counts as in
// progress, hence the +1 in the formula.
func (s *Service) PresentNext(ctx context.Context, userID int64, l *list.List) (*NextQuestion, error) {
	if !l.Active {
		return nil, ErrListNotActive
	}

	questions, err := s.lists.Questions(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	answered, err := s.repo.AnsweredQuestionIDs(ctx, userID, l.ID)
	if err != nil {
		return nil, err
	}

	unanswered := make([]list.Question, 0, len(questions))
	for _, q := range questions {
		if !answered[q.ID] {
			unanswered = append(unanswered, q)
		}
	}
	if len(unanswered) == 0 {
		return nil, ErrAllAnswered
	}

	next := unanswered[0]
	alternatives, err := s.lists.Alternatives(ctx, next.ID)
	if err != nil {
		return nil, err
	}

	total := len(questions)
	progress := float64(total-len(unanswered)+1) / float64(total) * 100

	return &NextQuestion{
		Question:     next,
		Alternatives: alternatives,
		Progress:     progress,
	}, nil
}

// Record applies one vote. Alternatives outside the target list are
// rejected without creating anything; a resubmit for an already answered
// question is a silent no-op that still reports the user's next state.
func (s *Service) Record(ctx context.Context, userID int64, l *list.List, alternativeID int64, sharedBy string) (*Outcome, error) {
	if !l.Active {
		return nil, ErrListNotActive
	}

	alt, err := s.lists.AlternativeByID(ctx, alternativeID)
	if err != nil {
		if isNotFound(err) {
			return &Outcome{Status: StatusRejected, Reason: "alternative_not_found"}, nil
		}
		return nil, err
	}

	q, err := s.lists.QuestionByID(ctx, alt.QuestionID)
	if err != nil {
		return nil, err
	}
	if q.ListID != l.ID {
		// forged request: the alternative belongs to some other list
		return &Outcome{Status: StatusRejected, Reason: "alternative_not_in_list"}, nil
	}

	status := StatusAccepted
	already, err := s.repo.Exists(ctx, userID, q.ID)
	if err != nil {
		return nil, err
	}
	if already {
		status = StatusDuplicate
	} else {
		v := &Vote{
			UserID:        userID,
			ListID:        l.ID,
			QuestionID:    q.ID,
			AlternativeID: alternativeID,
		}
		if sharedBy != "" {
			v.SharedBy = &sharedBy
		}
		if err := s.repo.Create(ctx, v); err != nil {
			if errors.Is(err, ErrAlreadyVoted) {
				// lost a race with ourselves; same as the duplicate path
				status = StatusDuplicate
			} else {
				return nil, err
			}
		}
	}

	if status == StatusAccepted {
		s.invalidateTally(l.ID)
	}

	remaining, err := s.UnansweredCount(ctx, userID, l.ID)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Status:    status,
		Remaining: remaining,
		Completed: remaining == 0,
	}, nil
}

// Results builds the aggregated view for a viewer who has completed the
// list. With a sharing token it adds the sharer's choices, unless the
// sharer has unanswered questions left, in which case their data is
// suppressed and SharerPending is set.
func (s *Service) Results(ctx context.Context, l *list.List, viewerID int64, sharedByUsername string) (*ResultsView, error) {
	viewerRemaining, err := s.UnansweredCount(ctx, viewerID, l.ID)
	if err != nil {
		return nil, err
	}
	if viewerRemaining > 0 {
		return nil, ErrMustCompleteList
	}

	questions, err := s.lists.Questions(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	counts, err := s.tallies(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	view := &ResultsView{List: l, Rows: make([]ResultRow, 0, len(questions))}

	var sharer *user.User
	if sharedByUsername != "" {
		sharer, err = s.users.GetByUsername(ctx, sharedByUsername)
		if err != nil {
			return nil, err
		}
		sharerRemaining, err := s.UnansweredCount(ctx, sharer.ID, l.ID)
		if err != nil {
			return nil, err
		}
		if sharerRemaining > 0 {
			view.SharerPending = true
			sharer = nil
		} else {
			view.SharedBy = sharer
		}
	}

	for _, q := range questions {
		alternatives, err := s.lists.Alternatives(ctx, q.ID)
		if err != nil {
			return nil, err
		}

		var total int64
		for _, a := range alternatives {
			total += counts[a.ID]
		}

		row := ResultRow{Question: q, Alternatives: make([]AlternativeResult, 0, len(alternatives))}
		for _, a := range alternatives {
			row.Alternatives = append(row.Alternatives, AlternativeResult{
				Alternative: a,
				Votes:       counts[a.ID],
				Percentage:  percentage(counts[a.ID], total),
			})
		}

		row.ViewerChoice, err = s.votedAlternative(ctx, viewerID, q.ID, alternatives)
		if err != nil {
			return nil, err
		}
		if sharer != nil {
			row.SharerChoice, err = s.votedAlternative(ctx, sharer.ID, q.ID, alternatives)
			if err != nil {
				return nil, err
			}
		}

		view.Rows = append(view.Rows, row)
	}

	return view, nil
}

// Aggregates reads the per-alternative counters the stats worker
// maintains off the request path. Results pages stay on live counts;
// this is the cheap read for reporting.
func (s *Service) Aggregates(ctx context.Context, listID int64) (map[int64]int64, error) {
	return s.repo.AggregatedByList(ctx, listID)
}

func (s *Service) votedAlternative(ctx context.Context, userID, questionID int64, alternatives []list.Alternative) (*list.Alternative, error) {
	altID, err := s.repo.VotedAlternativeID(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	for i := range alternatives {
		if alternatives[i].ID == altID {
			return &alternatives[i], nil
		}
	}
	return nil, nil
}

// tallies returns per-alternative vote counts for the list, cached for a
// short TTL since results pages are read-heavy.
func (s *Service) tallies(ctx context.Context, listID int64) (map[int64]int64, error) {
	s.mu.Lock()
	if c, ok := s.cache[listID]; ok && time.Now().Before(c.expiresAt) {
		s.mu.Unlock()
		return c.counts, nil
	}
	s.mu.Unlock()

	counts, err := s.repo.CountByList(ctx, listID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[listID] = cachedTally{counts: counts, expiresAt: time.Now().Add(s.cacheTTL)}
	s.mu.Unlock()
	return counts, nil
}

func (s *Service) invalidateTally(listID int64) {
	s.mu.Lock()
	delete(s.cache, listID)
	s.mu.Unlock()
}

// percentage of votes within one question, rounded to 2 decimal places.
// max(1, total) keeps the zero-votes case at 0 instead of dividing by zero.
func percentage(votes, total int64) float64 {
	if total < 1 {
		total = 1
	}
	return math.Round(float64(votes)/float64(total)*100*100) / 100
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
