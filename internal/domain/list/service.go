package list

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrListActive        = errors.New("published list cannot be edited")
	ErrListIncomplete    = errors.New("list needs at least one question with two alternatives")
	ErrAlreadyPublished  = errors.New("list is already published")
	ErrNotOwner          = errors.New("user does not own this list")
	ErrQuestionNotInList = errors.New("question does not belong to this list")
)

type AlternativeInput struct {
	Title       string `json:"title"`
	ImageRef    string `json:"image_ref"`
	Attribution string `json:"attribution"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CanEdit is the single authoring predicate: only the owner may change a
// list, and only while it is still a draft.
func CanEdit(userID int64, l *List) bool {
	return l.OwnerID != nil && *l.OwnerID == userID && !l.Active
}

func (s *Service) Create(ctx context.Context, ownerID int64, title string, private bool) (*List, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title required")
	}

	slug, err := s.generateUniqueSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	l := &List{
		Title:   title,
		Slug:    slug,
		OwnerID: &ownerID,
		Private: private,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Rename regenerates the slug; the old slug is discarded, not aliased.
func (s *Service) Rename(ctx context.Context, userID, listID int64, newTitle string) (*List, error) {
	if strings.TrimSpace(newTitle) == "" {
		return nil, errors.New("title required")
	}

	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(userID, l) {
		return nil, editError(userID, l)
	}

	slug, err := s.generateUniqueSlug(ctx, newTitle)
	if err != nil {
		return nil, err
	}

	l.Title = newTitle
	l.Slug = slug
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) SetPrivate(ctx context.Context, userID, listID int64, private bool) (*List, error) {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(userID, l) {
		return nil, editError(userID, l)
	}
	l.Private = private
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, userID, listID int64) error {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if !CanEdit(userID, l) {
		return editError(userID, l)
	}
	return s.repo.Delete(ctx, listID)
}

// AddQuestion creates a question together with its two alternatives, so a
// stored question is always full.
func (s *Service) AddQuestion(ctx context.Context, userID, listID int64, title string, alternatives [2]AlternativeInput) (*Question, error) {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(userID, l) {
		return nil, editError(userID, l)
	}

	title = normalizeQuestionTitle(title)
	if title == "?" {
		return nil, errors.New("question title required")
	}

	q := &Question{
		Title:  title,
		Slug:   Slugify(title),
		ListID: listID,
	}
	alts, err := buildAlternatives(alternatives)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateQuestion(ctx, q, alts); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, userID, listID, questionID int64, title string, alternatives [2]AlternativeInput) (*Question, error) {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(userID, l) {
		return nil, editError(userID, l)
	}

	q, err := s.repo.QuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.ListID != listID {
		return nil, ErrQuestionNotInList
	}

	q.Title = normalizeQuestionTitle(title)
	q.Slug = Slugify(q.Title)
	alts, err := buildAlternatives(alternatives)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateQuestion(ctx, q, alts); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, userID, listID, questionID int64) error {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if !CanEdit(userID, l) {
		return editError(userID, l)
	}

	q, err := s.repo.QuestionByID(ctx, questionID)
	if err != nil {
		return err
	}
	if q.ListID != listID {
		return ErrQuestionNotInList
	}
	return s.repo.DeleteQuestion(ctx, questionID)
}

// CanPublish reports whether the list has at least one full question.
func (s *Service) CanPublish(ctx context.Context, listID int64) (bool, error) {
	n, err := s.repo.FullQuestionCount(ctx, listID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Publish flips the list to active. The transition happens once and is
// irreversible; publishing an incomplete or already published list is a
// validation failure.
func (s *Service) Publish(ctx context.Context, userID, listID int64) (*List, error) {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID == nil || *l.OwnerID != userID {
		return nil, ErrNotOwner
	}
	if l.Active {
		return nil, ErrAlreadyPublished
	}

	ok, err := s.CanPublish(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrListIncomplete
	}

	if err := s.repo.SetActive(ctx, listID); err != nil {
		return nil, err
	}
	l.Active = true
	return l, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*List, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) ActiveLists(ctx context.Context) ([]List, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListsByOwner(ctx context.Context, ownerID int64) ([]List, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Questions(ctx context.Context, listID int64) ([]Question, error) {
	return s.repo.Questions(ctx, listID)
}

func (s *Service) Alternatives(ctx context.Context, questionID int64) ([]Alternative, error) {
	return s.repo.Alternatives(ctx, questionID)
}

func editError(userID int64, l *List) error {
	if l.OwnerID == nil || *l.OwnerID != userID {
		return ErrNotOwner
	}
	return ErrListActive
}

func buildAlternatives(inputs [2]AlternativeInput) ([]Alternative, error) {
	alts := make([]Alternative, 0, 2)
	for _, in := range inputs {
		title := normalizeAlternativeTitle(in.Title)
		if title == "" {
			return nil, errors.New("both alternatives require a title")
		}
		alts = append(alts, Alternative{
			Title:       title,
			ImageRef:    in.ImageRef,
			Attribution: in.Attribution,
		})
	}
	return alts, nil
}

// normalizeQuestionTitle makes every stored question end with exactly one
// question mark.
func normalizeQuestionTitle(title string) string {
	title = strings.TrimSpace(strings.ReplaceAll(title, "?", ""))
	return title + "?"
}

// normalizeAlternativeTitle upper-cases the first letter.
func normalizeAlternativeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r)) + title[size:]
}
