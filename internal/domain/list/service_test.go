package list

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

type memoryListRepo struct {
	mu         sync.Mutex
	lists      map[int64]*List
	questions  map[int64]*Question
	alts       map[int64][]Alternative
	nextListID int64
	nextQID    int64
	nextAltID  int64
}

func newMemoryListRepo() *memoryListRepo {
	return &memoryListRepo{
		lists:      make(map[int64]*List),
		questions:  make(map[int64]*Question),
		alts:       make(map[int64][]Alternative),
		nextListID: 1,
		nextQID:    1,
		nextAltID:  1,
	}
}

func (r *memoryListRepo) Create(ctx context.Context, l *List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = r.nextListID
	r.nextListID++
	l.CreatedAt = time.Now()
	l.ModifiedAt = l.CreatedAt
	copyList := *l
	r.lists[l.ID] = &copyList
	return nil
}

func (r *memoryListRepo) Update(ctx context.Context, l *List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.lists[l.ID]
	if !ok {
		return sql.ErrNoRows
	}
	l.ModifiedAt = time.Now()
	*stored = *l
	return nil
}

func (r *memoryListRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lists, id)
	return nil
}

func (r *memoryListRepo) GetByID(ctx context.Context, id int64) (*List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyList := *l
	return &copyList, nil
}

func (r *memoryListRepo) GetBySlug(ctx context.Context, slug string) (*List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lists {
		if l.Slug == slug {
			copyList := *l
			return &copyList, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryListRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lists {
		if l.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryListRepo) ListActive(ctx context.Context) ([]List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []List
	for _, l := range r.lists {
		if l.Active && !l.Private {
			res = append(res, *l)
		}
	}
	return res, nil
}

func (r *memoryListRepo) ListByOwner(ctx context.Context, ownerID int64) ([]List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []List
	for _, l := range r.lists {
		if l.OwnerID != nil && *l.OwnerID == ownerID {
			res = append(res, *l)
		}
	}
	return res, nil
}

func (r *memoryListRepo) SetActive(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.Active = true
	return nil
}

func (r *memoryListRepo) Questions(ctx context.Context, listID int64) ([]Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Question
	for _, q := range r.questions {
		if q.ListID == listID {
			res = append(res, *q)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *memoryListRepo) QuestionByID(ctx context.Context, id int64) (*Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyQ := *q
	return &copyQ, nil
}

func (r *memoryListRepo) CreateQuestion(ctx context.Context, q *Question, alternatives []Alternative) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.ID = r.nextQID
	r.nextQID++
	q.CreatedAt = time.Now()
	copyQ := *q
	r.questions[q.ID] = &copyQ

	stored := make([]Alternative, len(alternatives))
	for i, a := range alternatives {
		a.ID = r.nextAltID
		r.nextAltID++
		a.QuestionID = q.ID
		stored[i] = a
		alternatives[i] = a
	}
	r.alts[q.ID] = stored
	return nil
}

func (r *memoryListRepo) UpdateQuestion(ctx context.Context, q *Question, alternatives []Alternative) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.questions[q.ID]
	if !ok {
		return sql.ErrNoRows
	}
	*stored = *q
	replaced := make([]Alternative, len(alternatives))
	for i, a := range alternatives {
		a.ID = r.nextAltID
		r.nextAltID++
		a.QuestionID = q.ID
		replaced[i] = a
	}
	r.alts[q.ID] = replaced
	return nil
}

func (r *memoryListRepo) DeleteQuestion(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.questions, id)
	delete(r.alts, id)
	return nil
}

func (r *memoryListRepo) Alternatives(ctx context.Context, questionID int64) ([]Alternative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Alternative, len(r.alts[questionID]))
	copy(res, r.alts[questionID])
	return res, nil
}

func (r *memoryListRepo) AlternativeByID(ctx context.Context, id int64) (*Alternative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alts := range r.alts {
		for _, a := range alts {
			if a.ID == id {
				copyA := a
				return &copyA, nil
			}
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryListRepo) FullQuestionCount(ctx context.Context, listID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, q := range r.questions {
		if q.ListID == listID && len(r.alts[q.ID]) == 2 {
			n++
		}
	}
	return n, nil
}

// seedPartialQuestion stores a question with fewer than two alternatives,
// bypassing the service, to exercise the completion gate.
func (r *memoryListRepo) seedPartialQuestion(listID int64, altCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := &Question{ID: r.nextQID, Title: "Partial?", ListID: listID}
	r.nextQID++
	r.questions[q.ID] = q
	for i := 0; i < altCount; i++ {
		r.alts[q.ID] = append(r.alts[q.ID], Alternative{ID: r.nextAltID, QuestionID: q.ID, Title: "X"})
		r.nextAltID++
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Food List":       "my-food-list",
		"  Spaces  Around  ": "spaces-around",
		"Ünïcödé Titles":     "ünïcödé-titles",
		"lots!!of??punct":    "lots-of-punct",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueSlugSuffixes(t *testing.T) {
	repo := newMemoryListRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, "Food", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, 1, "Food", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	third, err := svc.Create(ctx, 1, "Food", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.Slug != "food" {
		t.Errorf("first slug = %q, want food", first.Slug)
	}
	if second.Slug != "food-1" {
		t.Errorf("second slug = %q, want food-1", second.Slug)
	}
	if third.Slug != "food-2" {
		t.Errorf("third slug = %q, want food-2", third.Slug)
	}
}

func TestRenameRegeneratesSlug(t *testing.T) {
	repo := newMemoryListRepo()
	svc := NewService(repo)
	ctx := context.Background()

	l, err := svc.Create(ctx, 1, "Old Title", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	renamed, err := svc.Rename(ctx, 1, l.ID, "New Title")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Slug != "new-title" {
		t.Errorf("slug = %q, want new-title", renamed.Slug)
	}

	if _, err := svc.Rename(ctx, 2, l.ID, "Hijack"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner for non-owner rename, got %v", err)
	}
}

func TestCompletionGate(t *testing.T) {
	repo := newMemoryListRepo()
	svc := NewService(repo)
	ctx := context.Background()

	l, err := svc.Create(ctx, 1, "Gate", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if ok, _ := svc.CanPublish(ctx, l.ID); ok {
		t.Fatal("empty list must not be publishable")
	}

	repo.seedPartialQuestion(l.ID, 0)
	if ok, _ := svc.CanPublish(ctx, l.ID); ok {
		t.Fatal("list with a zero-alternative question must not be publishable")
	}

	repo.seedPartialQuestion(l.ID, 1)
	if ok, _ := svc.CanPublish(ctx, l.ID); ok {
		t.Fatal("list with a one-alternative question must not be publishable")
	}

	if _, err := svc.Publish(ctx, 1, l.ID); !errors.Is(err, ErrListIncomplete) {
		t.Fatalf("expected ErrListIncomplete, got %v", err)
	}

	if _, err := svc.AddQuestion(ctx, 1, l.ID, "Pizza or Burger", [2]AlternativeInput{
		{Title: "pizza"}, {Title: "burger"},
	}); err != nil {
		t.Fatalf("add question: %v", err)
	}

	if ok, _ := svc.CanPublish(ctx, l.ID); !ok {
		t.Fatal("list with a full question must be publishable")
	}
}

func TestPublishIsMonotonic(t *testing.T) {
	repo := newMemoryListRepo()
	svc := NewService(repo)
	ctx := context.Background()

	l, _ := svc.Create(ctx, 1, "Once", false)
	if _, err := svc.AddQuestion(ctx, 1, l.ID, "A or B", [2]AlternativeInput{
		{Title: "a"}, {Title: "b"},
	}); err != nil {
		t.Fatalf("add question: %v", err)
	}

	published, err := svc.Publish(ctx, 1, l.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.Active {
		t.Fatal("publish must set active")
	}

	if _, err := svc.Publish(ctx, 1, l.ID); !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}

	if _, err := svc.AddQuestion(ctx, 1, l.ID, "Too late", [2]AlternativeInput{
		{Title: "x"}, {Title: "y"},
	}); !errors.Is(err, ErrListActive) {
		t.Fatalf("expected ErrListActive for post-publish edit, got %v", err)
	}
	if _, err := svc.Rename(ctx, 1, l.ID, "Too late"); !errors.Is(err, ErrListActive) {
		t.Fatalf("expected ErrListActive for post-publish rename, got %v", err)
	}
}

func TestQuestionNormalization(t *testing.T) {
	repo := newMemoryListRepo()
	svc := NewService(repo)
	ctx := context.Background()

	l, _ := svc.Create(ctx, 1, "Norm", false)
	q, err := svc.AddQuestion(ctx, 1, l.ID, "Pizza or Burger???", [2]AlternativeInput{
		{Title: "pizza"}, {Title: "burger"},
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if q.Title != "Pizza or Burger?" {
		t.Errorf("question title = %q, want single trailing question mark", q.Title)
	}

	alts, err := svc.Alternatives(ctx, q.ID)
	if err != nil {
		t.Fatalf("alternatives: %v", err)
	}
	if len(alts) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(alts))
	}
	if alts[0].Title != "Pizza" || alts[1].Title != "Burger" {
		t.Errorf("alternative titles not capitalized: %q, %q", alts[0].Title, alts[1].Title)
	}
}

func TestCanEditPredicate(t *testing.T) {
	owner := int64(7)
	draft := &List{OwnerID: &owner, Active: false}
	published := &List{OwnerID: &owner, Active: true}
	orphan := &List{OwnerID: nil, Active: false}

	if !CanEdit(7, draft) {
		t.Error("owner must be able to edit a draft")
	}
	if CanEdit(8, draft) {
		t.Error("non-owner must not edit")
	}
	if CanEdit(7, published) {
		t.Error("published list must not be editable")
	}
	if CanEdit(7, orphan) {
		t.Error("ownerless list must not be editable")
	}
}
