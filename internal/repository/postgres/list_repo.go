package postgres

import (
	"context"
	"database/sql"

	"questionlists/internal/domain/list"
)

type ListRepo struct {
	db *sql.DB
}

func NewListRepo(db *sql.DB) *ListRepo {
	return &ListRepo{db: db}
}

func (r *ListRepo) Create(ctx context.Context, l *list.List) error {
	query := `
        INSERT INTO lists (title, slug, owner_id, active, private)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, modified_at
    `
	return r.db.QueryRowContext(ctx, query, l.Title, l.Slug, l.OwnerID, l.Active, l.Private).
		Scan(&l.ID, &l.CreatedAt, &l.ModifiedAt)
}

func (r *ListRepo) Update(ctx context.Context, l *list.List) error {
	query := `
        UPDATE lists
        SET title = $1, slug = $2, private = $3, modified_at = now()
        WHERE id = $4
        RETURNING modified_at
    `
	return r.db.QueryRowContext(ctx, query, l.Title, l.Slug, l.Private, l.ID).
		Scan(&l.ModifiedAt)
}

func (r *ListRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	return err
}

func (r *ListRepo) GetByID(ctx context.Context, id int64) (*list.List, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *ListRepo) GetBySlug(ctx context.Context, slug string) (*list.List, error) {
	return r.getWhere(ctx, "slug = $1", slug)
}

func (r *ListRepo) getWhere(ctx context.Context, cond string, arg any) (*list.List, error) {
	query := `
        SELECT id, title, slug, owner_id, active, private, created_at, modified_at
        FROM lists WHERE ` + cond
	l := &list.List{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&l.ID, &l.Title, &l.Slug, &l.OwnerID, &l.Active, &l.Private, &l.CreatedAt, &l.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *ListRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM lists WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *ListRepo) ListActive(ctx context.Context) ([]list.List, error) {
	return r.listWhere(ctx, `WHERE active = true AND private = false ORDER BY created_at DESC`)
}

func (r *ListRepo) ListByOwner(ctx context.Context, ownerID int64) ([]list.List, error) {
	return r.listWhere(ctx, `WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *ListRepo) listWhere(ctx context.Context, tail string, args ...any) ([]list.List, error) {
	query := `
        SELECT id, title, slug, owner_id, active, private, created_at, modified_at
        FROM lists ` + tail
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []list.List
	for rows.Next() {
		var l list.List
		if err := rows.Scan(&l.ID, &l.Title, &l.Slug, &l.OwnerID, &l.Active, &l.Private,
			&l.CreatedAt, &l.ModifiedAt); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func (r *ListRepo) SetActive(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE lists SET active = true, modified_at = now() WHERE id = $1`, id)
	return err
}

func (r *ListRepo) Questions(ctx context.Context, listID int64) ([]list.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, slug, list_id, created_at
        FROM questions WHERE list_id = $1 ORDER BY id
    `, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []list.Question
	for rows.Next() {
		var q list.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Slug, &q.ListID, &q.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, q)
	}
	return res, rows.Err()
}

func (r *ListRepo) QuestionByID(ctx context.Context, id int64) (*list.Question, error) {
	q := &list.Question{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, title, slug, list_id, created_at
        FROM questions WHERE id = $1
    `, id).Scan(&q.ID, &q.Title, &q.Slug, &q.ListID, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *ListRepo) CreateQuestion(ctx context.Context, q *list.Question, alternatives []list.Alternative) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
        INSERT INTO questions (title, slug, list_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, q.Title, q.Slug, q.ListID).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return err
	}

	for i := range alternatives {
		alternatives[i].QuestionID = q.ID
		err = tx.QueryRowContext(ctx, `
            INSERT INTO alternatives (title, question_id, image_ref, attribution)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `, alternatives[i].Title, alternatives[i].QuestionID,
			alternatives[i].ImageRef, alternatives[i].Attribution).
			Scan(&alternatives[i].ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ListRepo) UpdateQuestion(ctx context.Context, q *list.Question, alternatives []list.Alternative) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE questions SET title = $1, slug = $2 WHERE id = $3`,
		q.Title, q.Slug, q.ID); err != nil {
		return err
	}

	// replace both alternatives; draft lists carry no votes yet
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM alternatives WHERE question_id = $1`, q.ID); err != nil {
		return err
	}
	for i := range alternatives {
		alternatives[i].QuestionID = q.ID
		err = tx.QueryRowContext(ctx, `
            INSERT INTO alternatives (title, question_id, image_ref, attribution)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `, alternatives[i].Title, alternatives[i].QuestionID,
			alternatives[i].ImageRef, alternatives[i].Attribution).
			Scan(&alternatives[i].ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ListRepo) DeleteQuestion(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

func (r *ListRepo) Alternatives(ctx context.Context, questionID int64) ([]list.Alternative, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, question_id, image_ref, attribution
        FROM alternatives WHERE question_id = $1 ORDER BY id
    `, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []list.Alternative
	for rows.Next() {
		var a list.Alternative
		if err := rows.Scan(&a.ID, &a.Title, &a.QuestionID, &a.ImageRef, &a.Attribution); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *ListRepo) AlternativeByID(ctx context.Context, id int64) (*list.Alternative, error) {
	a := &list.Alternative{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, title, question_id, image_ref, attribution
        FROM alternatives WHERE id = $1
    `, id).Scan(&a.ID, &a.Title, &a.QuestionID, &a.ImageRef, &a.Attribution)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ListRepo) FullQuestionCount(ctx context.Context, listID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*)
        FROM (
            SELECT q.id
            FROM questions q
            JOIN alternatives a ON a.question_id = q.id
            WHERE q.list_id = $1
            GROUP BY q.id
            HAVING COUNT(a.id) = 2
        ) full_questions
    `, listID).Scan(&n)
	return n, err
}
