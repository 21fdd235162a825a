package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"questionlists/internal/domain/vote"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

func (r *VoteRepo) Create(ctx context.Context, v *vote.Vote) error {
	query := `
        INSERT INTO votes (user_id, list_id, question_id, alternative_id, shared_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query,
		v.UserID, v.ListID, v.QuestionID, v.AlternativeID, v.SharedBy).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return vote.ErrAlreadyVoted
		}
		return err
	}
	return nil
}

func (r *VoteRepo) Exists(ctx context.Context, userID, questionID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (SELECT 1 FROM votes WHERE user_id = $1 AND question_id = $2)
    `, userID, questionID).Scan(&exists)
	return exists, err
}

func (r *VoteRepo) VotedAlternativeID(ctx context.Context, userID, questionID int64) (int64, error) {
	var altID int64
	err := r.db.QueryRowContext(ctx, `
        SELECT alternative_id FROM votes WHERE user_id = $1 AND question_id = $2
    `, userID, questionID).Scan(&altID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return altID, err
}

func (r *VoteRepo) AnsweredQuestionIDs(ctx context.Context, userID, listID int64) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT question_id FROM votes WHERE user_id = $1 AND list_id = $2
    `, userID, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]bool)
	for rows.Next() {
		var qID int64
		if err := rows.Scan(&qID); err != nil {
			return nil, err
		}
		res[qID] = true
	}
	return res, rows.Err()
}

func (r *VoteRepo) CountByList(ctx context.Context, listID int64) (map[int64]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT alternative_id, COUNT(*)
        FROM votes
        WHERE list_id = $1
        GROUP BY alternative_id
    `, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]int64)
	for rows.Next() {
		var altID, c int64
		if err := rows.Scan(&altID, &c); err != nil {
			return nil, err
		}
		res[altID] = c
	}
	return res, rows.Err()
}

func (r *VoteRepo) AggregatedByList(ctx context.Context, listID int64) (map[int64]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT alternative_id, votes_count
        FROM aggregated_results
        WHERE list_id = $1
    `, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]int64)
	for rows.Next() {
		var altID, c int64
		if err := rows.Scan(&altID, &c); err != nil {
			return nil, err
		}
		res[altID] = c
	}
	return res, rows.Err()
}

func (r *VoteRepo) IncrementAggregated(ctx context.Context, listID, alternativeID int64) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO aggregated_results (list_id, alternative_id, votes_count)
        VALUES ($1, $2, 1)
        ON CONFLICT (list_id, alternative_id) DO UPDATE
        SET votes_count = aggregated_results.votes_count + 1,
            updated_at = now()
    `, listID, alternativeID)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
