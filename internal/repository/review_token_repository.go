package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobber/internal/database"
	"jobber/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrReviewTokenNotFound = errors.New("review token not found")

type ReviewTokenRepository interface {
	Create(ctx context.Context, token *model.ReviewToken) error
	GetByToken(ctx context.Context, token string) (*model.ReviewToken, error)

	// MarkUsed flips the single-use guard. It only succeeds for a token that
	// is still unused, so two concurrent reviews cannot both consume it.
	MarkUsed(ctx context.Context, token *model.ReviewToken) error
}

type PostgresReviewTokenRepository struct {
	q database.Querier
}

func (r *PostgresReviewTokenRepository) Create(ctx context.Context, token *model.ReviewToken) error {
	row := r.q.QueryRow(ctx,
		`INSERT INTO email_review_tokens (token, used, used_at, job_id, created)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		token.Token, token.Used, token.UsedAt, token.JobID, token.Created,
	)
	return row.Scan(&token.ID)
}

func (r *PostgresReviewTokenRepository) GetByToken(ctx context.Context, token string) (*model.ReviewToken, error) {
	var t model.ReviewToken
	row := r.q.QueryRow(ctx,
		`SELECT id, token, used, used_at, job_id, created
		 FROM email_review_tokens WHERE token = $1`,
		token,
	)
	if err := row.Scan(&t.ID, &t.Token, &t.Used, &t.UsedAt, &t.JobID, &t.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresReviewTokenRepository) MarkUsed(ctx context.Context, token *model.ReviewToken) error {
	token.Use()
	n, err := r.q.Exec(ctx,
		`UPDATE email_review_tokens SET used = TRUE, used_at = $2
		 WHERE id = $1 AND NOT used`,
		token.ID, token.UsedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewTokenNotFound
	}
	return nil
}
