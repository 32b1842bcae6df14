package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobber/internal/database"
	"jobber/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrBroadcastNotFound = errors.New("broadcast not found")

type BroadcastRepository interface {
	Create(ctx context.Context, b *model.SocialBroadcast) error

	// LastSuccessful returns the most recent successful broadcast of the job
	// across all services.
	LastSuccessful(ctx context.Context, jobID int64) (*model.SocialBroadcast, error)
}

type PostgresBroadcastRepository struct {
	q database.Querier
}

func (r *PostgresBroadcastRepository) Create(ctx context.Context, b *model.SocialBroadcast) error {
	row := r.q.QueryRow(ctx,
		`INSERT INTO social_broadcasts (job_id, service, success, created)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		b.JobID, b.Service, b.Success, b.Created,
	)
	return row.Scan(&b.ID)
}

func (r *PostgresBroadcastRepository) LastSuccessful(ctx context.Context, jobID int64) (*model.SocialBroadcast, error) {
	var b model.SocialBroadcast
	row := r.q.QueryRow(ctx,
		`SELECT id, job_id, service, success, created
		 FROM social_broadcasts
		 WHERE job_id = $1 AND success
		 ORDER BY created DESC
		 LIMIT 1`,
		jobID,
	)
	if err := row.Scan(&b.ID, &b.JobID, &b.Service, &b.Success, &b.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBroadcastNotFound
		}
		return nil, err
	}
	return &b, nil
}
