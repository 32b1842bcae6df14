package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobber/internal/database"
	"jobber/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrTagNotFound = errors.New("tag not found")

type TagRepository interface {
	GetBySlug(ctx context.Context, slug string) (*model.Tag, error)

	// GetOrCreate resolves tag text to its record by slug, creating the
	// record when no slug match exists.
	GetOrCreate(ctx context.Context, text string) (*model.Tag, error)

	List(ctx context.Context) ([]model.Tag, error)
}

type PostgresTagRepository struct {
	q database.Querier
}

func (r *PostgresTagRepository) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var t model.Tag
	row := r.q.QueryRow(ctx, `SELECT slug, tag, created FROM tags WHERE slug = $1`, slug)
	if err := row.Scan(&t.Slug, &t.Tag, &t.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresTagRepository) GetOrCreate(ctx context.Context, text string) (*model.Tag, error) {
	tag, err := model.NewTag(text)
	if err != nil {
		return nil, err
	}

	existing, err := r.GetBySlug(ctx, tag.Slug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrTagNotFound) {
		return nil, err
	}

	_, err = r.q.Exec(ctx,
		`INSERT INTO tags (slug, tag, created) VALUES ($1, $2, $3)
		 ON CONFLICT (slug) DO NOTHING`,
		tag.Slug, tag.Tag, tag.Created,
	)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *PostgresTagRepository) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.q.Query(ctx, `SELECT slug, tag, created FROM tags ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.Slug, &t.Tag, &t.Created); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
