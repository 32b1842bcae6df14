package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobber/internal/database"
	"jobber/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrLocationNotFound = errors.New("location not found")

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) error
	GetByID(ctx context.Context, id int64) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
}

type PostgresLocationRepository struct {
	q database.Querier
}

func (r *PostgresLocationRepository) Create(ctx context.Context, location *model.Location) error {
	row := r.q.QueryRow(ctx,
		`INSERT INTO locations (city, country_code, created)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		location.City, location.CountryCode, location.Created,
	)
	return row.Scan(&location.ID)
}

func (r *PostgresLocationRepository) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	var l model.Location
	row := r.q.QueryRow(ctx,
		`SELECT id, city, country_code, created FROM locations WHERE id = $1`,
		id,
	)
	if err := row.Scan(&l.ID, &l.City, &l.CountryCode, &l.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PostgresLocationRepository) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, city, country_code, created FROM locations ORDER BY city`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.City, &l.CountryCode, &l.Created); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
