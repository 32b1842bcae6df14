package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobber/internal/database"
	"jobber/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrCompanyNotFound = errors.New("company not found")

// Company names are deliberately non-unique: recruiters often don't know an
// existing record exists and duplicates are cheaper than blocked submissions.
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	GetByID(ctx context.Context, id int64) (*model.Company, error)
}

type PostgresCompanyRepository struct {
	q database.Querier
}

func (r *PostgresCompanyRepository) Create(ctx context.Context, company *model.Company) error {
	row := r.q.QueryRow(ctx,
		`INSERT INTO companies (name, website, slug, created)
		 VALUES ($1, NULLIF($2, ''), $3, $4)
		 RETURNING id`,
		company.Name, company.Website, company.Slug, company.Created,
	)
	return row.Scan(&company.ID)
}

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id int64) (*model.Company, error) {
	var c model.Company
	row := r.q.QueryRow(ctx,
		`SELECT id, name, COALESCE(website, ''), slug, created
		 FROM companies WHERE id = $1`,
		id,
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Website, &c.Slug, &c.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}
