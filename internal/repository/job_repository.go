package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobber/internal/database"
	"jobber/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id int64) (*model.Job, error)
	GetByAdminToken(ctx context.Context, token string) (*model.Job, error)

	// ListPublished returns published jobs with company, location and tags
	// loaded. limit <= 0 returns all; newestFirst controls creation ordering.
	ListPublished(ctx context.Context, limit int, newestFirst bool) ([]*model.Job, error)

	// ReplaceTags rewrites the job/tag association; the tag rows themselves
	// must already exist.
	ReplaceTags(ctx context.Context, jobID int64, tagSlugs []string) error
}

type PostgresJobRepository struct {
	q database.Querier
}

const jobSelectColumns = `
	j.id, j.title, j.description, j.published, j.contact_method,
	COALESCE(j.contact_email, ''), COALESCE(j.contact_url, ''),
	j.job_type, j.remote_work, j.admin_token,
	j.recruiter_name, j.recruiter_email, j.slug,
	j.company_id, j.location_id, j.created,
	c.name, COALESCE(c.website, ''), c.slug, c.created,
	l.city, l.country_code, l.created`

const jobSelectFrom = `
	FROM jobs j
	JOIN companies c ON c.id = j.company_id
	JOIN locations l ON l.id = j.location_id`

func (r *PostgresJobRepository) Create(ctx context.Context, job *model.Job) error {
	row := r.q.QueryRow(ctx,
		`INSERT INTO jobs (
			title, description, published, contact_method, contact_email,
			contact_url, job_type, remote_work, admin_token, recruiter_name,
			recruiter_email, slug, company_id, location_id, created
		 ) VALUES (
			$1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10,
			$11, $12, $13, $14, $15
		 ) RETURNING id`,
		job.Title, job.Description, job.Published, int(job.ContactMethod),
		job.ContactEmail, job.ContactURL, int(job.JobType), int(job.RemoteWork),
		job.AdminToken, job.RecruiterName, job.RecruiterEmail, job.Slug,
		job.CompanyID, job.LocationID, job.Created,
	)
	return row.Scan(&job.ID)
}

func (r *PostgresJobRepository) Update(ctx context.Context, job *model.Job) error {
	n, err := r.q.Exec(ctx,
		`UPDATE jobs SET
			title = $2, description = $3, published = $4, contact_method = $5,
			contact_email = NULLIF($6, ''), contact_url = NULLIF($7, ''),
			job_type = $8, remote_work = $9, recruiter_name = $10,
			recruiter_email = $11, slug = $12, company_id = $13, location_id = $14
		 WHERE id = $1`,
		job.ID, job.Title, job.Description, job.Published, int(job.ContactMethod),
		job.ContactEmail, job.ContactURL, int(job.JobType), int(job.RemoteWork),
		job.RecruiterName, job.RecruiterEmail, job.Slug, job.CompanyID, job.LocationID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id int64) (*model.Job, error) {
	row := r.q.QueryRow(ctx, `SELECT`+jobSelectColumns+jobSelectFrom+` WHERE j.id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *PostgresJobRepository) GetByAdminToken(ctx context.Context, token string) (*model.Job, error) {
	row := r.q.QueryRow(ctx, `SELECT`+jobSelectColumns+jobSelectFrom+` WHERE j.admin_token = $1`, token)
	job, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *PostgresJobRepository) ListPublished(ctx context.Context, limit int, newestFirst bool) ([]*model.Job, error) {
	query := `SELECT` + jobSelectColumns + jobSelectFrom + ` WHERE j.published ORDER BY j.created`
	if newestFirst {
		query += ` DESC`
	}

	var (
		rows database.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.q.Query(ctx, query+` LIMIT $1`, limit)
	} else {
		rows, err = r.q.Query(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if err := r.loadTags(ctx, job); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (r *PostgresJobRepository) ReplaceTags(ctx context.Context, jobID int64, tagSlugs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM job_tags WHERE job_id = $1`, jobID); err != nil {
		return err
	}
	for _, slug := range tagSlugs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO job_tags (job_id, tag_slug) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			jobID, slug,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresJobRepository) loadTags(ctx context.Context, job *model.Job) error {
	rows, err := r.q.Query(ctx,
		`SELECT t.slug, t.tag, t.created
		 FROM tags t
		 JOIN job_tags jt ON jt.tag_slug = t.slug
		 WHERE jt.job_id = $1
		 ORDER BY t.slug`,
		job.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.Slug, &t.Tag, &t.Created); err != nil {
			return err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	job.Tags = tags
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*model.Job, error) {
	var (
		job           model.Job
		company       model.Company
		location      model.Location
		contactMethod int
		jobType       int
		remoteWork    int
	)
	err := s.Scan(
		&job.ID, &job.Title, &job.Description, &job.Published, &contactMethod,
		&job.ContactEmail, &job.ContactURL, &jobType, &remoteWork, &job.AdminToken,
		&job.RecruiterName, &job.RecruiterEmail, &job.Slug,
		&job.CompanyID, &job.LocationID, &job.Created,
		&company.Name, &company.Website, &company.Slug, &company.Created,
		&location.City, &location.CountryCode, &location.Created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	job.ContactMethod = model.ContactMethod(contactMethod)
	job.JobType = model.JobType(jobType)
	job.RemoteWork = model.RemoteWork(remoteWork)

	company.ID = job.CompanyID
	location.ID = job.LocationID
	job.Company = &company
	job.Location = &location

	return &job, nil
}
