package repository

import (
	"context"

	"jobber/internal/database"
)

// Store aggregates the per-entity repositories behind a single handle so a
// use case can run multi-entity work in one transaction. InTx runs fn against
// a Store bound to an open transaction; returning an error rolls everything
// back. This is what makes the token-consume + publish pair atomic.
type Store interface {
	Jobs() JobRepository
	Companies() CompanyRepository
	Locations() LocationRepository
	Tags() TagRepository
	ReviewTokens() ReviewTokenRepository
	Broadcasts() BroadcastRepository

	InTx(ctx context.Context, fn func(Store) error) error
}

type PostgresStore struct {
	db database.DB
	q  database.Querier
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) Jobs() JobRepository                 { return &PostgresJobRepository{q: s.q} }
func (s *PostgresStore) Companies() CompanyRepository        { return &PostgresCompanyRepository{q: s.q} }
func (s *PostgresStore) Locations() LocationRepository       { return &PostgresLocationRepository{q: s.q} }
func (s *PostgresStore) Tags() TagRepository                 { return &PostgresTagRepository{q: s.q} }
func (s *PostgresStore) ReviewTokens() ReviewTokenRepository { return &PostgresReviewTokenRepository{q: s.q} }
func (s *PostgresStore) Broadcasts() BroadcastRepository     { return &PostgresBroadcastRepository{q: s.q} }

func (s *PostgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		// Already inside a transaction; nested InTx joins it.
		return fn(s)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}

	txStore := &PostgresStore{q: tx}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
