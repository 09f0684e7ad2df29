package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ansh-jadav/Movie-Review-system/internal/store"
)

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Reviews *ReviewsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Reviews: &ReviewsRepository{pool: pool},
	}
}
