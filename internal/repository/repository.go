package repository

import (
	"context"
	"fmt"

	"dune_voyages/internal/storage/postgresql"

	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db      *pgxpool.Pool
	Product ProductRepository
	Catalog CatalogRepository
	Visa    VisaRepository
	Booking BookingRepository
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := postgresql.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		db:      db,
		Product: NewProductRepository(db),
		Catalog: NewCatalogRepository(db),
		Visa:    NewVisaRepository(db),
		Booking: NewBookingRepository(db),
	}, nil
}

func (r *Repository) Close() {
	r.db.Close()
}
