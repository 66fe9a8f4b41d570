package repository

import (
	"context"
	"errors"

	"dune_voyages/internal/domain/models"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	SaveProduct(ctx context.Context, product models.Product, imageKeys []string) (uuid.UUID, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsPaged(ctx context.Context, pType models.ProductType, limit, offset int) ([]models.Product, error)
	ListTransports(ctx context.Context, limit int) ([]models.Product, error)
	SearchProducts(ctx context.Context, pType models.ProductType, query string, limit int) ([]models.Product, error)
	ProductSlugExists(ctx context.Context, slug string) (bool, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ImagesByProductIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductImage, error)
}

type CatalogRepository interface {
	SaveService(ctx context.Context, service models.Service, imageKeys []string) (uuid.UUID, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
	ImagesByServiceIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServiceImage, error)
}

type VisaRepository interface {
	SaveVisa(ctx context.Context, visa models.Visa) (int64, error)
	ListActiveVisas(ctx context.Context) ([]models.Visa, error)
	VisaByID(ctx context.Context, id int64) (*models.Visa, error)
	VisaSlugExists(ctx context.Context, slug string) (bool, error)
	DeleteVisa(ctx context.Context, id int64) error
}

type BookingRepository interface {
	SaveBooking(ctx context.Context, booking models.Booking) (int64, error)
	ListBookings(ctx context.Context, visaID *int64) ([]models.Booking, error)
}
