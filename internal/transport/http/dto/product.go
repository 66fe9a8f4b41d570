package dto

import (
	"time"

	"dune_voyages/internal/domain/models"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Type        string  `json:"type" validate:"required,oneof=tour transport"`
	Template    string  `json:"template" validate:"omitempty,oneof=horizontal vertical"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Currency    string  `json:"currency"`

	Location     *string  `json:"location"`
	DurationDays *int     `json:"durationDays"`
	PriceFrom    *float64 `json:"priceFrom"`

	MakeAndModel *string  `json:"makeAndModel"`
	RatePerHour  *float64 `json:"ratePerHour"`
	RatePerDay   *float64 `json:"ratePerDay"`
	Passengers   *int     `json:"passengers"`
	IsActive     *bool    `json:"isActive"`

	HeroKey   *string  `json:"heroKey"`
	Tags      *string  `json:"tags"`
	Status    string   `json:"status" validate:"omitempty,oneof=draft published"`
	ImageKeys []string `json:"imageKeys"`
}

// ProductResponse is the list/card shape: the model plus the resolved
// display image URL under "_img" (null when nothing resolved).
type ProductResponse struct {
	models.Product
	Img *string `json:"_img"`
}

// TransportCard is the trimmed shape used by the popular-transports strip.
type TransportCard struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	MakeAndModel *string   `json:"makeAndModel"`
	RatePerHour  *float64  `json:"ratePerHour"`
	RatePerDay   *float64  `json:"ratePerDay"`
	Passengers   *int      `json:"passengers"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"createdAt"`
	Img          *string   `json:"_img"`
}

// SearchResult decorates a product hit with its wa.me booking deep link.
type SearchResult struct {
	ProductResponse
	WhatsAppURL string `json:"waUrl,omitempty"`
}
