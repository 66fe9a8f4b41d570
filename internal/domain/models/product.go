package models

import (
	"time"

	"github.com/google/uuid"
)

type ProductType string

type ProductTemplate string

type PublishStatus string

const (
	ProductTypeTour      ProductType = "tour"
	ProductTypeTransport ProductType = "transport"

	TemplateHorizontal ProductTemplate = "horizontal"
	TemplateVertical   ProductTemplate = "vertical"

	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
)

// Product is a unified tour/transport catalog row. Tour-specific and
// transport-specific columns are nullable and only populated for the
// matching type.
type Product struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Type        ProductType     `db:"type" json:"type"`
	Template    ProductTemplate `db:"template" json:"template"`
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	Description *string         `db:"description" json:"description"`
	Currency    string          `db:"currency" json:"currency"`

	// tour
	Location     *string  `db:"location" json:"location"`
	DurationDays *int     `db:"duration_days" json:"durationDays"`
	PriceFrom    *float64 `db:"price_from" json:"priceFrom"`

	// transport
	MakeAndModel *string  `db:"make_and_model" json:"makeAndModel"`
	RatePerHour  *float64 `db:"rate_per_hour" json:"ratePerHour"`
	RatePerDay   *float64 `db:"rate_per_day" json:"ratePerDay"`
	Passengers   *int     `db:"passengers" json:"passengers"`
	IsActive     *bool    `db:"is_active" json:"isActive"`

	HeroKey   *string       `db:"hero_key" json:"heroKey"`
	Tags      *string       `db:"tags" json:"tags"`
	Status    PublishStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `db:"updated_at" json:"updatedAt"`
}

// ProductImage is one stored object-store key belonging to a product.
// Duplicate IsHero rows are tolerated; the resolver picks deterministically.
type ProductImage struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProductID   uuid.UUID `db:"product_id" json:"product_id"`
	Key         string    `db:"r2_key" json:"key"`
	ContentType *string   `db:"content_type" json:"content_type,omitempty"`
	Position    *int      `db:"position" json:"position"`
	IsHero      bool      `db:"is_hero" json:"is_hero"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
