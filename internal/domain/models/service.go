package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a standalone marketing offering (airport transfer, city pass
// and the like), separate from the tour/transport catalog.
type Service struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	Title            string        `db:"title" json:"title"`
	ShortDescription *string       `db:"short_description" json:"shortDescription"`
	LongDescription  *string       `db:"long_description" json:"longDescription"`
	HeroKey          *string       `db:"hero_key" json:"heroKey"`
	Tags             *string       `db:"tags" json:"tags"`
	Status           PublishStatus `db:"status" json:"status"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updatedAt"`
}

type ServiceImage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ServiceID uuid.UUID `db:"service_id" json:"service_id"`
	Key       string    `db:"r2_key" json:"key"`
	Position  *int      `db:"position" json:"position"`
	IsHero    bool      `db:"is_hero" json:"is_hero"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
