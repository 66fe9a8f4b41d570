package models

import "time"

type VisaBadge string

type SectionKind string

const (
	BadgePopular   VisaBadge = "Popular"
	BadgeBestValue VisaBadge = "Best Value"
	BadgeNew       VisaBadge = "New"

	SectionKindList SectionKind = "list"
	SectionKindText SectionKind = "text"
)

// Visa is a visa package offered on the public site. Features and Sections
// are owned children, ordered by SortOrder and removed by cascade.
type Visa struct {
	ID                int64      `db:"id" json:"id"`
	Slug              string     `db:"slug" json:"slug"`
	Title             string     `db:"title" json:"title"`
	Description       *string    `db:"description" json:"description,omitempty"`
	Badge             *VisaBadge `db:"badge" json:"badge,omitempty"`
	BasePriceAmount   float64    `db:"base_price_amount" json:"basePriceAmount"`
	BasePriceCurrency string     `db:"base_price_currency" json:"basePriceCurrency"`
	IsActive          bool       `db:"is_active" json:"isActive"`
	DisplayOrder      int        `db:"display_order" json:"displayOrder"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`

	Features []VisaFeature `json:"features,omitempty"`
	Sections []VisaSection `json:"sections,omitempty"`
}

type VisaFeature struct {
	ID        int64  `db:"id" json:"id"`
	VisaID    int64  `db:"visa_id" json:"visa_id"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
	Text      string `db:"text" json:"text"`
}

// VisaSection is either a titled list of items (kind "list") or a titled
// free-text block (kind "text").
type VisaSection struct {
	ID        int64       `db:"id" json:"id"`
	VisaID    int64       `db:"visa_id" json:"visa_id"`
	SortOrder int         `db:"sort_order" json:"sort_order"`
	Kind      SectionKind `db:"kind" json:"kind"`
	Title     string      `db:"title" json:"title"`
	Body      *string     `db:"body" json:"body,omitempty"`

	Items []VisaSectionItem `json:"items,omitempty"`
}

type VisaSectionItem struct {
	ID        int64  `db:"id" json:"id"`
	SectionID int64  `db:"section_id" json:"section_id"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
	Text      string `db:"text" json:"text"`
}
