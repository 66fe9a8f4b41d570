package dto

type CreateVisaRequest struct {
	Slug              string               `json:"slug"`
	Title             string               `json:"title"`
	Description       *string              `json:"description"`
	Badge             *string              `json:"badge" validate:"omitempty,oneof='Popular' 'Best Value' 'New'"`
	BasePriceAmount   float64              `json:"basePriceAmount"`
	BasePriceCurrency string               `json:"basePriceCurrency"`
	IsActive          *bool                `json:"isActive"`
	DisplayOrder      int                  `json:"displayOrder"`
	Features          []string             `json:"features"`
	Sections          []VisaSectionRequest `json:"sections"`
}

type VisaSectionRequest struct {
	Kind  string   `json:"kind" validate:"omitempty,oneof=list text"`
	Title string   `json:"title"`
	Body  *string  `json:"body"`
	Items []string `json:"items"`
}

// VisaCard is the public listing shape consumed by the pricing grid.
type VisaCard struct {
	ID              int64             `json:"id"`
	Slug            string            `json:"slug"`
	Title           string            `json:"title"`
	PriceAED        float64           `json:"priceAED"`
	Badge           *string           `json:"badge"`
	Features        []string          `json:"features"`
	DetailsSections []VisaCardSection `json:"detailsSections"`
}

type VisaCardSection struct {
	Kind  string   `json:"kind"`
	Title string   `json:"title"`
	Body  *string  `json:"body,omitempty"`
	Items []string `json:"items,omitempty"`
}
