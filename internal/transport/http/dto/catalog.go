package dto

import "dune_voyages/internal/domain/models"

type CreateServiceRequest struct {
	Title            string   `json:"title"`
	ShortDescription *string  `json:"shortDescription"`
	LongDescription  *string  `json:"longDescription"`
	HeroKey          *string  `json:"heroKey"`
	Tags             *string  `json:"tags"`
	Status           string   `json:"status" validate:"omitempty,oneof=draft published"`
	ImageKeys        []string `json:"imageKeys"`
}

type ServiceResponse struct {
	models.Service
	Img *string `json:"_img"`
}
