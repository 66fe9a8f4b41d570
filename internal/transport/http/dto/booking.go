package dto

type CreateBookingRequest struct {
	VisaID        int64   `json:"visaId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail *string `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone"`
	Source        string  `json:"source" validate:"omitempty,oneof=web whatsapp"`
	Notes         *string `json:"notes"`
}
