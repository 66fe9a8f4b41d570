package models

import "time"

type BookingSource string

type BookingStatus string

const (
	BookingSourceWeb      BookingSource = "web"
	BookingSourceWhatsApp BookingSource = "whatsapp"

	BookingInitiated BookingStatus = "initiated"
	BookingPaid      BookingStatus = "paid"
	BookingSubmitted BookingStatus = "submitted"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID            int64         `db:"id" json:"id"`
	VisaID        int64         `db:"visa_id" json:"visaId"`
	CustomerName  string        `db:"customer_name" json:"customerName"`
	CustomerEmail *string       `db:"customer_email" json:"customerEmail,omitempty"`
	CustomerPhone *string       `db:"customer_phone" json:"customerPhone,omitempty"`
	Source        BookingSource `db:"source" json:"source"`
	Status        BookingStatus `db:"status" json:"status"`
	QuotedAmount  float64       `db:"quoted_amount" json:"quotedAmount"`
	Currency      string        `db:"currency" json:"currency"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}
