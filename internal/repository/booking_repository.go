package repository

import (
	"context"
	"fmt"

	"dune_voyages/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

type BookingRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *BookingRepo) SaveBooking(ctx context.Context, booking models.Booking) (int64, error) {
	const op = "repository.BookingRepo.SaveBooking"

	query, args, err := r.sb.Insert("bookings").
		Columns(
			"visa_id", "customer_name", "customer_email", "customer_phone",
			"source", "status", "quoted_amount", "currency", "notes",
		).
		Values(
			booking.VisaID, booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone,
			booking.Source, booking.Status, booking.QuotedAmount, booking.Currency, booking.Notes,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *BookingRepo) ListBookings(ctx context.Context, visaID *int64) ([]models.Booking, error) {
	const op = "repository.BookingRepo.ListBookings"

	b := r.sb.Select(
		"id", "visa_id", "customer_name", "customer_email", "customer_phone",
		"source", "status", "quoted_amount", "currency", "notes",
		"created_at", "updated_at",
	).
		From("bookings").
		OrderBy("created_at DESC")

	if visaID != nil {
		b = b.Where(sq.Eq{"visa_id": *visaID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		var bk models.Booking
		if err := rows.Scan(
			&bk.ID, &bk.VisaID, &bk.CustomerName, &bk.CustomerEmail, &bk.CustomerPhone,
			&bk.Source, &bk.Status, &bk.QuotedAmount, &bk.Currency, &bk.Notes,
			&bk.CreatedAt, &bk.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, bk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
