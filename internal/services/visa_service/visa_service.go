package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dune_voyages/internal/domain/models"
	"dune_voyages/internal/lib/keyutil"
	"dune_voyages/internal/lib/logger/sl"
	"dune_voyages/internal/repository"
	"dune_voyages/internal/transport/http/dto"
)

var (
	ErrTitleRequired        = errors.New("title is required")
	ErrSlugExists           = errors.New("slug already exists")
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrVisaNotFound         = errors.New("visa not found")
)

type VisaService struct {
	log      *slog.Logger
	repo     repository.VisaRepository
	bookings repository.BookingRepository
}

func NewVisaService(log *slog.Logger, repo repository.VisaRepository, bookings repository.BookingRepository) *VisaService {
	return &VisaService{
		log:      log,
		repo:     repo,
		bookings: bookings,
	}
}

// List returns the active visa packages as pricing cards, display order
// ascending, children flattened into plain strings.
func (s *VisaService) List(ctx context.Context) ([]dto.VisaCard, error) {
	const op = "service.VisaService.List"
	log := s.log.With(slog.String("op", op))

	visas, err := s.repo.ListActiveVisas(ctx)
	if err != nil {
		log.Error("failed to list visas", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cards := make([]dto.VisaCard, 0, len(visas))
	for _, v := range visas {
		cards = append(cards, toCard(v))
	}
	return cards, nil
}

// Create persists the visa with all its features, sections and items as
// one transactional aggregate. Sort orders are assigned in input order in
// steps of 10, leaving gaps for later manual reordering.
func (s *VisaService) Create(ctx context.Context, req dto.CreateVisaRequest) (int64, error) {
	const op = "service.VisaService.Create"
	log := s.log.With(slog.String("op", op), slog.String("slug", req.Slug))

	log.Info("creating visa")

	if strings.TrimSpace(req.Title) == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrTitleRequired)
	}

	slug := keyutil.Slugify(req.Slug)
	if slug == "" {
		slug = keyutil.Slugify(req.Title)
	}
	if slug == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrTitleRequired)
	}

	exists, err := s.repo.VisaSlugExists(ctx, slug)
	if err != nil {
		log.Error("slug check failed", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return 0, fmt.Errorf("%s: %w", op, ErrSlugExists)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.BasePriceCurrency))
	if currency == "" {
		currency = "AED"
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var badge *models.VisaBadge
	if req.Badge != nil && *req.Badge != "" {
		b := models.VisaBadge(*req.Badge)
		badge = &b
	}

	visa := models.Visa{
		Slug:              slug,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Badge:             badge,
		BasePriceAmount:   req.BasePriceAmount,
		BasePriceCurrency: currency,
		IsActive:          isActive,
		DisplayOrder:      req.DisplayOrder,
	}

	for i, text := range req.Features {
		if strings.TrimSpace(text) == "" {
			continue
		}
		visa.Features = append(visa.Features, models.VisaFeature{
			SortOrder: (i + 1) * 10,
			Text:      text,
		})
	}

	for i, sec := range req.Sections {
		kind := models.SectionKind(sec.Kind)
		if kind != models.SectionKindText {
			kind = models.SectionKindList
		}

		section := models.VisaSection{
			SortOrder: (i + 1) * 10,
			Kind:      kind,
			Title:     sec.Title,
			Body:      sec.Body,
		}
		if kind == models.SectionKindList {
			for j, item := range sec.Items {
				if strings.TrimSpace(item) == "" {
					continue
				}
				section.Items = append(section.Items, models.VisaSectionItem{
					SortOrder: (j + 1) * 10,
					Text:      item,
				})
			}
		}
		visa.Sections = append(visa.Sections, section)
	}

	id, err := s.repo.SaveVisa(ctx, visa)
	if err != nil {
		log.Error("failed to save visa", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("visa created", slog.Int64("id", id))
	return id, nil
}

func (s *VisaService) Delete(ctx context.Context, id int64) error {
	const op = "service.VisaService.Delete"
	log := s.log.With(slog.String("op", op), slog.Int64("id", id))

	if err := s.repo.DeleteVisa(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to delete visa", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("visa deleted")
	return nil
}

// CreateBooking records a booking request against an existing visa; the
// quoted amount is frozen from the visa's base price at booking time.
func (s *VisaService) CreateBooking(ctx context.Context, req dto.CreateBookingRequest) (int64, error) {
	const op = "service.VisaService.CreateBooking"
	log := s.log.With(slog.String("op", op), slog.Int64("visa_id", req.VisaID))

	if strings.TrimSpace(req.CustomerName) == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrCustomerNameRequired)
	}

	visa, err := s.repo.VisaByID(ctx, req.VisaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrVisaNotFound)
		}
		log.Error("failed to load visa", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	source := models.BookingSource(req.Source)
	if source == "" {
		source = models.BookingSourceWeb
	}

	booking := models.Booking{
		VisaID:        visa.ID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Source:        source,
		Status:        models.BookingInitiated,
		QuotedAmount:  visa.BasePriceAmount,
		Currency:      visa.BasePriceCurrency,
		Notes:         req.Notes,
	}

	id, err := s.bookings.SaveBooking(ctx, booking)
	if err != nil {
		log.Error("failed to save booking", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking created", slog.Int64("id", id))
	return id, nil
}

// ListBookings returns bookings newest-first, optionally filtered by visa.
func (s *VisaService) ListBookings(ctx context.Context, visaID *int64) ([]models.Booking, error) {
	const op = "service.VisaService.ListBookings"

	bookings, err := s.bookings.ListBookings(ctx, visaID)
	if err != nil {
		s.log.Error("failed to list bookings", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}

func toCard(v models.Visa) dto.VisaCard {
	card := dto.VisaCard{
		ID:       v.ID,
		Slug:     v.Slug,
		Title:    v.Title,
		PriceAED: v.BasePriceAmount,
		Features: make([]string, 0, len(v.Features)),
	}
	if v.Badge != nil {
		b := string(*v.Badge)
		card.Badge = &b
	}

	for _, f := range v.Features {
		card.Features = append(card.Features, f.Text)
	}

	card.DetailsSections = make([]dto.VisaCardSection, 0, len(v.Sections))
	for _, sec := range v.Sections {
		out := dto.VisaCardSection{
			Kind:  string(sec.Kind),
			Title: sec.Title,
			Body:  sec.Body,
		}
		for _, item := range sec.Items {
			out.Items = append(out.Items, item.Text)
		}
		card.DetailsSections = append(card.DetailsSections, out)
	}
	return card
}
