package services

import (
	"context"
	"log/slog"
	"testing"

	"dune_voyages/internal/domain/models"
	"dune_voyages/internal/repository"
	"dune_voyages/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVisaRepository struct {
	mock.Mock
}

func (m *MockVisaRepository) SaveVisa(ctx context.Context, visa models.Visa) (int64, error) {
	args := m.Called(ctx, visa)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVisaRepository) ListActiveVisas(ctx context.Context) ([]models.Visa, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Visa), args.Error(1)
}

func (m *MockVisaRepository) VisaByID(ctx context.Context, id int64) (*models.Visa, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Visa), args.Error(1)
}

func (m *MockVisaRepository) VisaSlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockVisaRepository) DeleteVisa(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) SaveBooking(ctx context.Context, booking models.Booking) (int64, error) {
	args := m.Called(ctx, booking)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ListBookings(ctx context.Context, visaID *int64) ([]models.Booking, error) {
	args := m.Called(ctx, visaID)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestVisaService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("title required", func(t *testing.T) {
		svc := NewVisaService(slog.Default(), new(MockVisaRepository), new(MockBookingRepository))

		_, err := svc.Create(ctx, dto.CreateVisaRequest{Slug: "x"})
		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		repo := new(MockVisaRepository)
		svc := NewVisaService(slog.Default(), repo, new(MockBookingRepository))

		repo.On("VisaSlugExists", ctx, "30-day").Return(true, nil).Once()

		_, err := svc.Create(ctx, dto.CreateVisaRequest{Title: "30 Day", Slug: "30-day"})
		assert.ErrorIs(t, err, ErrSlugExists)
	})

	t.Run("aggregate sort orders in steps of 10", func(t *testing.T) {
		repo := new(MockVisaRepository)
		svc := NewVisaService(slog.Default(), repo, new(MockBookingRepository))

		repo.On("VisaSlugExists", ctx, "30-day-single").Return(false, nil).Once()
		repo.On("SaveVisa", ctx, mock.MatchedBy(func(v models.Visa) bool {
			if v.Slug != "30-day-single" || v.BasePriceCurrency != "AED" || !v.IsActive {
				return false
			}
			if len(v.Features) != 2 || v.Features[0].SortOrder != 10 || v.Features[1].SortOrder != 20 {
				return false
			}
			if len(v.Sections) != 2 || v.Sections[0].SortOrder != 10 || v.Sections[1].SortOrder != 20 {
				return false
			}
			sec := v.Sections[0]
			return sec.Kind == models.SectionKindList &&
				len(sec.Items) == 2 &&
				sec.Items[0].SortOrder == 10 &&
				sec.Items[1].SortOrder == 20
		})).Return(int64(7), nil).Once()

		id, err := svc.Create(ctx, dto.CreateVisaRequest{
			Title:           "30 Day Single",
			Slug:            "30 Day Single!",
			BasePriceAmount: 350,
			Features:        []string{"30 days", "Express"},
			Sections: []dto.VisaSectionRequest{
				{Kind: "list", Title: "Documents", Items: []string{"Passport", "Photo"}},
				{Kind: "text", Title: "Timing", Body: strPtr("3-5 days")},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		repo.AssertExpectations(t)
	})

	t.Run("slug falls back to title", func(t *testing.T) {
		repo := new(MockVisaRepository)
		svc := NewVisaService(slog.Default(), repo, new(MockBookingRepository))

		repo.On("VisaSlugExists", ctx, "60-day-multi").Return(false, nil).Once()
		repo.On("SaveVisa", ctx, mock.MatchedBy(func(v models.Visa) bool {
			return v.Slug == "60-day-multi"
		})).Return(int64(8), nil).Once()

		_, err := svc.Create(ctx, dto.CreateVisaRequest{Title: "60 Day Multi"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestVisaService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVisaRepository)
	svc := NewVisaService(slog.Default(), repo, new(MockBookingRepository))

	badge := models.BadgePopular
	body := "3-5 days"
	repo.On("ListActiveVisas", ctx).Return([]models.Visa{
		{
			ID:              1,
			Slug:            "30-day",
			Title:           "30 Day",
			Badge:           &badge,
			BasePriceAmount: 350,
			Features: []models.VisaFeature{
				{Text: "30 days"},
				{Text: "Express"},
			},
			Sections: []models.VisaSection{
				{Kind: models.SectionKindList, Title: "Docs", Items: []models.VisaSectionItem{{Text: "Passport"}}},
				{Kind: models.SectionKindText, Title: "Timing", Body: &body},
			},
		},
	}, nil).Once()

	cards, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, int64(1), card.ID)
	assert.Equal(t, 350.0, card.PriceAED)
	require.NotNil(t, card.Badge)
	assert.Equal(t, "Popular", *card.Badge)
	assert.Equal(t, []string{"30 days", "Express"}, card.Features)
	require.Len(t, card.DetailsSections, 2)
	assert.Equal(t, []string{"Passport"}, card.DetailsSections[0].Items)
	assert.Equal(t, "3-5 days", *card.DetailsSections[1].Body)
}

func TestVisaService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVisaRepository)
	svc := NewVisaService(slog.Default(), repo, new(MockBookingRepository))

	repo.On("DeleteVisa", ctx, int64(9)).Return(repository.ErrNotFound).Once()

	err := svc.Delete(ctx, 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVisaService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("customer name required", func(t *testing.T) {
		svc := NewVisaService(slog.Default(), new(MockVisaRepository), new(MockBookingRepository))

		_, err := svc.CreateBooking(ctx, dto.CreateBookingRequest{VisaID: 1})
		assert.ErrorIs(t, err, ErrCustomerNameRequired)
	})

	t.Run("visa must exist", func(t *testing.T) {
		repo := new(MockVisaRepository)
		svc := NewVisaService(slog.Default(), repo, new(MockBookingRepository))

		repo.On("VisaByID", ctx, int64(42)).
			Return(nil, repository.ErrNotFound).Once()

		_, err := svc.CreateBooking(ctx, dto.CreateBookingRequest{
			VisaID:       42,
			CustomerName: "Jane",
		})
		assert.ErrorIs(t, err, ErrVisaNotFound)
	})

	t.Run("quote frozen from visa base price", func(t *testing.T) {
		repo := new(MockVisaRepository)
		bookings := new(MockBookingRepository)
		svc := NewVisaService(slog.Default(), repo, bookings)

		repo.On("VisaByID", ctx, int64(1)).
			Return(&models.Visa{ID: 1, BasePriceAmount: 350, BasePriceCurrency: "AED"}, nil).Once()
		bookings.On("SaveBooking", ctx, mock.MatchedBy(func(b models.Booking) bool {
			return b.VisaID == 1 &&
				b.QuotedAmount == 350 &&
				b.Currency == "AED" &&
				b.Source == models.BookingSourceWeb &&
				b.Status == models.BookingInitiated
		})).Return(int64(5), nil).Once()

		id, err := svc.CreateBooking(ctx, dto.CreateBookingRequest{
			VisaID:       1,
			CustomerName: "Jane",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		bookings.AssertExpectations(t)
	})
}

func TestVisaService_ListBookings(t *testing.T) {
	ctx := context.Background()
	bookings := new(MockBookingRepository)
	svc := NewVisaService(slog.Default(), new(MockVisaRepository), bookings)

	visaID := int64(3)
	bookings.On("ListBookings", ctx, &visaID).
		Return([]models.Booking{{ID: 1, VisaID: 3}}, nil).Once()

	out, err := svc.ListBookings(ctx, &visaID)
	require.NoError(t, err)
	require.Len(t, out, 1)
}
