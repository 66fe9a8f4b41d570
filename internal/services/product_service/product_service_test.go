package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"dune_voyages/internal/domain/models"
	"dune_voyages/internal/repository"
	hero "dune_voyages/internal/services/hero_resolver"
	uploadsvc "dune_voyages/internal/services/upload_service"
	"dune_voyages/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product models.Product, imageKeys []string) (uuid.UUID, error) {
	args := m.Called(ctx, product, imageKeys)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) ListProductsPaged(ctx context.Context, pType models.ProductType, limit, offset int) ([]models.Product, error) {
	args := m.Called(ctx, pType, limit, offset)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) ListTransports(ctx context.Context, limit int) ([]models.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) SearchProducts(ctx context.Context, pType models.ProductType, query string, limit int) ([]models.Product, error) {
	args := m.Called(ctx, pType, query, limit)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) ProductSlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ImagesByProductIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductImage, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.ProductImage), args.Error(1)
}

type stubProber struct{}

func (stubProber) FirstImageKey(ctx context.Context, folder string) (string, error) {
	return "", nil
}

func (stubProber) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type stubImages struct {
	urls []string
}

func (s stubImages) ListImageURLs(ctx context.Context, prefix string) ([]string, error) {
	return s.urls, nil
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

func newService(repo repository.ProductRepository, images ImageLister) *ProductService {
	resolver := hero.NewHeroResolver(slog.Default(), stubProber{}, hero.NewMemoryCache(time.Minute))
	return NewProductService(slog.Default(), repo, resolver, images, "971500000000")
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	testID := uuid.New()

	validTour := dto.CreateProductRequest{
		Type:      "tour",
		Name:      "Desert Safari",
		Slug:      "Desert Safari",
		PriceFrom: f64Ptr(199),
		ImageKeys: []string{"tours/desert-safari/a.jpg"},
	}

	tests := []struct {
		name      string
		req       dto.CreateProductRequest
		mockSetup func(repo *MockProductRepository)
		wantErr   error
	}{
		{
			name: "successful tour creation",
			req:  validTour,
			mockSetup: func(repo *MockProductRepository) {
				repo.On("ProductSlugExists", ctx, "desert-safari").
					Return(false, nil).Once()
				repo.On("SaveProduct", ctx, mock.MatchedBy(func(p models.Product) bool {
					return p.Slug == "desert-safari" &&
						p.Currency == "AED" &&
						p.Status == models.StatusDraft &&
						p.Template == models.TemplateHorizontal
				}), []string{"tours/desert-safari/a.jpg"}).
					Return(testID, nil).Once()
			},
		},
		{
			name:    "missing name and slug",
			req:     dto.CreateProductRequest{Type: "tour", PriceFrom: f64Ptr(10)},
			wantErr: ErrNameAndSlugRequired,
		},
		{
			name:    "tour without price",
			req:     dto.CreateProductRequest{Type: "tour", Name: "T", Slug: "t"},
			wantErr: ErrTourPriceRequired,
		},
		{
			name:    "transport without rates",
			req:     dto.CreateProductRequest{Type: "transport", Name: "Car", Slug: "car"},
			wantErr: ErrTransportRateRequired,
		},
		{
			name: "duplicate slug",
			req:  validTour,
			mockSetup: func(repo *MockProductRepository) {
				repo.On("ProductSlugExists", ctx, "desert-safari").
					Return(true, nil).Once()
			},
			wantErr: ErrSlugExists,
		},
		{
			name: "transport drops tour fields",
			req: dto.CreateProductRequest{
				Type:         "transport",
				Name:         "Nissan Patrol",
				Slug:         "nissan-patrol",
				RatePerDay:   f64Ptr(900),
				PriceFrom:    f64Ptr(199),
				Location:     strPtr("Dubai"),
				DurationDays: intPtr(3),
			},
			mockSetup: func(repo *MockProductRepository) {
				repo.On("ProductSlugExists", ctx, "nissan-patrol").
					Return(false, nil).Once()
				repo.On("SaveProduct", ctx, mock.MatchedBy(func(p models.Product) bool {
					return p.PriceFrom == nil &&
						p.Location == nil &&
						p.DurationDays == nil &&
						p.RatePerDay != nil && *p.RatePerDay == 900
				}), []string{}).
					Return(testID, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			if tt.mockSetup != nil {
				tt.mockSetup(repo)
			}
			svc := newService(repo, stubImages{})

			id, err := svc.Create(ctx, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testID, id)
			repo.AssertExpectations(t)
		})
	}
}

func TestProductService_CreateSanitizesKeys(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newService(repo, stubImages{})

	repo.On("ProductSlugExists", ctx, "evil").Return(false, nil).Once()
	repo.On("SaveProduct", ctx, mock.Anything, []string{"tours/evil/x.jpg"}).
		Return(uuid.New(), nil).Once()

	req := dto.CreateProductRequest{
		Type:      "tour",
		Name:      "Evil",
		Slug:      "evil",
		PriceFrom: f64Ptr(1),
		ImageKeys: []string{"../tours/evil/x.jpg"},
	}

	_, err := svc.Create(ctx, req)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newService(repo, stubImages{})

	tour := models.Product{
		ID:      uuid.New(),
		Type:    models.ProductTypeTour,
		Name:    "Safari",
		Slug:    "safari",
		HeroKey: strPtr("tours/safari/hero.jpg"),
	}
	noImage := models.Product{
		ID:   uuid.New(),
		Type: models.ProductTypeTour,
		Name: "Bare",
		Slug: "bare",
	}

	repo.On("ListProducts", ctx).
		Return([]models.Product{tour, noImage}, nil).Once()
	repo.On("ImagesByProductIDs", ctx, []uuid.UUID{noImage.ID}).
		Return([]models.ProductImage{}, nil).Once()

	out, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.NotNil(t, out[0].Img)
	assert.Equal(t, "https://cdn.example.com/tours/safari/hero.jpg", *out[0].Img)
	assert.Nil(t, out[1].Img)
	repo.AssertExpectations(t)
}

func TestProductService_PopularTransports(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newService(repo, stubImages{})

	yukon := models.Product{
		ID:           uuid.New(),
		Type:         models.ProductTypeTransport,
		Name:         "GMC Yukon",
		Slug:         "gmc-yukon",
		Currency:     "AED",
		MakeAndModel: strPtr("GMC Yukon 2023"),
		RatePerHour:  f64Ptr(120),
	}

	repo.On("ListTransports", ctx, 50).
		Return([]models.Product{yukon}, nil).Once()
	repo.On("ImagesByProductIDs", ctx, []uuid.UUID{yukon.ID}).
		Return([]models.ProductImage{
			{ProductID: yukon.ID, Key: "transports/gmc-yukon/a.jpg", IsHero: true},
		}, nil).Once()

	cards, err := svc.PopularTransports(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "gmc-yukon", cards[0].Slug)
	require.NotNil(t, cards[0].Img)
	assert.Equal(t, "https://cdn.example.com/transports/gmc-yukon/a.jpg", *cards[0].Img)
	repo.AssertExpectations(t)
}

func TestProductService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query short-circuits", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo, stubImages{})

		results, err := svc.Search(ctx, "   ", models.ProductTypeTour)
		require.NoError(t, err)
		assert.Empty(t, results)
		repo.AssertNotCalled(t, "SearchProducts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("hits carry whatsapp links", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo, stubImages{})

		p := models.Product{
			ID:   uuid.New(),
			Type: models.ProductTypeTour,
			Name: "Safari",
			Slug: "safari",
		}
		repo.On("SearchProducts", ctx, models.ProductTypeTour, "safari", 24).
			Return([]models.Product{p}, nil).Once()
		repo.On("ImagesByProductIDs", ctx, mock.Anything).
			Return([]models.ProductImage{}, nil).Once()

		results, err := svc.Search(ctx, "safari", models.ProductTypeTour)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].WhatsAppURL, "https://wa.me/971500000000?text=")
		repo.AssertExpectations(t)
	})

	t.Run("unknown type coerces to tour", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo, stubImages{})

		repo.On("SearchProducts", ctx, models.ProductTypeTour, "x", 24).
			Return([]models.Product{}, nil).Once()

		_, err := svc.Search(ctx, "x", models.ProductType("boat"))
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestProductService_PagedTours(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newService(repo, stubImages{})

	repo.On("ListProductsPaged", ctx, models.ProductTypeTour, 9, 9).
		Return([]models.Product{}, nil).Once()

	_, err := svc.PagedTours(ctx, 2)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_PagedPageFloor(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newService(repo, stubImages{})

	repo.On("ListProductsPaged", ctx, models.ProductTypeTransport, 12, 0).
		Return([]models.Product{}, nil).Once()

	_, err := svc.PagedTransports(ctx, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("not found passes through", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo, stubImages{})
		id := uuid.New()

		repo.On("DeleteProduct", ctx, id).
			Return(repository.ErrNotFound).Once()

		err := svc.Delete(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("success", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo, stubImages{})
		id := uuid.New()

		repo.On("DeleteProduct", ctx, id).Return(nil).Once()

		err := svc.Delete(ctx, id)
		require.NoError(t, err)
	})
}

func TestProductService_ListImagesForSlug(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newService(repo, stubImages{urls: []string{
		"https://cdn.example.com/tours/safari/a.jpg",
		"https://cdn.example.com/tours/safari/b.jpg",
	}})

	urls, err := svc.ListImagesForSlug(ctx, "safari")
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

type flowSigner struct{}

func (flowSigner) PresignedPut(ctx context.Context, key, contentType string) (string, error) {
	return "https://store.example.com/" + key + "?sig=x", nil
}

func (flowSigner) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// Covers the full admin flow: sign an upload batch, create the product
// with the signed keys and no explicit hero, then list and get the first
// key back as the display image.
func TestProductService_UploadCreateListFlow(t *testing.T) {
	ctx := context.Background()

	uploads := uploadsvc.NewUploadService(slog.Default(), flowSigner{})

	signed, err := uploads.SignBatch(ctx, []dto.BatchUploadItem{
		{Key: "hero.jpg", ContentType: "image/jpeg", Dir: "tours/desert-safari"},
		{Key: "dunes.jpg", ContentType: "image/jpeg", Dir: "tours/desert-safari"},
		{Key: "camp.jpg", ContentType: "image/jpeg", Dir: "tours/desert-safari"},
	})
	require.NoError(t, err)
	require.Len(t, signed, 3)
	assert.Equal(t, "tours/desert-safari/hero.jpg", signed[0].Key)

	keys := make([]string, 0, len(signed))
	for _, item := range signed {
		keys = append(keys, item.Key)
	}

	repo := new(MockProductRepository)
	svc := newService(repo, stubImages{})
	id := uuid.New()

	var savedKeys []string
	repo.On("ProductSlugExists", ctx, "desert-safari").Return(false, nil).Once()
	repo.On("SaveProduct", ctx, mock.MatchedBy(func(p models.Product) bool {
		return p.Slug == "desert-safari" && p.HeroKey == nil
	}), keys).
		Run(func(args mock.Arguments) {
			savedKeys = args.Get(2).([]string)
		}).
		Return(id, nil).Once()

	_, err = svc.Create(ctx, dto.CreateProductRequest{
		Type:      "tour",
		Name:      "Desert Safari",
		Slug:      "desert-safari",
		PriceFrom: f64Ptr(199),
		ImageKeys: keys,
	})
	require.NoError(t, err)
	require.Len(t, savedKeys, 3)

	rows := make([]models.ProductImage, 0, len(savedKeys))
	for i, key := range savedKeys {
		pos := i
		rows = append(rows, models.ProductImage{
			ProductID: id,
			Key:       key,
			Position:  &pos,
			IsHero:    i == 0,
		})
	}

	repo.On("ListProducts", ctx).Return([]models.Product{
		{ID: id, Type: models.ProductTypeTour, Name: "Desert Safari", Slug: "desert-safari"},
	}, nil).Once()
	repo.On("ImagesByProductIDs", ctx, []uuid.UUID{id}).Return(rows, nil).Once()

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Img)
	assert.Equal(t, "https://cdn.example.com/tours/desert-safari/hero.jpg", *listed[0].Img)
}
