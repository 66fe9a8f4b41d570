package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"dune_voyages/internal/domain/models"
	"dune_voyages/internal/repository"
	hero "dune_voyages/internal/services/hero_resolver"
	"dune_voyages/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) SaveService(ctx context.Context, service models.Service, imageKeys []string) (uuid.UUID, error) {
	args := m.Called(ctx, service, imageKeys)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockCatalogRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) ImagesByServiceIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServiceImage, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.ServiceImage), args.Error(1)
}

type mockProber struct {
	mock.Mock
}

func (m *mockProber) FirstImageKey(ctx context.Context, folder string) (string, error) {
	args := m.Called(ctx, folder)
	return args.String(0), args.Error(1)
}

func (m *mockProber) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func newService(repo repository.CatalogRepository, prober hero.FolderProber) *CatalogService {
	resolver := hero.NewHeroResolver(slog.Default(), prober, hero.NewMemoryCache(time.Minute))
	return NewCatalogService(slog.Default(), repo, resolver)
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("title required", func(t *testing.T) {
		svc := newService(new(MockCatalogRepository), new(mockProber))

		_, err := svc.Create(ctx, dto.CreateServiceRequest{Title: "  "})
		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("sanitizes keys, defaults status", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		svc := newService(repo, new(mockProber))
		testID := uuid.New()

		repo.On("SaveService", ctx, mock.MatchedBy(func(s models.Service) bool {
			return s.Title == "Airport Transfer" && s.Status == models.StatusDraft
		}), []string{"services/transfer/a.jpg"}).
			Return(testID, nil).Once()

		id, err := svc.Create(ctx, dto.CreateServiceRequest{
			Title:     " Airport Transfer ",
			ImageKeys: []string{"..\\services/transfer/a.jpg"},
		})
		require.NoError(t, err)
		assert.Equal(t, testID, id)
		repo.AssertExpectations(t)
	})
}

func TestCatalogService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCatalogRepository)
	prober := new(mockProber)
	svc := newService(repo, prober)

	withHero := models.Service{
		ID:      uuid.New(),
		Title:   "City Pass",
		HeroKey: strPtr("services/city-pass/hero.jpg"),
	}
	probed := models.Service{
		ID:    uuid.New(),
		Title: "Airport Transfer",
	}

	repo.On("ListServices", ctx).
		Return([]models.Service{withHero, probed}, nil).Once()
	repo.On("ImagesByServiceIDs", ctx, []uuid.UUID{probed.ID}).
		Return([]models.ServiceImage{}, nil).Once()

	// No slug column: probe by slugified title, then id.
	prober.On("FirstImageKey", mock.Anything, "services/airport-transfer").
		Return("", nil).Once()
	prober.On("FirstImageKey", mock.Anything, "services/"+probed.ID.String()).
		Return("services/"+probed.ID.String()+"/a.jpg", nil).Once()

	out, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.NotNil(t, out[0].Img)
	assert.Equal(t, "https://cdn.example.com/services/city-pass/hero.jpg", *out[0].Img)
	require.NotNil(t, out[1].Img)
	repo.AssertExpectations(t)
	prober.AssertExpectations(t)
}

func TestCatalogService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCatalogRepository)
	svc := newService(repo, new(mockProber))
	id := uuid.New()

	repo.On("DeleteService", ctx, id).
		Return(repository.ErrNotFound).Once()

	err := svc.Delete(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func strPtr(s string) *string { return &s }
