package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"dune_voyages/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFolderProber struct {
	mock.Mock
}

func (m *MockFolderProber) FirstImageKey(ctx context.Context, folder string) (string, error) {
	args := m.Called(ctx, folder)
	return args.String(0), args.Error(1)
}

func (m *MockFolderProber) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newResolver(store FolderProber) *HeroResolver {
	return NewHeroResolver(slog.Default(), store, NewMemoryCache(time.Minute))
}

func noSideTable(t *testing.T) SideTableFunc {
	return func(ctx context.Context, ids []string) ([]SideImage, error) {
		t.Fatal("side table must not be consulted")
		return nil, nil
	}
}

func TestHeroResolver_ExplicitKeyShortCircuits(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	sources := []Source{
		{ID: "p1", Slug: "desert-safari", HeroKey: strPtr("tours/desert-safari/a.jpg")},
	}

	urls := resolver.Resolve(ctx, "tours", sources, noSideTable(t))

	require.Len(t, urls, 1)
	assert.Equal(t, "https://cdn.example.com/tours/desert-safari/a.jpg", urls["p1"])
	store.AssertNotCalled(t, "FirstImageKey", mock.Anything, mock.Anything)
}

func TestHeroResolver_HeroFlagOutranksPosition(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	sources := []Source{{ID: "p1", Slug: "desert-safari"}}
	side := func(ctx context.Context, ids []string) ([]SideImage, error) {
		assert.Equal(t, []string{"p1"}, ids)
		return []SideImage{
			{SourceID: "p1", Key: "x.jpg", IsHero: false, Position: intPtr(2)},
			{SourceID: "p1", Key: "y.jpg", IsHero: true, Position: intPtr(5)},
		}, nil
	}

	urls := resolver.Resolve(ctx, "tours", sources, side)

	assert.Equal(t, "https://cdn.example.com/y.jpg", urls["p1"])
	store.AssertNotCalled(t, "FirstImageKey", mock.Anything, mock.Anything)
}

func TestHeroResolver_LowestPositionWins(t *testing.T) {
	ctx := context.Background()
	resolver := newResolver(new(MockFolderProber))

	sources := []Source{{ID: "p1", Slug: "s"}}
	side := func(ctx context.Context, ids []string) ([]SideImage, error) {
		return []SideImage{
			{SourceID: "p1", Key: "late.jpg", Position: intPtr(3)},
			{SourceID: "p1", Key: "first.jpg", Position: intPtr(0)},
			{SourceID: "p1", Key: "nopos.jpg"},
		}, nil
	}

	urls := resolver.Resolve(ctx, "tours", sources, side)

	assert.Equal(t, "https://cdn.example.com/first.jpg", urls["p1"])
}

func TestHeroResolver_TieBrokenByFirstSeen(t *testing.T) {
	ctx := context.Background()
	resolver := newResolver(new(MockFolderProber))

	sources := []Source{{ID: "p1", Slug: "s"}}
	side := func(ctx context.Context, ids []string) ([]SideImage, error) {
		return []SideImage{
			{SourceID: "p1", Key: "a.jpg", IsHero: true},
			{SourceID: "p1", Key: "b.jpg", IsHero: true},
		}, nil
	}

	urls := resolver.Resolve(ctx, "tours", sources, side)

	assert.Equal(t, "https://cdn.example.com/a.jpg", urls["p1"])
}

func TestHeroResolver_FolderProbeFallback(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	store.On("FirstImageKey", mock.Anything, "tours/sample-tour").
		Return("tours/sample-tour/photo.jpg", nil).Once()

	sources := []Source{{ID: "p1", Slug: "sample-tour"}}
	side := func(ctx context.Context, ids []string) ([]SideImage, error) {
		return nil, nil
	}

	urls := resolver.Resolve(ctx, "tours", sources, side)

	assert.Equal(t, "https://cdn.example.com/tours/sample-tour/photo.jpg", urls["p1"])
	store.AssertExpectations(t)
}

func TestHeroResolver_ProbeFallsBackToID(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	store.On("FirstImageKey", mock.Anything, "tours/empty-tour").
		Return("", nil).Once()
	store.On("FirstImageKey", mock.Anything, "tours/p1").
		Return("tours/p1/cover.png", nil).Once()

	sources := []Source{{ID: "p1", Slug: "empty-tour"}}

	urls := resolver.Resolve(ctx, "tours", sources, nil)

	assert.Equal(t, "https://cdn.example.com/tours/p1/cover.png", urls["p1"])
	store.AssertExpectations(t)
}

func TestHeroResolver_SlugifiesNameWhenSlugEmpty(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	store.On("FirstImageKey", mock.Anything, "tours/grand-canyon-trip").
		Return("tours/grand-canyon-trip/a.jpg", nil).Once()

	sources := []Source{{ID: "p1", Name: "Grand Canyon Trip!"}}

	urls := resolver.Resolve(ctx, "tours", sources, nil)

	assert.Equal(t, "https://cdn.example.com/tours/grand-canyon-trip/a.jpg", urls["p1"])
	store.AssertExpectations(t)
}

func TestHeroResolver_StoreFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	store.On("FirstImageKey", mock.Anything, "tours/broken").
		Return("", errors.New("list failed")).Once()
	store.On("FirstImageKey", mock.Anything, "tours/p1").
		Return("", errors.New("list failed")).Once()

	sources := []Source{{ID: "p1", Slug: "broken"}}
	side := func(ctx context.Context, ids []string) ([]SideImage, error) {
		return nil, errors.New("db down")
	}

	urls := resolver.Resolve(ctx, "tours", sources, side)

	assert.Empty(t, urls)
	store.AssertExpectations(t)
}

func TestHeroResolver_NoProbeStopsAtSideTable(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	sources := []Source{{ID: "p1", Slug: "no-images"}}
	side := func(ctx context.Context, ids []string) ([]SideImage, error) {
		return nil, nil
	}

	urls := resolver.ResolveNoProbe(ctx, "transports", sources, side)

	assert.Empty(t, urls)
	store.AssertNotCalled(t, "FirstImageKey", mock.Anything, mock.Anything)
}

func TestHeroResolver_EmptyInput(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	urls := resolver.Resolve(ctx, "tours", nil, noSideTable(t))

	assert.Empty(t, urls)
	store.AssertNotCalled(t, "FirstImageKey", mock.Anything, mock.Anything)
}

func TestHeroResolver_CacheHitSkipsStore(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	store.On("FirstImageKey", mock.Anything, "tours/cached").
		Return("tours/cached/a.jpg", nil).Once()

	sources := []Source{{ID: "p1", Slug: "cached"}}

	hitsBefore := testutil.ToFloat64(metrics.HeroCacheHits.WithLabelValues("hit"))
	missesBefore := testutil.ToFloat64(metrics.HeroCacheHits.WithLabelValues("miss"))

	first := resolver.Resolve(ctx, "tours", sources, nil)
	second := resolver.Resolve(ctx, "tours", sources, nil)

	assert.Equal(t, first, second)
	store.AssertNumberOfCalls(t, "FirstImageKey", 1)

	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(metrics.HeroCacheHits.WithLabelValues("hit")))
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(metrics.HeroCacheHits.WithLabelValues("miss")))
}

func TestHeroResolver_InvalidateDropsCache(t *testing.T) {
	ctx := context.Background()
	store := new(MockFolderProber)
	resolver := newResolver(store)

	store.On("FirstImageKey", mock.Anything, "tours/stale").
		Return("tours/stale/a.jpg", nil).Twice()

	sources := []Source{{ID: "p1", Slug: "stale"}}

	resolver.Resolve(ctx, "tours", sources, nil)
	resolver.Invalidate()
	resolver.Resolve(ctx, "tours", sources, nil)

	store.AssertNumberOfCalls(t, "FirstImageKey", 2)
}
