package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"dune_voyages/internal/domain/models"
	"dune_voyages/internal/lib/keyutil"
	"dune_voyages/internal/lib/logger/sl"
	"dune_voyages/internal/repository"
	hero "dune_voyages/internal/services/hero_resolver"
	"dune_voyages/internal/transport/http/dto"

	"github.com/google/uuid"
)

const (
	toursPageSize      = 9
	transportsPageSize = 12
	searchLimit        = 24
	popularLimit       = 50
)

var (
	ErrNameAndSlugRequired   = errors.New("name and slug are required")
	ErrTourPriceRequired     = errors.New("tour price_from is required")
	ErrTransportRateRequired = errors.New("transport needs rate_per_hour or rate_per_day")
	ErrSlugExists            = errors.New("slug already exists")
)

// ImageLister is the slice of the object store used for per-slug galleries.
type ImageLister interface {
	ListImageURLs(ctx context.Context, prefix string) ([]string, error)
}

type ProductService struct {
	log      *slog.Logger
	repo     repository.ProductRepository
	resolver *hero.HeroResolver
	images   ImageLister
	waPhone  string
}

func NewProductService(log *slog.Logger, repo repository.ProductRepository, resolver *hero.HeroResolver, images ImageLister, waPhone string) *ProductService {
	return &ProductService{
		log:      log,
		repo:     repo,
		resolver: resolver,
		images:   images,
		waPhone:  waPhone,
	}
}

// List returns every product newest-first, each decorated with its
// resolved display image URL.
func (s *ProductService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	const op = "service.ProductService.List"
	log := s.log.With(slog.String("op", op))

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.decorate(ctx, products), nil
}

// Create validates the request per product type, guards slug uniqueness
// and persists the product with its image rows in one transaction. The
// first image key becomes the hero. Hero caches are invalidated.
func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (uuid.UUID, error) {
	const op = "service.ProductService.Create"
	log := s.log.With(slog.String("op", op), slog.String("slug", req.Slug))

	log.Info("creating product")

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrNameAndSlugRequired)
	}

	pType := models.ProductType(req.Type)
	switch pType {
	case models.ProductTypeTour:
		if req.PriceFrom == nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTourPriceRequired)
		}
		// A tour never persists transport fields, whatever the payload carried.
		req.MakeAndModel = nil
		req.RatePerHour = nil
		req.RatePerDay = nil
		req.Passengers = nil
		req.IsActive = nil
	case models.ProductTypeTransport:
		if !validRate(req.RatePerHour) && !validRate(req.RatePerDay) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTransportRateRequired)
		}
		req.Location = nil
		req.DurationDays = nil
		req.PriceFrom = nil
	}

	slug := keyutil.Slugify(req.Slug)

	// Pre-check for a friendly 409; the unique index stays authoritative
	// under races.
	exists, err := s.repo.ProductSlugExists(ctx, slug)
	if err != nil {
		log.Error("slug check failed", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrSlugExists)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "AED"
	}

	template := models.ProductTemplate(req.Template)
	if template == "" {
		template = models.TemplateHorizontal
	}
	status := models.PublishStatus(req.Status)
	if status == "" {
		status = models.StatusDraft
	}

	var heroKey *string
	if req.HeroKey != nil && *req.HeroKey != "" {
		k := keyutil.Sanitize(*req.HeroKey)
		heroKey = &k
	}

	keys := make([]string, 0, len(req.ImageKeys))
	for _, k := range req.ImageKeys {
		if sk := keyutil.Sanitize(k); sk != "" {
			keys = append(keys, sk)
		}
	}

	product := models.Product{
		Type:         pType,
		Template:     template,
		Name:         strings.TrimSpace(req.Name),
		Slug:         slug,
		Description:  req.Description,
		Currency:     currency,
		Location:     req.Location,
		DurationDays: req.DurationDays,
		PriceFrom:    req.PriceFrom,
		MakeAndModel: req.MakeAndModel,
		RatePerHour:  req.RatePerHour,
		RatePerDay:   req.RatePerDay,
		Passengers:   req.Passengers,
		IsActive:     req.IsActive,
		HeroKey:      heroKey,
		Tags:         req.Tags,
		Status:       status,
	}

	id, err := s.repo.SaveProduct(ctx, product, keys)
	if err != nil {
		log.Error("failed to save product", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.resolver.Invalidate()

	log.Info("product created", slog.String("id", id.String()))
	return id, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "service.ProductService.Delete"
	log := s.log.With(slog.String("op", op), slog.String("id", id.String()))

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.Error("failed to delete product", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.resolver.Invalidate()

	log.Info("product deleted")
	return nil
}

// PopularTransports returns the newest transports for the landing strip.
// Heroes come from the explicit key or the side table only; no folder
// probing on this hot path.
func (s *ProductService) PopularTransports(ctx context.Context) ([]dto.TransportCard, error) {
	const op = "service.ProductService.PopularTransports"
	log := s.log.With(slog.String("op", op))

	transports, err := s.repo.ListTransports(ctx, popularLimit)
	if err != nil {
		log.Error("failed to list transports", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	urls := s.resolver.ResolveNoProbe(ctx, "transports", toSources(transports), s.sideTable)

	cards := make([]dto.TransportCard, 0, len(transports))
	for _, p := range transports {
		cards = append(cards, dto.TransportCard{
			ID:           p.ID,
			Name:         p.Name,
			Slug:         p.Slug,
			MakeAndModel: p.MakeAndModel,
			RatePerHour:  p.RatePerHour,
			RatePerDay:   p.RatePerDay,
			Passengers:   p.Passengers,
			Currency:     p.Currency,
			CreatedAt:    p.CreatedAt,
			Img:          urlOrNil(urls, p.ID.String()),
		})
	}
	return cards, nil
}

// PagedTours returns one page of tours for the "all tours" listing.
func (s *ProductService) PagedTours(ctx context.Context, page int) ([]dto.ProductResponse, error) {
	return s.paged(ctx, models.ProductTypeTour, toursPageSize, page)
}

// PagedTransports returns one page of transports for the "all transports"
// listing.
func (s *ProductService) PagedTransports(ctx context.Context, page int) ([]dto.ProductResponse, error) {
	return s.paged(ctx, models.ProductTypeTransport, transportsPageSize, page)
}

func (s *ProductService) paged(ctx context.Context, pType models.ProductType, size, page int) ([]dto.ProductResponse, error) {
	const op = "service.ProductService.paged"
	log := s.log.With(slog.String("op", op), slog.String("type", string(pType)), slog.Int("page", page))

	if page < 1 {
		page = 1
	}

	products, err := s.repo.ListProductsPaged(ctx, pType, size, (page-1)*size)
	if err != nil {
		log.Error("failed to list page", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.decorate(ctx, products), nil
}

// Search matches published products against the keyword and decorates the
// hits with display images and wa.me booking links.
func (s *ProductService) Search(ctx context.Context, query string, pType models.ProductType) ([]dto.SearchResult, error) {
	const op = "service.ProductService.Search"
	log := s.log.With(slog.String("op", op), slog.String("query", query))

	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.SearchResult{}, nil
	}
	if pType != models.ProductTypeTransport {
		pType = models.ProductTypeTour
	}

	products, err := s.repo.SearchProducts(ctx, pType, query, searchLimit)
	if err != nil {
		log.Error("search failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	decorated := s.decorate(ctx, products)

	results := make([]dto.SearchResult, 0, len(decorated))
	for _, p := range decorated {
		results = append(results, dto.SearchResult{
			ProductResponse: p,
			WhatsAppURL:     s.whatsAppLink(p.Name),
		})
	}
	return results, nil
}

// ListImagesForSlug returns the public URLs of every image stored under
// the tour's folder, gallery order.
func (s *ProductService) ListImagesForSlug(ctx context.Context, slug string) ([]string, error) {
	const op = "service.ProductService.ListImagesForSlug"

	urls, err := s.images.ListImageURLs(ctx, "tours/"+keyutil.Sanitize(slug))
	if err != nil {
		s.log.Error("failed to list tour images",
			slog.String("op", op), slog.String("slug", slug), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return urls, nil
}

func (s *ProductService) decorate(ctx context.Context, products []models.Product) []dto.ProductResponse {
	var tours, transports []models.Product
	for _, p := range products {
		if p.Type == models.ProductTypeTransport {
			transports = append(transports, p)
		} else {
			tours = append(tours, p)
		}
	}

	urls := s.resolver.Resolve(ctx, "tours", toSources(tours), s.sideTable)
	for id, u := range s.resolver.Resolve(ctx, "transports", toSources(transports), s.sideTable) {
		urls[id] = u
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductResponse{
			Product: p,
			Img:     urlOrNil(urls, p.ID.String()),
		})
	}
	return out
}

// sideTable adapts the image repository to the resolver's batched lookup.
func (s *ProductService) sideTable(ctx context.Context, ids []string) ([]hero.SideImage, error) {
	uuids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		uuids = append(uuids, parsed)
	}

	rows, err := s.repo.ImagesByProductIDs(ctx, uuids)
	if err != nil {
		return nil, err
	}

	side := make([]hero.SideImage, 0, len(rows))
	for _, row := range rows {
		side = append(side, hero.SideImage{
			SourceID: row.ProductID.String(),
			Key:      row.Key,
			Position: row.Position,
			IsHero:   row.IsHero,
		})
	}
	return side, nil
}

func (s *ProductService) whatsAppLink(productName string) string {
	if s.waPhone == "" {
		return ""
	}
	msg := url.QueryEscape("Hi! I'm interested in " + productName)
	return "https://wa.me/" + s.waPhone + "?text=" + msg
}

func toSources(products []models.Product) []hero.Source {
	sources := make([]hero.Source, 0, len(products))
	for _, p := range products {
		sources = append(sources, hero.Source{
			ID:      p.ID.String(),
			Slug:    p.Slug,
			Name:    p.Name,
			HeroKey: p.HeroKey,
		})
	}
	return sources
}

func urlOrNil(urls map[string]string, id string) *string {
	if u, ok := urls[id]; ok && u != "" {
		return &u
	}
	return nil
}

func validRate(rate *float64) bool {
	return rate != nil && *rate >= 0
}
