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
	hero "dune_voyages/internal/services/hero_resolver"
	"dune_voyages/internal/transport/http/dto"

	"github.com/google/uuid"
)

var ErrTitleRequired = errors.New("title is required")

type CatalogService struct {
	log      *slog.Logger
	repo     repository.CatalogRepository
	resolver *hero.HeroResolver
}

func NewCatalogService(log *slog.Logger, repo repository.CatalogRepository, resolver *hero.HeroResolver) *CatalogService {
	return &CatalogService{
		log:      log,
		repo:     repo,
		resolver: resolver,
	}
}

// List returns every service newest-first with resolved display images.
// Services have no slug column; the folder probe uses the slugified title,
// then the id.
func (s *CatalogService) List(ctx context.Context) ([]dto.ServiceResponse, error) {
	const op = "service.CatalogService.List"
	log := s.log.With(slog.String("op", op))

	services, err := s.repo.ListServices(ctx)
	if err != nil {
		log.Error("failed to list services", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sources := make([]hero.Source, 0, len(services))
	for _, svc := range services {
		sources = append(sources, hero.Source{
			ID:      svc.ID.String(),
			Name:    svc.Title,
			HeroKey: svc.HeroKey,
		})
	}

	urls := s.resolver.Resolve(ctx, "services", sources, s.sideTable)

	out := make([]dto.ServiceResponse, 0, len(services))
	for _, svc := range services {
		resp := dto.ServiceResponse{Service: svc}
		if u, ok := urls[svc.ID.String()]; ok && u != "" {
			resp.Img = &u
		}
		out = append(out, resp)
	}
	return out, nil
}

// Create validates, sanitizes the image keys and persists the service with
// its image rows in one transaction.
func (s *CatalogService) Create(ctx context.Context, req dto.CreateServiceRequest) (uuid.UUID, error) {
	const op = "service.CatalogService.Create"
	log := s.log.With(slog.String("op", op), slog.String("title", req.Title))

	log.Info("creating service")

	if strings.TrimSpace(req.Title) == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTitleRequired)
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

	service := models.Service{
		Title:            strings.TrimSpace(req.Title),
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		HeroKey:          heroKey,
		Tags:             req.Tags,
		Status:           status,
	}

	id, err := s.repo.SaveService(ctx, service, keys)
	if err != nil {
		log.Error("failed to save service", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.resolver.Invalidate()

	log.Info("service created", slog.String("id", id.String()))
	return id, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "service.CatalogService.Delete"
	log := s.log.With(slog.String("op", op), slog.String("id", id.String()))

	if err := s.repo.DeleteService(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to delete service", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.resolver.Invalidate()

	log.Info("service deleted")
	return nil
}

func (s *CatalogService) sideTable(ctx context.Context, ids []string) ([]hero.SideImage, error) {
	uuids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		uuids = append(uuids, parsed)
	}

	rows, err := s.repo.ImagesByServiceIDs(ctx, uuids)
	if err != nil {
		return nil, err
	}

	side := make([]hero.SideImage, 0, len(rows))
	for _, row := range rows {
		side = append(side, hero.SideImage{
			SourceID: row.ServiceID.String(),
			Key:      row.Key,
			Position: row.Position,
			IsHero:   row.IsHero,
		})
	}
	return side, nil
}
