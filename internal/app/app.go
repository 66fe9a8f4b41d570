package app

import (
	"context"
	"log/slog"

	httpapp "dune_voyages/internal/app/http"
	"dune_voyages/internal/config"
	"dune_voyages/internal/repository"
	catalogsvc "dune_voyages/internal/services/catalog_service"
	hero "dune_voyages/internal/services/hero_resolver"
	productsvc "dune_voyages/internal/services/product_service"
	uploadsvc "dune_voyages/internal/services/upload_service"
	visasvc "dune_voyages/internal/services/visa_service"
	"dune_voyages/internal/storage/objectstore"
	"dune_voyages/internal/storage/rediscache"
	httprouters "dune_voyages/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Repo       *repository.Repository
}

func New(log *slog.Logger, cfg *config.Config) *App {
	repo, err := repository.NewRepository(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	store, err := objectstore.New(cfg.ObjectStorage)
	if err != nil {
		panic(err)
	}

	var cache hero.Cache
	if cfg.Redis.Enabled {
		cache = rediscache.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB, cfg.HeroCacheTTL)
	} else {
		cache = hero.NewMemoryCache(cfg.HeroCacheTTL)
	}

	resolver := hero.NewHeroResolver(log, store, cache)

	productService := productsvc.NewProductService(log, repo.Product, resolver, store, cfg.WhatsAppPhone)
	catalogService := catalogsvc.NewCatalogService(log, repo.Catalog, resolver)
	visaService := visasvc.NewVisaService(log, repo.Visa, repo.Booking)
	uploadService := uploadsvc.NewUploadService(log, store)

	routers := httprouters.NewRouter(log, productService, catalogService, visaService, uploadService)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		Repo:       repo,
	}
}
