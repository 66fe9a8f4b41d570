package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"dune_voyages/internal/domain/models"
	"dune_voyages/internal/lib/logger/sl"
	"dune_voyages/internal/repository"
	catalogsvc "dune_voyages/internal/services/catalog_service"
	productsvc "dune_voyages/internal/services/product_service"
	uploadsvc "dune_voyages/internal/services/upload_service"
	visasvc "dune_voyages/internal/services/visa_service"
	"dune_voyages/internal/transport/http/dto"
	"dune_voyages/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "dune_voyages/docs"
)

type ProductService interface {
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PopularTransports(ctx context.Context) ([]dto.TransportCard, error)
	PagedTours(ctx context.Context, page int) ([]dto.ProductResponse, error)
	PagedTransports(ctx context.Context, page int) ([]dto.ProductResponse, error)
	Search(ctx context.Context, query string, pType models.ProductType) ([]dto.SearchResult, error)
	ListImagesForSlug(ctx context.Context, slug string) ([]string, error)
}

type CatalogService interface {
	List(ctx context.Context) ([]dto.ServiceResponse, error)
	Create(ctx context.Context, req dto.CreateServiceRequest) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VisaService interface {
	List(ctx context.Context) ([]dto.VisaCard, error)
	Create(ctx context.Context, req dto.CreateVisaRequest) (int64, error)
	Delete(ctx context.Context, id int64) error
	CreateBooking(ctx context.Context, req dto.CreateBookingRequest) (int64, error)
	ListBookings(ctx context.Context, visaID *int64) ([]models.Booking, error)
}

type UploadService interface {
	SignBatch(ctx context.Context, items []dto.BatchUploadItem) ([]dto.SignedItem, error)
	SignSingle(ctx context.Context, req dto.SingleUploadRequest) (dto.SingleUploadResponse, error)
}

type Routers struct {
	log            *slog.Logger
	ProductService ProductService
	CatalogService CatalogService
	VisaService    VisaService
	UploadService  UploadService
}

func NewRouter(log *slog.Logger, productService ProductService, catalogService CatalogService, visaService VisaService, uploadService UploadService) *Routers {
	return &Routers{
		log:            log,
		ProductService: productService,
		CatalogService: catalogService,
		VisaService:    visaService,
		UploadService:  uploadService,
	}
}

// ListProducts godoc
// @Summary List all products
// @Description Returns every tour and transport newest-first, each with its resolved display image under "_img".
// @Tags products
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Failure 500 {object} response.Error
// @Router /api/products [get]
func (r *Routers) ListProducts(c echo.Context) error {
	const op = "http.routers.ListProducts"

	log := r.log.With(
		slog.String("op", op),
	)

	products, err := r.ProductService.List(c.Request().Context())
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, products)
}

// CreateProduct godoc
// @Summary Create a product
// @Description Creates a tour or transport with optional image keys. The first image key becomes the hero.
// @Tags products
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "Product payload"
// @Success 201 {object} response.OK
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/products [post]
func (r *Routers) CreateProduct(c echo.Context) error {
	const op = "http.routers.CreateProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateProductRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidJSON)
	}

	id, err := r.ProductService.Create(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, productsvc.ErrNameAndSlugRequired):
			return c.JSON(http.StatusBadRequest, response.ErrNameAndSlugRequired)
		case errors.Is(err, productsvc.ErrTourPriceRequired):
			return c.JSON(http.StatusBadRequest, response.ErrTourPriceFromRequired)
		case errors.Is(err, productsvc.ErrTransportRateRequired):
			return c.JSON(http.StatusBadRequest, response.ErrTransportRateRequired)
		case errors.Is(err, productsvc.ErrSlugExists):
			log.Warn("duplicate slug", slog.String("slug", req.Slug))
			return c.JSON(http.StatusConflict, response.ErrSlugExists)
		}

		log.Error("failed to create product", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusCreated, response.Created(id))
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Deletes a product by id; image rows go with it.
// @Tags products
// @Produce json
// @Param id path string true "Product UUID" format(uuid)
// @Success 200 {object} response.OK
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/products/{id} [delete]
func (r *Routers) DeleteProduct(c echo.Context) error {
	const op = "http.routers.DeleteProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid product id", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrBadID)
	}

	if err := r.ProductService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to delete product", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, response.Success())
}

// AllTours godoc
// @Summary Paged tour listing
// @Description Returns one page of tours, 9 per page, newest first.
// @Tags products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {array} dto.ProductResponse
// @Failure 500 {object} response.Error
// @Router /api/products/all [get]
func (r *Routers) AllTours(c echo.Context) error {
	const op = "http.routers.AllTours"

	log := r.log.With(
		slog.String("op", op),
	)

	tours, err := r.ProductService.PagedTours(c.Request().Context(), pageParam(c))
	if err != nil {
		log.Error("failed to list tours page", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, tours)
}

// AllTransports godoc
// @Summary Paged transport listing
// @Description Returns one page of transports, 12 per page, newest first.
// @Tags transports
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {array} dto.ProductResponse
// @Failure 500 {object} response.Error
// @Router /api/transports/all [get]
func (r *Routers) AllTransports(c echo.Context) error {
	const op = "http.routers.AllTransports"

	log := r.log.With(
		slog.String("op", op),
	)

	transports, err := r.ProductService.PagedTransports(c.Request().Context(), pageParam(c))
	if err != nil {
		log.Error("failed to list transports page", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, transports)
}

// PopularTransports godoc
// @Summary Popular transports strip
// @Description Returns the newest transports for the landing page, limit 50.
// @Tags transports
// @Produce json
// @Success 200 {array} dto.TransportCard
// @Failure 500 {object} response.Error
// @Router /api/transports/popular [get]
func (r *Routers) PopularTransports(c echo.Context) error {
	const op = "http.routers.PopularTransports"

	log := r.log.With(
		slog.String("op", op),
	)

	cards, err := r.ProductService.PopularTransports(c.Request().Context())
	if err != nil {
		log.Error("failed to list popular transports", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, cards)
}

// Search godoc
// @Summary Search published products
// @Description Keyword search over published tours or transports. Empty query returns an empty list.
// @Tags search
// @Produce json
// @Param q query string true "Search keyword"
// @Param type query string false "Product type" Enums(tour, transport) default(tour)
// @Success 200 {array} dto.SearchResult
// @Failure 500 {object} response.Error
// @Router /api/search [get]
func (r *Routers) Search(c echo.Context) error {
	const op = "http.routers.Search"

	log := r.log.With(
		slog.String("op", op),
	)

	results, err := r.ProductService.Search(
		c.Request().Context(),
		c.QueryParam("q"),
		models.ProductType(c.QueryParam("type")),
	)
	if err != nil {
		log.Error("search failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, results)
}

// TourImages godoc
// @Summary Tour gallery images
// @Description Returns the public URLs of every image stored under the tour's folder.
// @Tags products
// @Produce json
// @Param slug path string true "Tour slug"
// @Success 200 {array} string
// @Failure 500 {object} response.Error
// @Router /api/tours/{slug}/images [get]
func (r *Routers) TourImages(c echo.Context) error {
	const op = "http.routers.TourImages"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	urls, err := r.ProductService.ListImagesForSlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		log.Error("failed to list tour images", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, urls)
}

// ListServices godoc
// @Summary List all services
// @Description Returns every service newest-first with its resolved display image under "_img".
// @Tags services
// @Produce json
// @Success 200 {array} dto.ServiceResponse
// @Failure 500 {object} response.Error
// @Router /api/services [get]
func (r *Routers) ListServices(c echo.Context) error {
	const op = "http.routers.ListServices"

	log := r.log.With(
		slog.String("op", op),
	)

	services, err := r.CatalogService.List(c.Request().Context())
	if err != nil {
		log.Error("failed to list services", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, services)
}

// CreateService godoc
// @Summary Create a service
// @Tags services
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Service payload"
// @Success 201 {object} response.OK
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/services [post]
func (r *Routers) CreateService(c echo.Context) error {
	const op = "http.routers.CreateService"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateServiceRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidJSON)
	}

	id, err := r.CatalogService.Create(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, catalogsvc.ErrTitleRequired) {
			return c.JSON(http.StatusBadRequest, response.ErrTitleRequired)
		}

		log.Error("failed to create service", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusCreated, response.Created(id))
}

// DeleteService godoc
// @Summary Delete a service
// @Tags services
// @Produce json
// @Param id path string true "Service UUID" format(uuid)
// @Success 200 {object} response.OK
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/services/{id} [delete]
func (r *Routers) DeleteService(c echo.Context) error {
	const op = "http.routers.DeleteService"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid service id", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrBadID)
	}

	if err := r.CatalogService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to delete service", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, response.Success())
}

// ListVisas godoc
// @Summary Visa pricing grid
// @Description Returns active visa packages in display order, with features and detail sections.
// @Tags visas
// @Produce json
// @Success 200 {array} dto.VisaCard
// @Failure 500 {object} response.Error
// @Router /api/visas [get]
func (r *Routers) ListVisas(c echo.Context) error {
	const op = "http.routers.ListVisas"

	log := r.log.With(
		slog.String("op", op),
	)

	visas, err := r.VisaService.List(c.Request().Context())
	if err != nil {
		log.Error("failed to list visas", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, visas)
}

// CreateVisa godoc
// @Summary Create a visa package
// @Description Creates a visa package with its nested features and sections in one transaction.
// @Tags visas
// @Accept json
// @Produce json
// @Param request body dto.CreateVisaRequest true "Visa payload"
// @Success 200 {object} response.OK
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/visas/create [post]
func (r *Routers) CreateVisa(c echo.Context) error {
	const op = "http.routers.CreateVisa"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateVisaRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidJSON)
	}

	id, err := r.VisaService.Create(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, visasvc.ErrTitleRequired):
			return c.JSON(http.StatusBadRequest, response.ErrTitleRequired)
		case errors.Is(err, visasvc.ErrSlugExists):
			log.Warn("duplicate slug", slog.String("slug", req.Slug))
			return c.JSON(http.StatusConflict, response.ErrSlugExists)
		}

		log.Error("failed to create visa", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, response.Created(id))
}

// DeleteVisa godoc
// @Summary Delete a visa package
// @Tags visas
// @Produce json
// @Param id path int true "Visa id"
// @Success 200 {object} response.OK
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/visas/{id} [delete]
func (r *Routers) DeleteVisa(c echo.Context) error {
	const op = "http.routers.DeleteVisa"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Warn("invalid visa id", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrBadID)
	}

	if err := r.VisaService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to delete visa", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, response.Success())
}

// CreateBooking godoc
// @Summary Create a visa booking
// @Description Records a booking lead against a visa package. The quoted amount is frozen from the visa's current base price.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.OK
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/bookings [post]
func (r *Routers) CreateBooking(c echo.Context) error {
	const op = "http.routers.CreateBooking"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateBookingRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidJSON)
	}

	id, err := r.VisaService.CreateBooking(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, visasvc.ErrCustomerNameRequired):
			return c.JSON(http.StatusBadRequest, response.ErrCustomerNameRequired)
		case errors.Is(err, visasvc.ErrVisaNotFound):
			log.Warn("booking for missing visa", slog.Int64("visa_id", req.VisaID))
			return c.JSON(http.StatusNotFound, response.ErrVisaNotFound)
		}

		log.Error("failed to create booking", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusCreated, response.Created(id))
}

// ListBookings godoc
// @Summary List bookings
// @Description Admin listing of booking leads, newest first, optionally filtered by visa.
// @Tags bookings
// @Produce json
// @Param visa_id query int false "Filter by visa id"
// @Success 200 {array} models.Booking
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/bookings [get]
func (r *Routers) ListBookings(c echo.Context) error {
	const op = "http.routers.ListBookings"

	log := r.log.With(
		slog.String("op", op),
	)

	var visaID *int64
	if raw := c.QueryParam("visa_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warn("invalid visa_id filter", sl.Err(err))
			return c.JSON(http.StatusBadRequest, response.ErrBadID)
		}
		visaID = &id
	}

	bookings, err := r.VisaService.ListBookings(c.Request().Context(), visaID)
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, bookings)
}

// SignUpload godoc
// @Summary Sign a single upload
// @Description Returns one pre-signed PUT URL for a direct browser upload.
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body dto.SingleUploadRequest true "Upload descriptor"
// @Success 200 {object} dto.SingleUploadResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/upload [post]
func (r *Routers) SignUpload(c echo.Context) error {
	const op = "http.routers.SignUpload"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.SingleUploadRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidJSON)
	}

	signed, err := r.UploadService.SignSingle(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, uploadsvc.ErrMissingFileInfo) {
			return c.JSON(http.StatusBadRequest, response.ErrFileNameAndTypeRequired)
		}

		log.Error("failed to sign upload", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, signed)
}

// SignUploadBatch godoc
// @Summary Sign an upload batch
// @Description Returns one pre-signed PUT URL per item, up to 2000 per batch. A single malformed item fails the whole batch.
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body dto.BatchUploadRequest true "Upload batch"
// @Success 200 {object} dto.BatchUploadResponse
// @Failure 400 {object} response.Error
// @Failure 413 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/upload/batch [post]
func (r *Routers) SignUploadBatch(c echo.Context) error {
	const op = "http.routers.SignUploadBatch"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.BatchUploadRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidJSON)
	}

	items, err := r.UploadService.SignBatch(c.Request().Context(), req.Items)
	if err != nil {
		switch {
		case errors.Is(err, uploadsvc.ErrNoItems):
			return c.JSON(http.StatusBadRequest, response.ErrItemsRequired)
		case errors.Is(err, uploadsvc.ErrInvalidItem):
			return c.JSON(http.StatusBadRequest, response.ErrInvalidItem)
		case errors.Is(err, uploadsvc.ErrTooManyItems):
			log.Warn("oversized batch", slog.Int("items", len(req.Items)))
			return c.JSON(http.StatusRequestEntityTooLarge, response.ErrTooManyItems)
		}

		log.Error("failed to sign batch", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrServer)
	}

	return c.JSON(http.StatusOK, dto.BatchUploadResponse{Items: items})
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return page
}
