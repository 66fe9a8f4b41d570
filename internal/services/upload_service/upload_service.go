package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dune_voyages/internal/lib/keyutil"
	"dune_voyages/internal/lib/logger/sl"
	"dune_voyages/internal/transport/http/dto"
)

// MaxBatchItems caps one signing request; oversized batches are rejected
// before any item is validated.
const MaxBatchItems = 2000

var (
	ErrNoItems         = errors.New("no items to sign")
	ErrTooManyItems    = errors.New("too many items")
	ErrInvalidItem     = errors.New("invalid item")
	ErrMissingFileInfo = errors.New("file name and type required")
)

// Signer is the slice of the object store the upload service needs.
type Signer interface {
	PresignedPut(ctx context.Context, key, contentType string) (string, error)
	PublicURL(key string) string
}

type UploadService struct {
	log    *slog.Logger
	signer Signer
}

func NewUploadService(log *slog.Logger, signer Signer) *UploadService {
	return &UploadService{
		log:    log,
		signer: signer,
	}
}

// SignBatch validates and signs the whole batch atomically: one malformed
// item fails the request with zero URLs produced. Dir and key are
// re-sanitized server-side, so stored keys are safe even when the caller
// skipped sanitization. Output order matches input order and every item
// carries its final key for lookup-by-key callers.
func (s *UploadService) SignBatch(ctx context.Context, items []dto.BatchUploadItem) ([]dto.SignedItem, error) {
	const op = "service.UploadService.SignBatch"
	log := s.log.With(slog.String("op", op), slog.Int("items", len(items)))

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoItems)
	}
	if len(items) > MaxBatchItems {
		return nil, fmt.Errorf("%s: %w", op, ErrTooManyItems)
	}

	keys := make([]string, len(items))
	for i, item := range items {
		if item.Key == "" || item.ContentType == "" {
			return nil, fmt.Errorf("%s: item %d: %w", op, i, ErrInvalidItem)
		}
		keys[i] = keyutil.Join(item.Dir, item.Key)
		if keys[i] == "" {
			return nil, fmt.Errorf("%s: item %d: %w", op, i, ErrInvalidItem)
		}
	}

	signed := make([]dto.SignedItem, len(items))
	for i, item := range items {
		url, err := s.signer.PresignedPut(ctx, keys[i], item.ContentType)
		if err != nil {
			log.Error("failed to sign upload url", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		signed[i] = dto.SignedItem{Key: keys[i], SignedURL: url}
	}

	log.Info("batch signed")
	return signed, nil
}

// SignSingle signs one upload. The final key is taken from relativePath
// when present, else dir/fileName, else fileName alone.
func (s *UploadService) SignSingle(ctx context.Context, req dto.SingleUploadRequest) (dto.SingleUploadResponse, error) {
	const op = "service.UploadService.SignSingle"
	log := s.log.With(slog.String("op", op), slog.String("file_name", req.FileName))

	if req.FileName == "" || req.FileType == "" {
		return dto.SingleUploadResponse{}, fmt.Errorf("%s: %w", op, ErrMissingFileInfo)
	}

	var key string
	switch {
	case req.RelativePath != "":
		key = keyutil.Sanitize(req.RelativePath)
	case req.Dir != "":
		key = keyutil.Join(req.Dir, req.FileName)
	default:
		key = keyutil.Sanitize(req.FileName)
	}
	if key == "" {
		return dto.SingleUploadResponse{}, fmt.Errorf("%s: %w", op, ErrMissingFileInfo)
	}

	url, err := s.signer.PresignedPut(ctx, key, req.FileType)
	if err != nil {
		log.Error("failed to sign upload url", sl.Err(err))
		return dto.SingleUploadResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return dto.SingleUploadResponse{
		Key:       key,
		SignedURL: url,
		PublicURL: s.signer.PublicURL(key),
	}, nil
}
