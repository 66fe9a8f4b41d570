package repository

import (
	"context"
	"fmt"

	"dune_voyages/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type CatalogRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *CatalogRepo) SaveService(ctx context.Context, service models.Service, imageKeys []string) (uuid.UUID, error) {
	const op = "repository.CatalogRepo.SaveService"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	query, args, err := r.sb.Insert("services").
		Columns("title", "short_description", "long_description", "hero_key", "tags", "status").
		Values(
			service.Title,
			service.ShortDescription,
			service.LongDescription,
			service.HeroKey,
			service.Tags,
			service.Status,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(imageKeys) > 0 {
		ins := r.sb.Insert("service_images").
			Columns("service_id", "r2_key", "position", "is_hero")
		for idx, key := range imageKeys {
			ins = ins.Values(id, key, idx, idx == 0)
		}

		query, args, err = ins.ToSql()
		if err != nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *CatalogRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	const op = "repository.CatalogRepo.ListServices"

	query, args, err := r.sb.Select(
		"id", "title", "short_description", "long_description",
		"hero_key", "tags", "status", "created_at", "updated_at",
	).
		From("services").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(
			&s.ID, &s.Title, &s.ShortDescription, &s.LongDescription,
			&s.HeroKey, &s.Tags, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (r *CatalogRepo) DeleteService(ctx context.Context, id uuid.UUID) error {
	const op = "repository.CatalogRepo.DeleteService"

	query, args, err := r.sb.Delete("services").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return nil
}

func (r *CatalogRepo) ImagesByServiceIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServiceImage, error) {
	const op = "repository.CatalogRepo.ImagesByServiceIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := r.sb.Select("id", "service_id", "r2_key", "position", "is_hero", "created_at").
		From("service_images").
		Where(sq.Eq{"service_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var imgs []models.ServiceImage
	for rows.Next() {
		var im models.ServiceImage
		if err := rows.Scan(&im.ID, &im.ServiceID, &im.Key, &im.Position, &im.IsHero, &im.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		imgs = append(imgs, im)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return imgs, nil
}
