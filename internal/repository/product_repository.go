package repository

import (
	"context"
	"fmt"

	"dune_voyages/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var productColumns = []string{
	"id", "type", "template", "name", "slug", "description", "currency",
	"location", "duration_days", "price_from",
	"make_and_model", "rate_per_hour", "rate_per_day", "passengers", "is_active",
	"hero_key", "tags", "status", "created_at", "updated_at",
}

type ProductRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveProduct inserts the product row and its image rows in one transaction.
// The first image key becomes the hero (position 0).
func (r *ProductRepo) SaveProduct(ctx context.Context, product models.Product, imageKeys []string) (uuid.UUID, error) {
	const op = "repository.ProductRepo.SaveProduct"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	query, args, err := r.sb.Insert("products").
		Columns(
			"type", "template", "name", "slug", "description", "currency",
			"location", "duration_days", "price_from",
			"make_and_model", "rate_per_hour", "rate_per_day", "passengers", "is_active",
			"hero_key", "tags", "status",
		).
		Values(
			product.Type, product.Template, product.Name, product.Slug,
			product.Description, product.Currency,
			product.Location, product.DurationDays, product.PriceFrom,
			product.MakeAndModel, product.RatePerHour, product.RatePerDay,
			product.Passengers, product.IsActive,
			product.HeroKey, product.Tags, product.Status,
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
		ins := r.sb.Insert("product_images").
			Columns("product_id", "r2_key", "position", "is_hero")
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

func (r *ProductRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "repository.ProductRepo.ListProducts"

	query, args, err := r.sb.Select(productColumns...).
		From("products").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryProducts(ctx, op, query, args)
}

func (r *ProductRepo) ListProductsPaged(ctx context.Context, pType models.ProductType, limit, offset int) ([]models.Product, error) {
	const op = "repository.ProductRepo.ListProductsPaged"

	query, args, err := r.sb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"type": pType}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryProducts(ctx, op, query, args)
}

func (r *ProductRepo) ListTransports(ctx context.Context, limit int) ([]models.Product, error) {
	const op = "repository.ProductRepo.ListTransports"

	query, args, err := r.sb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"type": models.ProductTypeTransport}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryProducts(ctx, op, query, args)
}

// SearchProducts matches the keyword case-insensitively against the fields
// relevant to the product type. Only published rows are returned.
func (r *ProductRepo) SearchProducts(ctx context.Context, pType models.ProductType, query string, limit int) ([]models.Product, error) {
	const op = "repository.ProductRepo.SearchProducts"

	kw := "%" + query + "%"

	var match sq.Or
	if pType == models.ProductTypeTransport {
		match = sq.Or{
			sq.ILike{"name": kw},
			sq.ILike{"make_and_model": kw},
			sq.ILike{"description": kw},
		}
	} else {
		match = sq.Or{
			sq.ILike{"name": kw},
			sq.ILike{"location": kw},
			sq.ILike{"description": kw},
		}
	}

	sql, args, err := r.sb.Select(productColumns...).
		From("products").
		Where(sq.And{
			sq.Eq{"type": pType},
			sq.Eq{"status": models.StatusPublished},
			match,
		}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryProducts(ctx, op, sql, args)
}

func (r *ProductRepo) ProductSlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "repository.ProductRepo.ProductSlugExists"

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)`,
		slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// DeleteProduct removes the row by primary key; image rows go with it via
// the FK cascade. Returns ErrNotFound when nothing was deleted.
func (r *ProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	const op = "repository.ProductRepo.DeleteProduct"

	query, args, err := r.sb.Delete("products").
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

// ImagesByProductIDs loads the image side-table rows for a set of products
// in one batched query.
func (r *ProductRepo) ImagesByProductIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductImage, error) {
	const op = "repository.ProductRepo.ImagesByProductIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := r.sb.Select("id", "product_id", "r2_key", "content_type", "position", "is_hero", "created_at").
		From("product_images").
		Where(sq.Eq{"product_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var imgs []models.ProductImage
	for rows.Next() {
		var im models.ProductImage
		if err := rows.Scan(&im.ID, &im.ProductID, &im.Key, &im.ContentType, &im.Position, &im.IsHero, &im.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		imgs = append(imgs, im)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return imgs, nil
}

func (r *ProductRepo) queryProducts(ctx context.Context, op, query string, args []interface{}) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Type, &p.Template, &p.Name, &p.Slug, &p.Description, &p.Currency,
		&p.Location, &p.DurationDays, &p.PriceFrom,
		&p.MakeAndModel, &p.RatePerHour, &p.RatePerDay, &p.Passengers, &p.IsActive,
		&p.HeroKey, &p.Tags, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
