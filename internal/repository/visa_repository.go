package repository

import (
	"context"
	"errors"
	"fmt"

	"dune_voyages/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type VisaRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewVisaRepository(db *pgxpool.Pool) *VisaRepo {
	return &VisaRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveVisa inserts the visa with all its features, sections and section
// items in one transaction. A failure anywhere rolls the whole aggregate
// back; partial visas never hit the tables.
func (r *VisaRepo) SaveVisa(ctx context.Context, visa models.Visa) (int64, error) {
	const op = "repository.VisaRepo.SaveVisa"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	query, args, err := r.sb.Insert("visas").
		Columns(
			"slug", "title", "description", "badge",
			"base_price_amount", "base_price_currency",
			"is_active", "display_order",
		).
		Values(
			visa.Slug, visa.Title, visa.Description, visa.Badge,
			visa.BasePriceAmount, visa.BasePriceCurrency,
			visa.IsActive, visa.DisplayOrder,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var visaID int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&visaID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(visa.Features) > 0 {
		ins := r.sb.Insert("visa_features").Columns("visa_id", "sort_order", "text")
		for _, f := range visa.Features {
			ins = ins.Values(visaID, f.SortOrder, f.Text)
		}
		query, args, err = ins.ToSql()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	for _, s := range visa.Sections {
		query, args, err = r.sb.Insert("visa_sections").
			Columns("visa_id", "sort_order", "kind", "title", "body").
			Values(visaID, s.SortOrder, s.Kind, s.Title, s.Body).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		var sectionID int64
		if err := tx.QueryRow(ctx, query, args...).Scan(&sectionID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		if s.Kind == models.SectionKindList && len(s.Items) > 0 {
			ins := r.sb.Insert("visa_section_items").Columns("section_id", "sort_order", "text")
			for _, it := range s.Items {
				ins = ins.Values(sectionID, it.SortOrder, it.Text)
			}
			query, args, err = ins.ToSql()
			if err != nil {
				return 0, fmt.Errorf("%s: %w", op, err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return 0, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return visaID, nil
}

// ListActiveVisas loads the active visas ordered for display, then pulls
// all children in three batched queries and assembles the aggregates.
func (r *VisaRepo) ListActiveVisas(ctx context.Context) ([]models.Visa, error) {
	const op = "repository.VisaRepo.ListActiveVisas"

	query, args, err := r.sb.Select(
		"id", "slug", "title", "description", "badge",
		"base_price_amount", "base_price_currency",
		"is_active", "display_order", "created_at", "updated_at",
	).
		From("visas").
		Where(sq.Eq{"is_active": true}).
		OrderBy("display_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var visas []models.Visa
	for rows.Next() {
		var v models.Visa
		if err := rows.Scan(
			&v.ID, &v.Slug, &v.Title, &v.Description, &v.Badge,
			&v.BasePriceAmount, &v.BasePriceCurrency,
			&v.IsActive, &v.DisplayOrder, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		visas = append(visas, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(visas) == 0 {
		return visas, nil
	}

	ids := make([]int64, 0, len(visas))
	for _, v := range visas {
		ids = append(ids, v.ID)
	}

	features, err := r.featuresByVisaIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sections, err := r.sectionsByVisaIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range visas {
		visas[i].Features = features[visas[i].ID]
		visas[i].Sections = sections[visas[i].ID]
	}

	return visas, nil
}

func (r *VisaRepo) VisaByID(ctx context.Context, id int64) (*models.Visa, error) {
	const op = "repository.VisaRepo.VisaByID"

	query, args, err := r.sb.Select(
		"id", "slug", "title", "description", "badge",
		"base_price_amount", "base_price_currency",
		"is_active", "display_order", "created_at", "updated_at",
	).
		From("visas").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var v models.Visa
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.Slug, &v.Title, &v.Description, &v.Badge,
		&v.BasePriceAmount, &v.BasePriceCurrency,
		&v.IsActive, &v.DisplayOrder, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &v, nil
}

func (r *VisaRepo) VisaSlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "repository.VisaRepo.VisaSlugExists"

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM visas WHERE slug = $1)`,
		slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (r *VisaRepo) DeleteVisa(ctx context.Context, id int64) error {
	const op = "repository.VisaRepo.DeleteVisa"

	query, args, err := r.sb.Delete("visas").
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

func (r *VisaRepo) featuresByVisaIDs(ctx context.Context, ids []int64) (map[int64][]models.VisaFeature, error) {
	query, args, err := r.sb.Select("id", "visa_id", "sort_order", "text").
		From("visa_features").
		Where(sq.Eq{"visa_id": ids}).
		OrderBy("visa_id ASC", "sort_order ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.VisaFeature)
	for rows.Next() {
		var f models.VisaFeature
		if err := rows.Scan(&f.ID, &f.VisaID, &f.SortOrder, &f.Text); err != nil {
			return nil, err
		}
		out[f.VisaID] = append(out[f.VisaID], f)
	}
	return out, rows.Err()
}

func (r *VisaRepo) sectionsByVisaIDs(ctx context.Context, ids []int64) (map[int64][]models.VisaSection, error) {
	query, args, err := r.sb.Select("id", "visa_id", "sort_order", "kind", "title", "body").
		From("visa_sections").
		Where(sq.Eq{"visa_id": ids}).
		OrderBy("visa_id ASC", "sort_order ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var sections []models.VisaSection
	for rows.Next() {
		var s models.VisaSection
		if err := rows.Scan(&s.ID, &s.VisaID, &s.SortOrder, &s.Kind, &s.Title, &s.Body); err != nil {
			rows.Close()
			return nil, err
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(sections) > 0 {
		sectionIDs := make([]int64, 0, len(sections))
		for _, s := range sections {
			sectionIDs = append(sectionIDs, s.ID)
		}

		items, err := r.itemsBySectionIDs(ctx, sectionIDs)
		if err != nil {
			return nil, err
		}
		for i := range sections {
			sections[i].Items = items[sections[i].ID]
		}
	}

	out := make(map[int64][]models.VisaSection)
	for _, s := range sections {
		out[s.VisaID] = append(out[s.VisaID], s)
	}
	return out, nil
}

func (r *VisaRepo) itemsBySectionIDs(ctx context.Context, ids []int64) (map[int64][]models.VisaSectionItem, error) {
	query, args, err := r.sb.Select("id", "section_id", "sort_order", "text").
		From("visa_section_items").
		Where(sq.Eq{"section_id": ids}).
		OrderBy("section_id ASC", "sort_order ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.VisaSectionItem)
	for rows.Next() {
		var it models.VisaSectionItem
		if err := rows.Scan(&it.ID, &it.SectionID, &it.SortOrder, &it.Text); err != nil {
			return nil, err
		}
		out[it.SectionID] = append(out[it.SectionID], it)
	}
	return out, rows.Err()
}
