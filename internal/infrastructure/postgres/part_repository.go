package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo catálogo de partes sobre PostgreSQL.
type PartRepo struct {
	q Querier
}

func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// Create persiste una nueva parte. SKU duplicado dentro de la organización
// se traduce a ErrDuplicate.
func (r *PartRepo) Create(part *entity.Part) error {
	query := `
		INSERT INTO parts (id, org_id, sku, name, part_type, unit_of_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		part.ID, part.OrgID, part.SKU, part.Name, part.PartType, part.UnitOfMeasure,
		part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku %s: %w", part.SKU, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

func (r *PartRepo) GetByID(id string) (*entity.Part, error) {
	return r.getBy("id", id)
}

func (r *PartRepo) GetBySKU(orgID, sku string) (*entity.Part, error) {
	query := `
		SELECT id, org_id, sku, name, part_type, unit_of_measure, created_at, updated_at
		FROM parts WHERE org_id = $1 AND sku = $2`
	var p entity.Part
	err := r.q.QueryRow(context.Background(), query, orgID, sku).Scan(
		&p.ID, &p.OrgID, &p.SKU, &p.Name, &p.PartType, &p.UnitOfMeasure, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part by sku: %w", err)
	}
	return &p, nil
}

func (r *PartRepo) getBy(column, value string) (*entity.Part, error) {
	query := fmt.Sprintf(`
		SELECT id, org_id, sku, name, part_type, unit_of_measure, created_at, updated_at
		FROM parts WHERE %s = $1`, column)
	var p entity.Part
	err := r.q.QueryRow(context.Background(), query, value).Scan(
		&p.ID, &p.OrgID, &p.SKU, &p.Name, &p.PartType, &p.UnitOfMeasure, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return &p, nil
}

func (r *PartRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Part, error) {
	query := `
		SELECT id, org_id, sku, name, part_type, unit_of_measure, created_at, updated_at
		FROM parts WHERE org_id = $1
		ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Part
	for rows.Next() {
		var p entity.Part
		if err := rows.Scan(&p.ID, &p.OrgID, &p.SKU, &p.Name, &p.PartType, &p.UnitOfMeasure, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *PartRepo) Update(part *entity.Part) error {
	query := `
		UPDATE parts
		SET name = $2, part_type = $3, unit_of_measure = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		part.ID, part.Name, part.PartType, part.UnitOfMeasure, part.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	return nil
}
