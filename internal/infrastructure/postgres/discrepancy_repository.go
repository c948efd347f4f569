package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DiscrepancyRepository = (*DiscrepancyRepo)(nil)

// DiscrepancyRepo hallazgos de conciliación sobre PostgreSQL.
type DiscrepancyRepo struct {
	q Querier
}

func NewDiscrepancyRepository(q Querier) *DiscrepancyRepo {
	return &DiscrepancyRepo{q: q}
}

const discrepancyColumns = `id, org_id, warehouse_id, part_id, cached_stock,
	computed_stock, delta, status, detected_at, applied_at, applied_by, correction_id, details`

func (r *DiscrepancyRepo) Create(d *entity.Discrepancy) error {
	query := `
		INSERT INTO discrepancies (` + discrepancyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.OrgID, d.WarehouseID, d.PartID,
		d.CachedStock.Decimal(), d.ComputedStock.Decimal(), d.Delta.Decimal(),
		d.Status, d.DetectedAt, d.AppliedAt, nullable(d.AppliedBy), nullable(d.CorrectionID), d.Details,
	)
	if err != nil {
		return fmt.Errorf("insert discrepancy: %w", err)
	}
	return nil
}

func (r *DiscrepancyRepo) GetByID(id string) (*entity.Discrepancy, error) {
	query := `SELECT ` + discrepancyColumns + ` FROM discrepancies WHERE id = $1`
	d, err := scanDiscrepancy(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discrepancy: %w", err)
	}
	return d, nil
}

// FindPending hallazgo PENDING vigente para la clave, si existe. Evita que
// barridos consecutivos dupliquen el mismo hallazgo.
func (r *DiscrepancyRepo) FindPending(warehouseID, partID string) (*entity.Discrepancy, error) {
	query := `
		SELECT ` + discrepancyColumns + `
		FROM discrepancies
		WHERE warehouse_id = $1 AND part_id = $2 AND status = $3
		ORDER BY detected_at DESC LIMIT 1`
	d, err := scanDiscrepancy(r.q.QueryRow(context.Background(), query, warehouseID, partID, entity.DiscrepancyPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find pending discrepancy: %w", err)
	}
	return d, nil
}

func (r *DiscrepancyRepo) ListByOrg(orgID, status string, limit, offset int) ([]*entity.Discrepancy, error) {
	query := `SELECT ` + discrepancyColumns + ` FROM discrepancies WHERE org_id = $1`
	args := []any{orgID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY detected_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list discrepancies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Discrepancy
	for rows.Next() {
		d, err := scanDiscrepancy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discrepancy: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *DiscrepancyRepo) Update(d *entity.Discrepancy) error {
	query := `
		UPDATE discrepancies
		SET status = $2, applied_at = $3, applied_by = $4, correction_id = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Status, d.AppliedAt, nullable(d.AppliedBy), nullable(d.CorrectionID),
	)
	if err != nil {
		return fmt.Errorf("update discrepancy: %w", err)
	}
	return nil
}

func scanDiscrepancy(row pgx.Row) (*entity.Discrepancy, error) {
	var d entity.Discrepancy
	var cached, computed, delta decimal.Decimal
	var appliedBy, correctionID *string
	err := row.Scan(
		&d.ID, &d.OrgID, &d.WarehouseID, &d.PartID,
		&cached, &computed, &delta,
		&d.Status, &d.DetectedAt, &d.AppliedAt, &appliedBy, &correctionID, &d.Details,
	)
	if err != nil {
		return nil, err
	}
	for _, pair := range []struct {
		src decimal.Decimal
		dst *quantity.Quantity
	}{{cached, &d.CachedStock}, {computed, &d.ComputedStock}, {delta, &d.Delta}} {
		q, err := quantity.FromDecimal(pair.src)
		if err != nil {
			return nil, fmt.Errorf("cantidad persistida inválida: %w", err)
		}
		*pair.dst = q
	}
	d.AppliedBy = fromNullable(appliedBy)
	d.CorrectionID = fromNullable(correctionID)
	return &d, nil
}
