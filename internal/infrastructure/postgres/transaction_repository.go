package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación append-only del ledger sobre PostgreSQL
// (usable con pool o tx). No expone Update ni Delete: la tabla tampoco —
// un trigger rechaza ambos.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const txColumns = `id, org_id, type, part_id, quantity, from_warehouse_id, to_warehouse_id,
		machine_id, performed_by, timestamp, notes, reference_number, reconciliation, created_at`

// Append persiste una transacción del ledger.
func (r *TransactionRepo) Append(t *entity.InventoryTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_transactions (` + txColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.OrgID, t.Type, t.PartID, t.Quantity.Decimal(),
		nullable(t.FromWarehouseID), nullable(t.ToWarehouseID), nullable(t.MachineID),
		t.PerformedBy, t.Timestamp, nullable(t.Notes), nullable(t.ReferenceNumber),
		t.Reconciliation, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID.
func (r *TransactionRepo) GetByID(id string) (*entity.InventoryTransaction, error) {
	query := `SELECT ` + txColumns + ` FROM inventory_transactions WHERE id = $1`
	t, err := scanTransaction(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// List página del historial con filtros, ordenada por (timestamp, created_at, id)
// ascendente: misma secuencia que consume la aplicación incremental de saldos.
func (r *TransactionRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + txColumns + ` FROM inventory_transactions WHERE org_id = $1`
	args := []any{filter.OrgID}
	pos := 2
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND (from_warehouse_id = $%d OR to_warehouse_id = $%d)", pos, pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.PartID != "" {
		query += fmt.Sprintf(" AND part_id = $%d", pos)
		args = append(args, filter.PartID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.MachineID != "" {
		query += fmt.Sprintf(" AND machine_id = $%d", pos)
		args = append(args, filter.MachineID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY timestamp, created_at, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListByKey historial completo de la clave (bodega, parte) en orden de commit.
func (r *TransactionRepo) ListByKey(warehouseID, partID string) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + txColumns + `
		FROM inventory_transactions
		WHERE part_id = $1 AND (from_warehouse_id = $2 OR to_warehouse_id = $2)
		ORDER BY timestamp, created_at, id`
	rows, err := r.q.Query(context.Background(), query, partID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list by key: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// CountByWarehouse cuántas transacciones tocan la bodega.
func (r *TransactionRepo) CountByWarehouse(warehouseID string) (int64, error) {
	query := `
		SELECT count(*) FROM inventory_transactions
		WHERE from_warehouse_id = $1 OR to_warehouse_id = $1`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, warehouseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by warehouse: %w", err)
	}
	return n, nil
}

func scanTransaction(row pgx.Row) (*entity.InventoryTransaction, error) {
	var t entity.InventoryTransaction
	var qty decimal.Decimal
	var from, to, machine, notes, ref *string
	err := row.Scan(
		&t.ID, &t.OrgID, &t.Type, &t.PartID, &qty, &from, &to,
		&machine, &t.PerformedBy, &t.Timestamp, &notes, &ref, &t.Reconciliation, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	q, err := quantity.FromDecimal(qty)
	if err != nil {
		return nil, fmt.Errorf("cantidad persistida inválida: %w", err)
	}
	t.Quantity = q
	t.FromWarehouseID = fromNullable(from)
	t.ToWarehouseID = fromNullable(to)
	t.MachineID = fromNullable(machine)
	t.Notes = fromNullable(notes)
	t.ReferenceNumber = fromNullable(ref)
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*entity.InventoryTransaction, error) {
	var list []*entity.InventoryTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
