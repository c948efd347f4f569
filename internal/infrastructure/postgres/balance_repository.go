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

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldo materializado por (bodega, parte) sobre PostgreSQL
// (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo de (bodega, parte); si no existe fila, saldo en cero.
func (r *BalanceRepo) Get(warehouseID, partID string) (*entity.InventoryBalance, error) {
	return r.get(warehouseID, partID, false)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE) dentro
// de la transacción actual. Sobre esta lectura se re-valida la suficiencia de
// stock: el segundo de dos traslados concurrentes ve aquí el saldo ya
// descontado por el primero.
func (r *BalanceRepo) GetForUpdate(warehouseID, partID string) (*entity.InventoryBalance, error) {
	return r.get(warehouseID, partID, true)
}

func (r *BalanceRepo) get(warehouseID, partID string, forUpdate bool) (*entity.InventoryBalance, error) {
	query := `
		SELECT warehouse_id, part_id, current_stock, last_updated
		FROM inventory_balances WHERE warehouse_id = $1 AND part_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var b entity.InventoryBalance
	var stock decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, warehouseID, partID).Scan(
		&b.WarehouseID, &b.PartID, &stock, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryBalance{WarehouseID: warehouseID, PartID: partID, CurrentStock: quantity.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	q, err := quantity.FromDecimal(stock)
	if err != nil {
		return nil, fmt.Errorf("saldo persistido inválido: %w", err)
	}
	b.CurrentStock = q
	return &b, nil
}

// Upsert inserta o actualiza el saldo de la clave.
func (r *BalanceRepo) Upsert(balance *entity.InventoryBalance) error {
	query := `
		INSERT INTO inventory_balances (warehouse_id, part_id, current_stock, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (warehouse_id, part_id)
		DO UPDATE SET current_stock = EXCLUDED.current_stock, last_updated = EXCLUDED.last_updated`
	_, err := r.q.Exec(context.Background(), query,
		balance.WarehouseID, balance.PartID, balance.CurrentStock.Decimal(), balance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListKeys claves con saldo materializado dentro del alcance pedido
// (filtros vacíos = toda la organización).
func (r *BalanceRepo) ListKeys(orgID, warehouseID, partID string) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT b.warehouse_id, b.part_id, b.current_stock, b.last_updated
		FROM inventory_balances b
		JOIN warehouses w ON w.id = b.warehouse_id
		WHERE w.org_id = $1`
	args := []any{orgID}
	pos := 2
	if warehouseID != "" {
		query += fmt.Sprintf(" AND b.warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	if partID != "" {
		query += fmt.Sprintf(" AND b.part_id = $%d", pos)
		args = append(args, partID)
		pos++
	}
	query += " ORDER BY b.warehouse_id, b.part_id"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list balance keys: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryBalance
	for rows.Next() {
		var b entity.InventoryBalance
		var stock decimal.Decimal
		if err := rows.Scan(&b.WarehouseID, &b.PartID, &stock, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		q, err := quantity.FromDecimal(stock)
		if err != nil {
			return nil, fmt.Errorf("saldo persistido inválido: %w", err)
		}
		b.CurrentStock = q
		list = append(list, &b)
	}
	return list, rows.Err()
}
