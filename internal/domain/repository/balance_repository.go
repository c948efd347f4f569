package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// BalanceRepository puerto para el saldo materializado por (bodega, parte).
// Usado dentro de transacciones de DB para garantizar consistencia.
type BalanceRepository interface {
	// Get devuelve el saldo; si la clave no existe aún, un saldo en cero.
	Get(warehouseID, partID string) (*entity.InventoryBalance, error)
	// GetForUpdate además bloquea la fila (SELECT FOR UPDATE) dentro de la tx.
	GetForUpdate(warehouseID, partID string) (*entity.InventoryBalance, error)
	Upsert(balance *entity.InventoryBalance) error
	// ListKeys claves (bodega, parte) con saldo materializado, para barridos
	// de conciliación. Filtros vacíos = todas las claves de la organización.
	ListKeys(orgID, warehouseID, partID string) ([]*entity.InventoryBalance, error)
}
