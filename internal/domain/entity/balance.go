package entity

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// InventoryBalance saldo materializado por (bodega, parte). Es una proyección
// del ledger, no la fuente de verdad: debe ser siempre igual a la suma firmada
// de las transacciones de la clave. Cualquier divergencia es un defecto que el
// motor de conciliación reporta como Discrepancy.
type InventoryBalance struct {
	WarehouseID  string
	PartID       string
	CurrentStock quantity.Quantity
	UpdatedAt    time.Time
}
