package repository

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// TransactionFilter criterios de consulta sobre el libro de movimientos.
// WarehouseID filtra por bodega origen O destino.
type TransactionFilter struct {
	OrgID       string
	WarehouseID string
	PartID      string
	Type        string
	MachineID   string
	From        *time.Time
	To          *time.Time
}

// TransactionRepository puerto de persistencia del ledger. Append-only: no
// existe Update ni Delete; las correcciones son nuevas transacciones.
type TransactionRepository interface {
	// Append persiste una transacción. Única operación de escritura.
	Append(tx *entity.InventoryTransaction) error
	GetByID(id string) (*entity.InventoryTransaction, error)

	// List devuelve una página ordenada por (timestamp, created_at, id)
	// ascendente; con limit/offset la secuencia es reiniciable y finita.
	List(filter TransactionFilter, limit, offset int) ([]*entity.InventoryTransaction, error)

	// ListByKey historial completo de una clave (bodega, parte) en orden de
	// commit, para el recómputo total del saldo.
	ListByKey(warehouseID, partID string) ([]*entity.InventoryTransaction, error)

	// CountByWarehouse cuántas transacciones tocan la bodega (regla de
	// no-borrado: con historial solo se desactiva).
	CountByWarehouse(warehouseID string) (int64, error)
}
