package entity

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// Tipos de transacción del kardex.
const (
	TxTypeCreation    = "CREATION"    // alta de stock (solo bodega destino)
	TxTypeTransfer    = "TRANSFER"    // traslado entre bodegas (origen y destino)
	TxTypeConsumption = "CONSUMPTION" // consumo/uso (solo bodega origen; opcionalmente máquina)
	TxTypeAdjustment  = "ADJUSTMENT"  // corrección manual con delta firmado (una sola bodega)
)

// InventoryTransaction registro inmutable del libro de movimientos. Nunca se
// actualiza ni se borra; las correcciones son nuevos ajustes que referencian
// el original vía ReferenceNumber/Notes.
//
// Un TRANSFER es UNA sola fila con ambas bodegas. Modelarlo como dos filas
// independientes (débito+crédito) deja una ventana de media escritura; con una
// fila la atomicidad es estructural.
type InventoryTransaction struct {
	ID     string
	OrgID  string
	Type   string
	PartID string

	// Quantity es magnitud positiva para CREATION/TRANSFER/CONSUMPTION.
	// Para ADJUSTMENT es el delta firmado (positivo = aumenta, negativo = disminuye).
	Quantity quantity.Quantity

	// FromWarehouseID vacío salvo TRANSFER y CONSUMPTION.
	// ToWarehouseID vacío salvo CREATION, TRANSFER y ADJUSTMENT.
	// Invariantes por tipo: ver Validate en el caso de uso de registro.
	FromWarehouseID string
	ToWarehouseID   string

	// MachineID opcional: consumo ligado a uso de equipo.
	MachineID string

	PerformedBy     string
	Timestamp       time.Time
	Notes           string
	ReferenceNumber string

	// Reconciliation marca los ajustes emitidos por el motor de conciliación.
	// Corrigen el saldo materializado, no el stock físico: el recómputo total
	// del ledger los omite y la aplicación incremental los aplica al caché.
	Reconciliation bool

	CreatedAt time.Time
}

// Warehouses devuelve las bodegas referenciadas (1 o 2 según el tipo).
func (t *InventoryTransaction) Warehouses() []string {
	out := make([]string, 0, 2)
	if t.FromWarehouseID != "" {
		out = append(out, t.FromWarehouseID)
	}
	if t.ToWarehouseID != "" && t.ToWarehouseID != t.FromWarehouseID {
		out = append(out, t.ToWarehouseID)
	}
	return out
}

// Touches indica si la transacción afecta la clave (bodega, parte).
func (t *InventoryTransaction) Touches(warehouseID, partID string) bool {
	return t.PartID == partID && t.TouchesWarehouse(warehouseID)
}

// TouchesWarehouse indica si la bodega es origen o destino de la transacción.
func (t *InventoryTransaction) TouchesWarehouse(warehouseID string) bool {
	return t.FromWarehouseID == warehouseID || t.ToWarehouseID == warehouseID
}
