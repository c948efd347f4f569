// Package ledger contiene los servicios de dominio puros del kardex: el
// cálculo de saldos a partir del libro de movimientos.
package ledger

import (
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// Delta devuelve el efecto firmado de una transacción sobre la clave
// (warehouseID, parte de la transacción):
//
//	CREATION    destino  -> +cantidad
//	TRANSFER    origen   -> -cantidad ; destino -> +cantidad
//	CONSUMPTION origen   -> -cantidad
//	ADJUSTMENT  bodega   -> delta firmado tal cual
//
// Si la transacción no toca la bodega, el delta es cero.
func Delta(tx *entity.InventoryTransaction, warehouseID string) quantity.Quantity {
	switch tx.Type {
	case entity.TxTypeCreation:
		if tx.ToWarehouseID == warehouseID {
			return tx.Quantity
		}
	case entity.TxTypeConsumption:
		if tx.FromWarehouseID == warehouseID {
			return tx.Quantity.Neg()
		}
	case entity.TxTypeTransfer:
		if tx.FromWarehouseID == warehouseID {
			return tx.Quantity.Neg()
		}
		if tx.ToWarehouseID == warehouseID {
			return tx.Quantity
		}
	case entity.TxTypeAdjustment:
		if tx.ToWarehouseID == warehouseID {
			return tx.Quantity
		}
	}
	return quantity.Zero
}

// Apply aplica incrementalmente una transacción a un saldo previo, en O(1).
// Las transacciones deben aplicarse en orden de commit; aplicar fuera de orden
// es una violación de corrección (los tests de equivalencia lo cubren).
func Apply(prev quantity.Quantity, tx *entity.InventoryTransaction, warehouseID string) quantity.Quantity {
	return prev.Add(Delta(tx, warehouseID))
}

// Recompute pliega desde cero el historial completo de una clave (bodega,
// parte). Omite los ajustes de conciliación: esos corrigen el saldo
// materializado, no el stock derivado, e incluirlos haría divergir el
// recómputo inmediatamente después de cada corrección.
//
// Debe producir exactamente el mismo resultado que la aplicación incremental
// de la misma secuencia ordenada; esa equivalencia es propiedad central del
// motor y está cubierta por tests de secuencias aleatorias.
func Recompute(txs []*entity.InventoryTransaction, warehouseID, partID string) quantity.Quantity {
	total := quantity.Zero
	for _, tx := range txs {
		if tx.PartID != partID || tx.Reconciliation {
			continue
		}
		total = total.Add(Delta(tx, warehouseID))
	}
	return total
}
