package dto

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// CreateTransactionRequest body para POST /api/ledger/transactions.
// La cantidad viaja como string decimal con hasta 3 decimales ("12.750");
// nunca como número JSON, para que no pase por float en ningún borde.
type CreateTransactionRequest struct {
	Type            string `json:"type"` // CREATION | TRANSFER | CONSUMPTION | ADJUSTMENT
	PartID          string `json:"part_id"`
	Quantity        string `json:"quantity"`
	FromWarehouseID string `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string `json:"to_warehouse_id,omitempty"`
	MachineID       string `json:"machine_id,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

// TransactionResponse transacción confirmada del ledger.
type TransactionResponse struct {
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	PartID          string            `json:"part_id"`
	Quantity        quantity.Quantity `json:"quantity"`
	FromWarehouseID string            `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string            `json:"to_warehouse_id,omitempty"`
	MachineID       string            `json:"machine_id,omitempty"`
	PerformedBy     string            `json:"performed_by"`
	Timestamp       time.Time         `json:"timestamp"`
	Notes           string            `json:"notes,omitempty"`
	ReferenceNumber string            `json:"reference_number,omitempty"`
	Reconciliation  bool              `json:"reconciliation,omitempty"`
}

// CreateTransactionResponse transacción más saldos resultantes y advertencias
// no bloqueantes (ej. consumible con cantidad fraccionaria).
type CreateTransactionResponse struct {
	Transaction TransactionResponse          `json:"transaction"`
	Balances    map[string]quantity.Quantity `json:"balances"`
	Warnings    []string                     `json:"warnings,omitempty"`
}

// BalanceResponse stock actual de (bodega, parte).
type BalanceResponse struct {
	WarehouseID  string            `json:"warehouse_id"`
	PartID       string            `json:"part_id"`
	CurrentStock quantity.Quantity `json:"current_stock"`
}

// TransactionListResponse página del historial.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// DiscrepancyResponse hallazgo de conciliación.
type DiscrepancyResponse struct {
	ID            string            `json:"id"`
	WarehouseID   string            `json:"warehouse_id"`
	PartID        string            `json:"part_id"`
	CachedStock   quantity.Quantity `json:"cached_stock"`
	ComputedStock quantity.Quantity `json:"computed_stock"`
	Delta         quantity.Quantity `json:"delta"`
	Status        string            `json:"status"`
	DetectedAt    time.Time         `json:"detected_at"`
	AppliedAt     *time.Time        `json:"applied_at,omitempty"`
	AppliedBy     string            `json:"applied_by,omitempty"`
	CorrectionID  string            `json:"correction_id,omitempty"`
	Details       string            `json:"details,omitempty"`
}
