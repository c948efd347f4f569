package entity

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// Estados de una discrepancia de conciliación.
const (
	DiscrepancyPending   = "PENDING"   // detectada, a la espera de decisión del operador
	DiscrepancyApplied   = "APPLIED"   // ajuste correctivo registrado en el ledger
	DiscrepancyDismissed = "DISMISSED" // descartada por el operador (queda el registro)
)

// Discrepancy divergencia detectada entre el saldo materializado y el derivado
// del ledger para una clave (bodega, parte). Nunca se corrige sola: el ajuste
// correctivo requiere confirmación explícita del operador.
type Discrepancy struct {
	ID          string
	OrgID       string
	WarehouseID string
	PartID      string

	CachedStock   quantity.Quantity // lo que decía inventory_balances
	ComputedStock quantity.Quantity // recómputo total del ledger
	Delta         quantity.Quantity // ComputedStock - CachedStock (el ajuste que corrige)

	Status       string
	DetectedAt   time.Time
	AppliedAt    *time.Time
	AppliedBy    string
	CorrectionID string // ID de la transacción de ajuste correctivo
	Details      string // origen de la divergencia, para auditoría
}
