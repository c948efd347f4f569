package entity

import "time"

// Tipos de parte del catálogo.
const (
	PartTypeConsumable   = "CONSUMABLE"    // discreta; se espera cantidad entera (advertencia, no rechazo)
	PartTypeBulkMaterial = "BULK_MATERIAL" // a granel; cantidad fraccionaria (hasta 3 decimales)
)

// Part entrada del catálogo de partes/repuestos.
type Part struct {
	ID            string
	OrgID         string
	SKU           string
	Name          string
	PartType      string // CONSUMABLE | BULK_MATERIAL
	UnitOfMeasure string // "unidad", "kg", "lt", "m"...
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
