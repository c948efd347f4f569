package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// DiscrepancyRepository puerto de persistencia para hallazgos de conciliación.
type DiscrepancyRepository interface {
	Create(d *entity.Discrepancy) error
	GetByID(id string) (*entity.Discrepancy, error)
	// FindPending discrepancia PENDING vigente para la clave, si existe
	// (evita duplicar hallazgos en barridos consecutivos).
	FindPending(warehouseID, partID string) (*entity.Discrepancy, error)
	ListByOrg(orgID, status string, limit, offset int) ([]*entity.Discrepancy, error)
	// Update solo transiciones de estado (PENDING -> APPLIED | DISMISSED).
	Update(d *entity.Discrepancy) error
}
