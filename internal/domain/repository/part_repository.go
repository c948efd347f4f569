package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// PartRepository puerto de persistencia para el catálogo de partes.
type PartRepository interface {
	Create(part *entity.Part) error
	GetByID(id string) (*entity.Part, error)
	GetBySKU(orgID, sku string) (*entity.Part, error)
	ListByOrg(orgID string, limit, offset int) ([]*entity.Part, error)
	Update(part *entity.Part) error
}
