package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// WarehouseRepository puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	ListByOrg(orgID string, limit, offset int) ([]*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	// Delete borrado físico; solo válido para bodegas sin historial en el
	// ledger (el caso de uso verifica antes).
	Delete(id string) error
}
