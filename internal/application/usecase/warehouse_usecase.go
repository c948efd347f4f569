package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas. Una bodega con historial
// en el ledger no se borra: se desactiva y deja de admitir movimientos.
type WarehouseUseCase struct {
	repo   repository.WarehouseRepository
	txRead repository.TransactionRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, txRead repository.TransactionRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, txRead: txRead}
}

// Create crea una nueva bodega activa.
func (uc *WarehouseUseCase) Create(orgID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "requerido"}
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      in.Name,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID (scoped a la organización).
func (uc *WarehouseUseCase) GetByID(orgID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza nombre/dirección de una bodega.
func (uc *WarehouseUseCase) Update(orgID, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Address != nil {
		warehouse.Address = *in.Address
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas por organización con paginación.
func (uc *WarehouseUseCase) List(orgID string, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListByOrg(orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Count: len(items)},
	}, nil
}

// Deactivate desactiva una bodega (deja de admitir movimientos).
func (uc *WarehouseUseCase) Deactivate(orgID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	if !warehouse.Active {
		return nil, domain.ErrConflict
	}
	warehouse.Active = false
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// Delete borra la bodega solo si no tiene historial en el ledger; con
// historial se desactiva en su lugar (las transacciones son inmutables y sus
// referencias a la bodega deben seguir resolubles). Devuelve true si hubo
// borrado físico, false si terminó en desactivación.
func (uc *WarehouseUseCase) Delete(orgID, id string) (bool, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if warehouse == nil || warehouse.OrgID != orgID {
		return false, domain.ErrNotFound
	}
	count, err := uc.txRead.CountByWarehouse(id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		if warehouse.Active {
			warehouse.Active = false
			warehouse.UpdatedAt = time.Now()
			if err := uc.repo.Update(warehouse); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	return true, uc.repo.Delete(id)
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		OrgID:     w.OrgID,
		Name:      w.Name,
		Address:   w.Address,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
