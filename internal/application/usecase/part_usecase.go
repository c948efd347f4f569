package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// PartUseCase casos de uso para el catálogo de partes.
type PartUseCase struct {
	repo repository.PartRepository
}

// NewPartUseCase construye el caso de uso.
func NewPartUseCase(repo repository.PartRepository) *PartUseCase {
	return &PartUseCase{repo: repo}
}

// Create da de alta una parte en el catálogo.
func (uc *PartUseCase) Create(orgID string, in dto.CreatePartRequest) (*dto.PartResponse, error) {
	if in.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "requerido"}
	}
	if in.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "requerido"}
	}
	if in.PartType != entity.PartTypeConsumable && in.PartType != entity.PartTypeBulkMaterial {
		return nil, &domain.ValidationError{Field: "part_type", Reason: "debe ser CONSUMABLE o BULK_MATERIAL"}
	}
	if in.UnitOfMeasure == "" {
		return nil, &domain.ValidationError{Field: "unit_of_measure", Reason: "requerido"}
	}
	if existing, err := uc.repo.GetBySKU(orgID, in.SKU); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	part := &entity.Part{
		ID:            uuid.New().String(),
		OrgID:         orgID,
		SKU:           in.SKU,
		Name:          in.Name,
		PartType:      in.PartType,
		UnitOfMeasure: in.UnitOfMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(part); err != nil {
		return nil, err
	}
	return toPartResponse(part), nil
}

// GetByID obtiene una parte por ID (scoped a la organización).
func (uc *PartUseCase) GetByID(orgID, id string) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if part == nil || part.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	return toPartResponse(part), nil
}

// List lista partes de la organización con paginación.
func (uc *PartUseCase) List(orgID string, limit, offset int) (*dto.PartListResponse, error) {
	list, err := uc.repo.ListByOrg(orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartResponse(p))
	}
	return &dto.PartListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Count: len(items)},
	}, nil
}

func toPartResponse(p *entity.Part) *dto.PartResponse {
	if p == nil {
		return nil
	}
	return &dto.PartResponse{
		ID:            p.ID,
		OrgID:         p.OrgID,
		SKU:           p.SKU,
		Name:          p.Name,
		PartType:      p.PartType,
		UnitOfMeasure: p.UnitOfMeasure,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
