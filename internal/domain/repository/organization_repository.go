package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// OrganizationRepository lookup de organizaciones (solo lectura desde el kardex).
type OrganizationRepository interface {
	GetByID(id string) (*entity.Organization, error)
}
