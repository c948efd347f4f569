package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// MachineRepository puerto de solo lectura sobre el registro de equipos.
type MachineRepository interface {
	GetByID(id string) (*entity.Machine, error)
}
