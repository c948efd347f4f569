package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.MachineRepository = (*MachineRepo)(nil)

// MachineRepo consulta de máquinas (solo lectura desde el kardex).
type MachineRepo struct {
	q Querier
}

func NewMachineRepository(q Querier) *MachineRepo {
	return &MachineRepo{q: q}
}

func (r *MachineRepo) GetByID(id string) (*entity.Machine, error) {
	query := `SELECT id, org_id, name, code, created_at FROM machines WHERE id = $1`
	var m entity.Machine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.OrgID, &m.Name, &m.Code, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get machine: %w", err)
	}
	return &m, nil
}
