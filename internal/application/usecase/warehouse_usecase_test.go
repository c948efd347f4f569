package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

const orgID = "org-1"

func newWarehouseUC(store *memory.Store) *usecase.WarehouseUseCase {
	return usecase.NewWarehouseUseCase(store.Warehouses(), store.Transactions())
}

func TestWarehouseCreate_NaceActiva(t *testing.T) {
	store := memory.NewStore()
	uc := newWarehouseUC(store)

	out, err := uc.Create(orgID, dto.CreateWarehouseRequest{Name: "Bodega Central", Address: "Km 4 vía norte"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.True(t, out.Active)
	assert.Equal(t, orgID, out.OrgID)
}

func TestWarehouseCreate_SinNombre(t *testing.T) {
	uc := newWarehouseUC(memory.NewStore())
	_, err := uc.Create(orgID, dto.CreateWarehouseRequest{})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "name", vErr.Field)
}

func TestWarehouseGetByID_OtraOrg_NotFound(t *testing.T) {
	store := memory.NewStore()
	store.SeedWarehouse(entity.Warehouse{ID: "wh-x", OrgID: "org-ajena", Name: "Ajena", Active: true})
	uc := newWarehouseUC(store)

	_, err := uc.GetByID(orgID, "wh-x")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestWarehouseDeactivate(t *testing.T) {
	store := memory.NewStore()
	store.SeedWarehouse(entity.Warehouse{ID: "wh-1", OrgID: orgID, Name: "Principal", Active: true})
	uc := newWarehouseUC(store)

	out, err := uc.Deactivate(orgID, "wh-1")
	require.NoError(t, err)
	assert.False(t, out.Active)

	// Desactivar dos veces es conflicto.
	_, err = uc.Deactivate(orgID, "wh-1")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// Sin historial en el ledger la bodega se borra físicamente.
func TestWarehouseDelete_SinHistorial_BorraFisico(t *testing.T) {
	store := memory.NewStore()
	store.SeedWarehouse(entity.Warehouse{ID: "wh-1", OrgID: orgID, Name: "Vacía", Active: true})
	uc := newWarehouseUC(store)

	deleted, err := uc.Delete(orgID, "wh-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = uc.GetByID(orgID, "wh-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Con historial la bodega no se borra: se desactiva, porque las transacciones
// inmutables del ledger siguen referenciándola.
func TestWarehouseDelete_ConHistorial_Desactiva(t *testing.T) {
	store := memory.NewStore()
	store.SeedWarehouse(entity.Warehouse{ID: "wh-1", OrgID: orgID, Name: "Con historial", Active: true})
	require.NoError(t, store.Transactions().Append(&entity.InventoryTransaction{
		ID: "tx-1", OrgID: orgID, Type: entity.TxTypeCreation,
		PartID: "part-1", Quantity: quantity.FromInt(5),
		ToWarehouseID: "wh-1", Timestamp: time.Now(),
	}))
	uc := newWarehouseUC(store)

	deleted, err := uc.Delete(orgID, "wh-1")
	require.NoError(t, err)
	assert.False(t, deleted, "con historial no hay borrado físico")

	out, err := uc.GetByID(orgID, "wh-1")
	require.NoError(t, err)
	assert.False(t, out.Active, "queda desactivada")
}
