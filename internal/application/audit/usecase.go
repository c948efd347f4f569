// Package audit expone la proyección de solo lectura del ledger: historial
// filtrable para cumplimiento y el reporte kardex con saldo corrido.
package audit

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domledger "github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// KardexRow línea del reporte kardex: la transacción, su efecto firmado sobre
// la bodega y el saldo corrido después de aplicarla.
type KardexRow struct {
	Tx             *entity.InventoryTransaction
	Delta          quantity.Quantity
	RunningBalance quantity.Quantity
}

// KardexReportGenerator puerto de render del reporte (PDF en infraestructura).
type KardexReportGenerator interface {
	GenerateKardexPDF(ctx context.Context, warehouse *entity.Warehouse, part *entity.Part, rows []KardexRow) ([]byte, error)
}

// UseCase consultas de auditoría sobre el ledger. Solo lectura: ninguna
// operación de este caso de uso muta nada.
type UseCase struct {
	txRead        repository.TransactionRepository
	warehouseRepo repository.WarehouseRepository
	partRepo      repository.PartRepository
	reports       KardexReportGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRead repository.TransactionRepository,
	warehouseRepo repository.WarehouseRepository,
	partRepo repository.PartRepository,
	reports KardexReportGenerator,
) *UseCase {
	return &UseCase{txRead: txRead, warehouseRepo: warehouseRepo, partRepo: partRepo, reports: reports}
}

// ListTransactions historial paginado con filtros. El OrgID del caller manda:
// se fuerza sobre el filtro para que nadie consulte otra organización.
func (uc *UseCase) ListTransactions(_ context.Context, orgID string, filter repository.TransactionFilter, limit, offset int) ([]*entity.InventoryTransaction, error) {
	filter.OrgID = orgID
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.txRead.List(filter, limit, offset)
}

// KardexRows arma las líneas del kardex de (bodega, parte): cada movimiento
// con su delta y el saldo corrido, en orden de commit.
func (uc *UseCase) KardexRows(_ context.Context, orgID, warehouseID, partID string) (*entity.Warehouse, *entity.Part, []KardexRow, error) {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, nil, nil, err
	}
	if wh == nil || wh.OrgID != orgID {
		return nil, nil, nil, domain.ErrNotFound
	}
	part, err := uc.partRepo.GetByID(partID)
	if err != nil {
		return nil, nil, nil, err
	}
	if part == nil || part.OrgID != orgID {
		return nil, nil, nil, domain.ErrNotFound
	}

	history, err := uc.txRead.ListByKey(warehouseID, partID)
	if err != nil {
		return nil, nil, nil, err
	}

	rows := make([]KardexRow, 0, len(history))
	running := quantity.Zero
	for _, tx := range history {
		delta := domledger.Delta(tx, warehouseID)
		running = running.Add(delta)
		rows = append(rows, KardexRow{Tx: tx, Delta: delta, RunningBalance: running})
	}
	return wh, part, rows, nil
}

// ExportKardexPDF genera el reporte kardex en PDF para (bodega, parte).
func (uc *UseCase) ExportKardexPDF(ctx context.Context, orgID, warehouseID, partID string) ([]byte, error) {
	wh, part, rows, err := uc.KardexRows(ctx, orgID, warehouseID, partID)
	if err != nil {
		return nil, err
	}
	return uc.reports.GenerateKardexPDF(ctx, wh, part, rows)
}
