package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domledger "github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
	"github.com/jhoicas/Kardex-api/pkg/metrics"
)

// ReconcileUseCase detecta deriva entre el saldo materializado y el derivado
// del ledger, y registra el ajuste correctivo solo con confirmación explícita
// del operador. Nunca sobreescribe el caché en silencio: la corrección pasa
// por el mismo mecanismo de ledger que cualquier otro cambio, con auditoría
// completa del estado malo y del arreglo.
type ReconcileUseCase struct {
	register        *RegisterTransactionUseCase
	txRead          repository.TransactionRepository
	balanceRead     repository.BalanceRepository
	discrepancyRepo repository.DiscrepancyRepository
	log             *logger.Logger
}

// NewReconcileUseCase construye el motor de conciliación.
func NewReconcileUseCase(
	register *RegisterTransactionUseCase,
	txRead repository.TransactionRepository,
	balanceRead repository.BalanceRepository,
	discrepancyRepo repository.DiscrepancyRepository,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		register:        register,
		txRead:          txRead,
		balanceRead:     balanceRead,
		discrepancyRepo: discrepancyRepo,
		log:             log.Component("reconcile"),
	}
}

// Reconcile recomputa desde cero cada clave (bodega, parte) del alcance
// pedido (filtros vacíos = toda la organización) y compara contra el saldo
// materializado. Devuelve las discrepancias vigentes; un barrido sin deriva
// nueva no crea hallazgos nuevos, por lo que dos corridas consecutivas sin
// transacciones intermedias producen el mismo resultado.
func (uc *ReconcileUseCase) Reconcile(_ context.Context, orgID, warehouseID, partID string) ([]*entity.Discrepancy, error) {
	balances, err := uc.balanceRead.ListKeys(orgID, warehouseID, partID)
	if err != nil {
		return nil, err
	}

	found := make([]*entity.Discrepancy, 0)
	for _, balance := range balances {
		history, err := uc.txRead.ListByKey(balance.WarehouseID, balance.PartID)
		if err != nil {
			return nil, err
		}
		computed := domledger.Recompute(history, balance.WarehouseID, balance.PartID)
		if computed.Equal(balance.CurrentStock) {
			continue
		}

		// Deriva detectada. Si ya hay un hallazgo PENDING para la clave se
		// reutiliza: el operador decide sobre un único registro.
		existing, err := uc.discrepancyRepo.FindPending(balance.WarehouseID, balance.PartID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			found = append(found, existing)
			continue
		}

		d := &entity.Discrepancy{
			ID:            uuid.New().String(),
			OrgID:         orgID,
			WarehouseID:   balance.WarehouseID,
			PartID:        balance.PartID,
			CachedStock:   balance.CurrentStock,
			ComputedStock: computed,
			Delta:         computed.Sub(balance.CurrentStock),
			Status:        entity.DiscrepancyPending,
			DetectedAt:    time.Now().UTC(),
			Details: fmt.Sprintf("saldo materializado %s difiere del derivado del ledger %s",
				balance.CurrentStock, computed),
		}
		if err := uc.discrepancyRepo.Create(d); err != nil {
			return nil, err
		}
		metrics.DiscrepanciesDetected.Inc()
		uc.log.Warn().
			Str("warehouse_id", d.WarehouseID).
			Str("part_id", d.PartID).
			Str("cached", d.CachedStock.String()).
			Str("computed", d.ComputedStock.String()).
			Msg("discrepancia caché vs ledger")
		found = append(found, d)
	}
	return found, nil
}

// ApplyCorrection registra, con confirmación del operador, el ajuste de
// conciliación que lleva el saldo materializado de vuelta al valor derivado
// del ledger. El delta sigue vigente aunque haya habido movimientos desde la
// detección: las actualizaciones incrementales afectan por igual al caché y a
// la derivación, así que la diferencia entre ambos es constante.
func (uc *ReconcileUseCase) ApplyCorrection(ctx context.Context, discrepancyID, performedBy string) (*entity.InventoryTransaction, error) {
	d, err := uc.discrepancyRepo.GetByID(discrepancyID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.Status != entity.DiscrepancyPending {
		return nil, domain.ErrConflict
	}

	result, err := uc.register.Register(ctx, TransactionInput{
		OrgID:           d.OrgID,
		UserID:          performedBy,
		Type:            entity.TxTypeAdjustment,
		PartID:          d.PartID,
		Quantity:        d.Delta,
		ToWarehouseID:   d.WarehouseID,
		ReferenceNumber: "DISC-" + d.ID,
		Notes: fmt.Sprintf(
			"ajuste de conciliación: caché decía %s, ledger deriva %s (discrepancia %s)",
			d.CachedStock, d.ComputedStock, d.ID),
		reconciliation: true,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d.Status = entity.DiscrepancyApplied
	d.AppliedAt = &now
	d.AppliedBy = performedBy
	d.CorrectionID = result.Transaction.ID
	if err := uc.discrepancyRepo.Update(d); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("discrepancy_id", d.ID).
		Str("correction_tx", d.CorrectionID).
		Msg("ajuste correctivo aplicado")
	return result.Transaction, nil
}

// Dismiss descarta un hallazgo sin corregir (queda el registro para auditoría).
func (uc *ReconcileUseCase) Dismiss(_ context.Context, discrepancyID, performedBy, reason string) error {
	d, err := uc.discrepancyRepo.GetByID(discrepancyID)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrNotFound
	}
	if d.Status != entity.DiscrepancyPending {
		return domain.ErrConflict
	}
	now := time.Now().UTC()
	d.Status = entity.DiscrepancyDismissed
	d.AppliedAt = &now
	d.AppliedBy = performedBy
	if reason != "" {
		d.Details = d.Details + "; descartada: " + reason
	}
	return uc.discrepancyRepo.Update(d)
}

// ListDiscrepancies hallazgos por organización, opcionalmente por estado.
func (uc *ReconcileUseCase) ListDiscrepancies(_ context.Context, orgID, status string, limit, offset int) ([]*entity.Discrepancy, error) {
	return uc.discrepancyRepo.ListByOrg(orgID, status, limit, offset)
}
