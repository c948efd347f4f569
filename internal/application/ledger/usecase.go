// Package ledger implementa el orquestador de transacciones del kardex: la
// única vía de escritura al libro de movimientos.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domledger "github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/metrics"
)

// RegisterTransactionUseCase registra transacciones de inventario
// (CREATION, TRANSFER, CONSUMPTION, ADJUSTMENT) de forma atómica:
// valida -> toma candados -> append + saldo en una transacción de DB -> commit.
// Cualquier fallo antes del commit deja cero filas escritas.
type RegisterTransactionUseCase struct {
	guard         *KeyGuard
	txRunner      TxRunner
	partRepo      repository.PartRepository
	warehouseRepo repository.WarehouseRepository
	machineRepo   repository.MachineRepository
	perms         PermissionChecker

	// Repos atados al pool (fuera de tx) para el camino de solo lectura.
	txRead      repository.TransactionRepository
	balanceRead repository.BalanceRepository

	// allowNegative permite que un saldo quede negativo (apagado por defecto).
	allowNegative bool
}

// NewRegisterTransactionUseCase construye el orquestador.
func NewRegisterTransactionUseCase(
	guard *KeyGuard,
	txRunner TxRunner,
	partRepo repository.PartRepository,
	warehouseRepo repository.WarehouseRepository,
	machineRepo repository.MachineRepository,
	perms PermissionChecker,
	txRead repository.TransactionRepository,
	balanceRead repository.BalanceRepository,
	allowNegative bool,
) *RegisterTransactionUseCase {
	return &RegisterTransactionUseCase{
		guard:         guard,
		txRunner:      txRunner,
		partRepo:      partRepo,
		warehouseRepo: warehouseRepo,
		machineRepo:   machineRepo,
		perms:         perms,
		txRead:        txRead,
		balanceRead:   balanceRead,
		allowNegative: allowNegative,
	}
}

// TransactionInput entrada para registrar una transacción.
// CREATION: ToWarehouseID. CONSUMPTION: FromWarehouseID (+MachineID opcional).
// TRANSFER: From y To distintos. ADJUSTMENT: una sola bodega (en cualquiera de
// los dos campos; se canonicaliza a ToWarehouseID) y Quantity firmada.
type TransactionInput struct {
	OrgID  string
	UserID string

	Type            string
	PartID          string
	Quantity        quantity.Quantity
	FromWarehouseID string
	ToWarehouseID   string
	MachineID       string
	Notes           string
	ReferenceNumber string

	// reconciliation solo lo activa el motor de conciliación (ajuste de caché).
	reconciliation bool
}

// TransactionResult transacción confirmada más los saldos resultantes por
// bodega afectada y las advertencias no bloqueantes de validación.
type TransactionResult struct {
	Transaction *entity.InventoryTransaction
	Balances    map[string]quantity.Quantity
	Warnings    []string
}

// Register valida la operación, toma los candados de las claves afectadas en
// orden canónico y confirma append + actualización de saldo como una unidad.
//
// La suficiencia de stock se re-valida bajo candado contra el saldo
// posterior a cualquier operación que haya ganado la carrera (nunca contra
// una lectura previa): de dos traslados concurrentes sobre la misma clave,
// el segundo ve el saldo ya descontado.
func (uc *RegisterTransactionUseCase) Register(ctx context.Context, input TransactionInput) (*TransactionResult, error) {
	// Un ADJUSTMENT lleva exactamente una bodega; se acepta en cualquiera de
	// los dos campos y se canonicaliza al destino antes de validar, de modo
	// que la fila persistida siempre usa to_warehouse_id.
	if input.Type == entity.TxTypeAdjustment && input.ToWarehouseID == "" && input.FromWarehouseID != "" {
		input.ToWarehouseID, input.FromWarehouseID = input.FromWarehouseID, ""
	}

	part, warnings, err := uc.validate(ctx, input)
	if err != nil {
		metrics.TransactionsRejected.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	now := time.Now().UTC()
	tx := &entity.InventoryTransaction{
		ID:              uuid.New().String(),
		OrgID:           input.OrgID,
		Type:            input.Type,
		PartID:          part.ID,
		Quantity:        input.Quantity,
		FromWarehouseID: input.FromWarehouseID,
		ToWarehouseID:   input.ToWarehouseID,
		MachineID:       input.MachineID,
		PerformedBy:     input.UserID,
		Timestamp:       now,
		Notes:           input.Notes,
		ReferenceNumber: input.ReferenceNumber,
		Reconciliation:  input.reconciliation,
		CreatedAt:       now,
	}

	result := &TransactionResult{
		Transaction: tx,
		Balances:    make(map[string]quantity.Quantity),
		Warnings:    warnings,
	}

	commit := func() error {
		started := time.Now()
		defer func() { metrics.CommitDuration.Observe(time.Since(started).Seconds()) }()
		return uc.txRunner.Run(ctx, func(
			txRepo repository.TransactionRepository,
			balanceRepo repository.BalanceRepository,
		) error {
			return uc.commitLocked(tx, result, txRepo, balanceRepo)
		})
	}

	if tx.Type == entity.TxTypeTransfer {
		err = uc.guard.WithTransferLock(ctx, tx.FromWarehouseID, tx.ToWarehouseID, tx.PartID, commit)
	} else {
		wh := tx.ToWarehouseID
		if wh == "" {
			wh = tx.FromWarehouseID
		}
		err = uc.guard.WithLock(ctx, wh, tx.PartID, commit)
	}
	if err != nil {
		if errors.Is(err, domain.ErrLockTimeout) {
			metrics.LockTimeouts.Inc()
		}
		metrics.TransactionsRejected.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	metrics.TransactionsCommitted.WithLabelValues(tx.Type).Inc()
	return result, nil
}

// commitLocked sección crítica: se ejecuta con los candados tomados y dentro
// de la transacción de DB. Re-valida stock contra la fila bloqueada
// (FOR UPDATE), hace el append y actualiza los saldos afectados.
func (uc *RegisterTransactionUseCase) commitLocked(
	tx *entity.InventoryTransaction,
	result *TransactionResult,
	txRepo repository.TransactionRepository,
	balanceRepo repository.BalanceRepository,
) error {
	now := tx.Timestamp

	for _, warehouseID := range tx.Warehouses() {
		balance, err := balanceRepo.GetForUpdate(warehouseID, tx.PartID)
		if err != nil {
			return err
		}

		updated := domledger.Apply(balance.CurrentStock, tx, warehouseID)
		if updated.IsNegative() && !uc.allowNegative && !tx.Reconciliation {
			return &domain.InsufficientStockError{
				WarehouseID: warehouseID,
				PartID:      tx.PartID,
				Available:   balance.CurrentStock,
				Requested:   tx.Quantity.Abs(),
			}
		}

		balance.WarehouseID = warehouseID
		balance.PartID = tx.PartID
		balance.CurrentStock = updated
		balance.UpdatedAt = now
		if err := balanceRepo.Upsert(balance); err != nil {
			return err
		}
		result.Balances[warehouseID] = updated
	}

	return txRepo.Append(tx)
}

// validate aplica las reglas de negocio previas al candado: tipo y campos,
// existencia y scope de parte/bodegas/máquina, bodegas activas y permisos.
// La precisión (<= 3 decimales) ya viene garantizada por el tipo Quantity.
func (uc *RegisterTransactionUseCase) validate(ctx context.Context, input TransactionInput) (*entity.Part, []string, error) {
	if input.PartID == "" {
		return nil, nil, &domain.ValidationError{Field: "part_id", Reason: "requerido"}
	}

	switch input.Type {
	case entity.TxTypeCreation:
		if input.ToWarehouseID == "" || input.FromWarehouseID != "" {
			return nil, nil, &domain.ValidationError{Field: "to_warehouse_id", Reason: "CREATION lleva solo bodega destino"}
		}
		if !input.Quantity.IsPositive() {
			return nil, nil, &domain.ValidationError{Field: "quantity", Reason: "debe ser mayor que cero"}
		}
	case entity.TxTypeConsumption:
		if input.FromWarehouseID == "" || input.ToWarehouseID != "" {
			return nil, nil, &domain.ValidationError{Field: "from_warehouse_id", Reason: "CONSUMPTION lleva solo bodega origen"}
		}
		if !input.Quantity.IsPositive() {
			return nil, nil, &domain.ValidationError{Field: "quantity", Reason: "debe ser mayor que cero"}
		}
	case entity.TxTypeTransfer:
		if input.FromWarehouseID == "" || input.ToWarehouseID == "" {
			return nil, nil, &domain.ValidationError{Field: "from_warehouse_id", Reason: "TRANSFER requiere origen y destino"}
		}
		if input.FromWarehouseID == input.ToWarehouseID {
			return nil, nil, &domain.ValidationError{Field: "to_warehouse_id", Reason: "origen y destino deben diferir"}
		}
		if !input.Quantity.IsPositive() {
			return nil, nil, &domain.ValidationError{Field: "quantity", Reason: "debe ser mayor que cero"}
		}
	case entity.TxTypeAdjustment:
		if input.ToWarehouseID == "" || input.FromWarehouseID != "" {
			return nil, nil, &domain.ValidationError{Field: "to_warehouse_id", Reason: "ADJUSTMENT lleva exactamente una bodega"}
		}
		if input.Quantity.IsZero() {
			return nil, nil, &domain.ValidationError{Field: "quantity", Reason: "el delta no puede ser cero"}
		}
	default:
		return nil, nil, &domain.ValidationError{Field: "type", Reason: fmt.Sprintf("tipo desconocido %q", input.Type)}
	}

	if input.MachineID != "" && input.Type != entity.TxTypeConsumption {
		return nil, nil, &domain.ValidationError{Field: "machine_id", Reason: "solo aplica a CONSUMPTION"}
	}

	part, err := uc.partRepo.GetByID(input.PartID)
	if err != nil {
		return nil, nil, err
	}
	if part == nil || part.OrgID != input.OrgID {
		return nil, nil, domain.ErrNotFound
	}

	var warnings []string
	if part.PartType == entity.PartTypeConsumable && !input.Quantity.IsWhole() {
		// Advertencia, no rechazo: la convención dice entera para consumibles
		warnings = append(warnings, fmt.Sprintf(
			"la parte %s es CONSUMABLE y la cantidad %s no es entera", part.SKU, input.Quantity))
	}

	for _, warehouseID := range []string{input.FromWarehouseID, input.ToWarehouseID} {
		if warehouseID == "" {
			continue
		}
		wh, err := uc.warehouseRepo.GetByID(warehouseID)
		if err != nil {
			return nil, nil, err
		}
		if wh == nil || wh.OrgID != input.OrgID {
			return nil, nil, domain.ErrNotFound
		}
		if !wh.Active {
			return nil, nil, domain.ErrWarehouseInactive
		}
		ok, err := uc.perms.CanWrite(ctx, input.UserID, warehouseID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, domain.ErrForbidden
		}
	}

	if input.MachineID != "" {
		machine, err := uc.machineRepo.GetByID(input.MachineID)
		if err != nil {
			return nil, nil, err
		}
		if machine == nil || machine.OrgID != input.OrgID {
			return nil, nil, domain.ErrNotFound
		}
	}

	return part, warnings, nil
}

// GetBalance devuelve el stock actual de (bodega, parte). Lectura sin
// candado: apta para visualización; cualquier decisión de negocio sobre el
// valor se re-valida bajo candado en Register. Si la clave no tiene saldo
// materializado todavía, se deriva con un recómputo total del ledger.
func (uc *RegisterTransactionUseCase) GetBalance(_ context.Context, orgID, warehouseID, partID string) (quantity.Quantity, error) {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return quantity.Zero, err
	}
	if wh == nil || wh.OrgID != orgID {
		return quantity.Zero, domain.ErrNotFound
	}

	balance, err := uc.balanceRead.Get(warehouseID, partID)
	if err != nil {
		return quantity.Zero, err
	}
	if !balance.UpdatedAt.IsZero() {
		return balance.CurrentStock, nil
	}

	// Clave sin fila materializada: derivar perezosamente del ledger.
	history, err := uc.txRead.ListByKey(warehouseID, partID)
	if err != nil {
		return quantity.Zero, err
	}
	return domledger.Recompute(history, warehouseID, partID), nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrWarehouseInactive):
		return "validation"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	default:
		return "store"
	}
}
