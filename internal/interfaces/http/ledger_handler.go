package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// LedgerHandler maneja el registro de transacciones y la consulta de saldos (protegido).
type LedgerHandler struct {
	register *appledger.RegisterTransactionUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(register *appledger.RegisterTransactionUseCase) *LedgerHandler {
	return &LedgerHandler{register: register}
}

// CreateTransaction godoc
// @Summary      Registrar transacción de inventario
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "type, part_id, quantity (string decimal), from/to_warehouse_id según tipo"
// @Success      201   {object}  dto.CreateTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ledger/transactions [post]
func (h *LedgerHandler) CreateTransaction(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := quantity.Parse(in.Quantity)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "cantidad inválida: se espera decimal con hasta 3 decimales",
			Details: map[string]any{"field": "quantity"},
		})
	}

	result, err := h.register.Register(c.Context(), appledger.TransactionInput{
		OrgID:           GetOrgID(c),
		UserID:          GetUserID(c),
		Type:            in.Type,
		PartID:          in.PartID,
		Quantity:        qty,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		MachineID:       in.MachineID,
		Notes:           in.Notes,
		ReferenceNumber: in.ReferenceNumber,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateTransactionResponse{
		Transaction: toTransactionResponse(result.Transaction),
		Balances:    result.Balances,
		Warnings:    result.Warnings,
	})
}

// GetBalance godoc
// @Summary      Stock actual de (bodega, parte)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Bodega"
// @Param        part_id       path  string  true  "Parte"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/balances/{warehouse_id}/{part_id} [get]
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouse_id")
	partID := c.Params("part_id")

	stock, err := h.register.GetBalance(c.Context(), GetOrgID(c), warehouseID, partID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceResponse{
		WarehouseID:  warehouseID,
		PartID:       partID,
		CurrentStock: stock,
	})
}

func toTransactionResponse(tx *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              tx.ID,
		Type:            tx.Type,
		PartID:          tx.PartID,
		Quantity:        tx.Quantity,
		FromWarehouseID: tx.FromWarehouseID,
		ToWarehouseID:   tx.ToWarehouseID,
		MachineID:       tx.MachineID,
		PerformedBy:     tx.PerformedBy,
		Timestamp:       tx.Timestamp.UTC(),
		Notes:           tx.Notes,
		ReferenceNumber: tx.ReferenceNumber,
		Reconciliation:  tx.Reconciliation,
	}
}

// parseTimeQuery "2026-01-31T00:00:00Z" o "2026-01-31"; nil si viene vacío.
func parseTimeQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fiber.ErrBadRequest
}
