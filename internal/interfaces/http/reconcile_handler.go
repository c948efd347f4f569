package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ReconcileHandler conciliación de saldos: barridos, hallazgos y correcciones
// (protegido; aplicar/descartar requiere rol admin).
type ReconcileHandler struct {
	uc *appledger.ReconcileUseCase
}

// NewReconcileHandler construye el handler.
func NewReconcileHandler(uc *appledger.ReconcileUseCase) *ReconcileHandler {
	return &ReconcileHandler{uc: uc}
}

// Run godoc
// @Summary      Ejecutar barrido de conciliación
// @Description  Recalcula el saldo de cada clave (bodega, parte) desde el
//               ledger y registra una discrepancia por cada divergencia con la
//               caché. Nunca corrige solo: las correcciones se aplican aparte.
// @Tags         reconcile
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Limitar a una bodega"
// @Param        part_id       query  string  false  "Limitar a una parte"
// @Success      200  {array}  dto.DiscrepancyResponse
// @Router       /api/reconcile/run [post]
func (h *ReconcileHandler) Run(c *fiber.Ctx) error {
	found, err := h.uc.Reconcile(c.Context(), GetOrgID(c), c.Query("warehouse_id"), c.Query("part_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDiscrepancyResponses(found))
}

// ListDiscrepancies godoc
// @Summary      Hallazgos de conciliación
// @Tags         reconcile
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | APPLIED | DISMISSED"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.DiscrepancyResponse
// @Router       /api/reconcile/discrepancies [get]
func (h *ReconcileHandler) ListDiscrepancies(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	list, err := h.uc.ListDiscrepancies(c.Context(), GetOrgID(c), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDiscrepancyResponses(list))
}

// ApplyCorrection godoc
// @Summary      Aplicar ajuste correctivo de una discrepancia
// @Description  Registra en el ledger un ADJUSTMENT por el delta del hallazgo
//               y lo marca APPLIED. Requiere rol admin.
// @Tags         reconcile
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la discrepancia"
// @Success      201  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reconcile/discrepancies/{id}/apply [post]
func (h *ReconcileHandler) ApplyCorrection(c *fiber.Ctx) error {
	tx, err := h.uc.ApplyCorrection(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Dismiss godoc
// @Summary      Descartar una discrepancia
// @Tags         reconcile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true   "ID de la discrepancia"
// @Param        body  body  object  false  "reason"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reconcile/discrepancies/{id}/dismiss [post]
func (h *ReconcileHandler) Dismiss(c *fiber.Ctx) error {
	var in struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&in) // el body es opcional

	if err := h.uc.Dismiss(c.Context(), c.Params("id"), GetUserID(c), in.Reason); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toDiscrepancyResponses(list []*entity.Discrepancy) []dto.DiscrepancyResponse {
	out := make([]dto.DiscrepancyResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.DiscrepancyResponse{
			ID:            d.ID,
			WarehouseID:   d.WarehouseID,
			PartID:        d.PartID,
			CachedStock:   d.CachedStock,
			ComputedStock: d.ComputedStock,
			Delta:         d.Delta,
			Status:        d.Status,
			DetectedAt:    d.DetectedAt,
			AppliedAt:     d.AppliedAt,
			AppliedBy:     d.AppliedBy,
			CorrectionID:  d.CorrectionID,
			Details:       d.Details,
		})
	}
	return out
}
