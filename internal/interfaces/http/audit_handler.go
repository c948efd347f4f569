package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/audit"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// AuditHandler historial del ledger y reporte kardex (protegido, solo lectura).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// ListTransactions godoc
// @Summary      Historial de transacciones con filtros
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (origen o destino)"
// @Param        part_id       query  string  false  "Filtrar por parte"
// @Param        type          query  string  false  "CREATION | TRANSFER | CONSUMPTION | ADJUSTMENT"
// @Param        machine_id    query  string  false  "Filtrar por máquina"
// @Param        from          query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit         query  int     false  "Tamaño de página (máx 500)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit/transactions [get]
func (h *AuditHandler) ListTransactions(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro 'from' inválido"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro 'to' inválido"})
	}

	filter := repository.TransactionFilter{
		WarehouseID: c.Query("warehouse_id"),
		PartID:      c.Query("part_id"),
		Type:        c.Query("type"),
		MachineID:   c.Query("machine_id"),
		From:        from,
		To:          to,
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	txs, err := h.uc.ListTransactions(c.Context(), GetOrgID(c), filter, limit, offset)
	if err != nil {
		return writeError(c, err)
	}

	items := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, toTransactionResponse(tx))
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Count: len(items)},
	})
}

// ExportKardexPDF godoc
// @Summary      Kardex de (bodega, parte) en PDF
// @Tags         audit
// @Security     Bearer
// @Produce      application/pdf
// @Param        warehouse_id  path  string  true  "Bodega"
// @Param        part_id       path  string  true  "Parte"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audit/kardex/{warehouse_id}/{part_id}/pdf [get]
func (h *AuditHandler) ExportKardexPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.ExportKardexPDF(c.Context(), GetOrgID(c), c.Params("warehouse_id"), c.Params("part_id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}
