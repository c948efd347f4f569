package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/audit"
	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterTx  *appledger.RegisterTransactionUseCase
	ReconcileUC *appledger.ReconcileUseCase
	AuditUC     *audit.UseCase
	WarehouseUC *usecase.WarehouseUseCase
	PartUC      *usecase.PartUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo va protegido con Bearer Token;
// los roles acotan qué puede hacer cada caller:
//
//	admin        escritura total, correcciones de conciliación
//	almacenista  registra movimientos, administra bodegas y partes
//	auditor      solo lectura
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	canWrite := RequireRole(RoleAdmin, RoleAlmacenista)
	adminOnly := RequireRole(RoleAdmin)

	// Ledger: registro de transacciones y saldos
	ledger := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.RegisterTx)
	ledger.Post("/transactions", canWrite, ledgerHandler.CreateTransaction)
	ledger.Get("/balances/:warehouse_id/:part_id", ledgerHandler.GetBalance)

	// Conciliación: barridos, hallazgos y correcciones
	reconcile := api.Group("/reconcile")
	reconcileHandler := NewReconcileHandler(deps.ReconcileUC)
	reconcile.Post("/run", adminOnly, reconcileHandler.Run)
	reconcile.Get("/discrepancies", reconcileHandler.ListDiscrepancies)
	reconcile.Post("/discrepancies/:id/apply", adminOnly, reconcileHandler.ApplyCorrection)
	reconcile.Post("/discrepancies/:id/dismiss", adminOnly, reconcileHandler.Dismiss)

	// Auditoría: historial y kardex
	auditGroup := api.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/transactions", auditHandler.ListTransactions)
	auditGroup.Get("/kardex/:warehouse_id/:part_id/pdf", auditHandler.ExportKardexPDF)

	// Bodegas
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", canWrite, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", canWrite, warehouseHandler.Update)
	warehouses.Post("/:id/deactivate", canWrite, warehouseHandler.Deactivate)
	warehouses.Delete("/:id", adminOnly, warehouseHandler.Delete)

	// Catálogo de partes
	parts := api.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC)
	parts.Post("/", canWrite, partHandler.Create)
	parts.Get("/", partHandler.List)
	parts.Get("/:id", partHandler.GetByID)
}
