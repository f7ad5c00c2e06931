package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/loan"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements *stock.MovementUseCase
	Queries   *stock.QueryUseCase
	Reconcile *stock.ReconcileUseCase
	Loans     *loan.UseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API. Todo /api/stock exige Bearer Token;
// las escrituras además exigen rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	st := api.Group("/stock", AuthMiddleware(deps.JWTSecret))

	stockHandler := NewStockHandler(deps.Movements, deps.Reconcile, deps.Log)
	st.Post("/in", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), stockHandler.StockIn)
	st.Post("/out", RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor), stockHandler.StockOut)
	st.Post("/adjustment", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), stockHandler.Adjustment)
	st.Get("/products/:id/reconciliation", stockHandler.Reconciliation)

	txHandler := NewTransactionHandler(deps.Queries, deps.Log)
	st.Get("/movements", txHandler.ListMovements)
	st.Get("/movements/:id", txHandler.GetMovement)
	st.Get("/transactions", txHandler.ListTransactions)
	st.Get("/transactions/:reference_number", txHandler.GetTransaction)

	loanHandler := NewLoanHandler(deps.Loans, deps.Log)
	st.Get("/loans", loanHandler.List)
	st.Post("/loans/:id/return", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), loanHandler.Return)
	st.Get("/loans/:id/receipt", loanHandler.Receipt)
}
