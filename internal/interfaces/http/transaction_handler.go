package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// TransactionHandler lecturas del ledger: movimientos sueltos y transacciones agrupadas.
type TransactionHandler struct {
	uc  *stock.QueryUseCase
	log *logger.Logger
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *stock.QueryUseCase, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{uc: uc, log: log}
}

// ListMovements godoc
// @Summary      Listar movimientos del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        type         query  string  false  "in | out | adjustment"
// @Param        product_id   query  string  false  "Producto"
// @Param        is_loan      query  bool    false  "Solo préstamos"
// @Param        from         query  string  false  "YYYY-MM-DD"
// @Param        to           query  string  false  "YYYY-MM-DD (incluido)"
// @Param        search       query  string  false  "Texto libre"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *TransactionHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementQuery
	// Filtros mal formados no son error: se usan los valores por defecto.
	_ = c.QueryParser(&q)
	out, err := h.uc.ListMovements(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetMovement GET /api/stock/movements/:id
func (h *TransactionHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.uc.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Listar transacciones (movimientos agrupados por transaction_id)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sort    query  string  false  "created_at | reference_number | total_amount | quantity"
// @Param        order   query  string  false  "asc | desc"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/stock/transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	var q dto.TransactionQuery
	_ = c.QueryParser(&q)
	out, err := h.uc.ListTransactions(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetTransaction detalle de una transacción por referencia. Si varias comparten la
// referencia se devuelve la más reciente, salvo que ?transaction_id= elija una.
// GET /api/stock/transactions/:reference_number
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	out, err := h.uc.GetTransaction(c.UserContext(), c.Params("reference_number"), c.Query("transaction_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
