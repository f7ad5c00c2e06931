package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/loan"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// LoanHandler préstamos (emanet): listado, devolución y comprobante.
type LoanHandler struct {
	uc  *loan.UseCase
	log *logger.Logger
}

// NewLoanHandler construye el handler.
func NewLoanHandler(uc *loan.UseCase, log *logger.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar préstamos
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "active | returned"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        product_id   query  string  false  "Producto"
// @Param        search       query  string  false  "Texto libre"
// @Success      200  {object}  dto.LoanListResponse
// @Router       /api/stock/loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	var q dto.LoanQuery
	_ = c.QueryParser(&q)
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Registrar la devolución de un préstamo
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del préstamo"
// @Param        body  body  dto.LoanReturnRequest  false  "return_date, notes"
// @Success      200   {object}  dto.LoanReturnResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/loans/{id}/return [post]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	var in dto.LoanReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Return(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Receipt comprobante del préstamo en JSON, o en PDF con ?format=pdf.
// GET /api/stock/loans/:id/receipt
func (h *LoanHandler) Receipt(c *fiber.Ctx) error {
	if c.Query("format") == "pdf" {
		b, ref, err := h.uc.ReceiptPDF(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, h.log, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, ref))
		return c.Send(b)
	}
	out, err := h.uc.Receipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
