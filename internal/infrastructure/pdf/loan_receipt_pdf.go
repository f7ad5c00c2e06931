// Package pdf genera el comprobante de préstamo (emanet) con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Referencia  │  Estado + Fecha de salida    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIT/CC + contacto                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | SKU | Producto | P.Unit | Total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DEVOLUCIÓN: fecha o "pendiente" + notas                    │
//	│  FOOTER: QR con el id del préstamo + firmas                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ ports.LoanReceiptPDFGenerator = (*LoanReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAccent  = &props.Color{Red: 180, Green: 90, Blue: 0}
)

// LoanReceiptGenerator implementa ports.LoanReceiptPDFGenerator usando Maroto v2.
type LoanReceiptGenerator struct {
	issuer string // nombre que aparece como emisor del comprobante
}

// NewLoanReceiptGenerator construye el generador.
func NewLoanReceiptGenerator(issuer string) *LoanReceiptGenerator {
	return &LoanReceiptGenerator{issuer: issuer}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *LoanReceiptGenerator) Generate(r *repository.LoanReceipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de préstamo "+r.Loan.ReferenceNumber, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.issuer, &r.Loan))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(&r.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRow(&r.Loan, &r.Product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(returnRows(&r.Loan)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(&r.Loan))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(issuer string, l *entity.LoanItem) core.Row {
	status := "ACTIVO"
	statusColor := colorAccent
	if !l.IsActive() {
		status = "DEVUELTO"
		statusColor = colorPrimary
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(issuer, "Inventario"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("COMPROBANTE DE PRÉSTAMO", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(l.ReferenceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7, Color: statusColor,
			}),
			text.New("Salida: "+l.ExitDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.Name, c.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(c.TaxID, "—"),
				nonEmpty(c.Phone, "—"),
				nonEmpty(c.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func itemRow(l *entity.LoanItem, p *entity.Product) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(nonEmpty(p.SKU, "—"), props.Text{Size: 8, Top: 1})),
		col.New(5).Add(text.New(nonEmpty(p.Name, p.ID), props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New("$ "+formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New("$ "+formatMoney(l.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
		})),
	)
}

func returnRows(l *entity.LoanItem) []core.Row {
	returned := "Pendiente de devolución"
	if l.ReturnDate != nil {
		returned = "Devuelto el " + l.ReturnDate.Format("02/01/2006")
	}
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(text.New(returned, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2,
		}))),
	}
	for _, n := range strings.Split(strings.TrimSpace(l.Notes), "\n") {
		if n == "" {
			continue
		}
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(n, props.Text{Size: 8, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

func footerRow(l *entity.LoanItem) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(l.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Conserve este comprobante hasta la devolución de la mercadería.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Entregado por: ____________________      Recibido por: ____________________", props.Text{
				Size: 8, Top: 24, Left: 3,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney puntos de miles y coma decimal. Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
