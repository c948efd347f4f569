// Package pdf genera la representación imprimible del kardex de una clave
// (bodega, parte): cabecera, tabla de movimientos y saldo final.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega + Parte (SKU)  │  Fecha de emisión          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Ref | Entrada | Salida | Saldo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO FINAL                                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/Kardex-api/internal/application/audit"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexPDFGenerator implementa audit.KardexReportGenerator usando Maroto v2.
type KardexPDFGenerator struct{}

// NewKardexPDFGenerator construye el generador.
func NewKardexPDFGenerator() *KardexPDFGenerator { return &KardexPDFGenerator{} }

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *KardexPDFGenerator) GenerateKardexPDF(
	_ context.Context,
	warehouse *entity.Warehouse,
	part *entity.Part,
	rows []audit.KardexRow,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+part.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(warehouse, part))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableMovementRows(rows, part.UnitOfMeasure) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(closingRow(rows, part.UnitOfMeasure))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: bodega + parte (izq) y fecha de emisión (der).
func headerRow(warehouse *entity.Warehouse, part *entity.Part) core.Row {
	emitido := time.Now().Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("KARDEX · "+warehouse.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (SKU %s) · %s", part.Name, part.SKU, part.UnitOfMeasure), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("MOVIMIENTOS DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+emitido, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Referencia", 2, align.Left),
		h("Entrada", 2, align.Right),
		h("Salida", 2, align.Right),
		h("Saldo", 2, align.Right),
	)
}

// tableMovementRows: una fila por movimiento, con entrada/salida según el
// signo del delta sobre la bodega.
func tableMovementRows(rows []audit.KardexRow, unit string) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		entrada, salida := "", ""
		if r.Delta.IsNegative() {
			salida = r.Delta.Abs().String()
		} else {
			entrada = r.Delta.String()
		}
		ref := r.Tx.ReferenceNumber
		if ref == "" {
			ref = "—"
		}
		saldoProps := props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1}
		if r.RunningBalance.IsNegative() {
			saldoProps.Color = colorRed
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				r.Tx.Timestamp.Format("02/01/2006 15:04"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				r.Tx.Type,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				ref,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				entrada,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				salida,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				r.RunningBalance.String()+" "+unit,
				saldoProps,
			)),
		))
	}
	return result
}

// closingRow: saldo final y conteo de movimientos.
func closingRow(rows []audit.KardexRow, unit string) core.Row {
	final := quantity.Zero
	if len(rows) > 0 {
		final = rows[len(rows)-1].RunningBalance
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New(fmt.Sprintf("%d movimientos", len(rows)), props.Text{
				Size: 8, Top: 3, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("SALDO FINAL: "+final.String()+" "+unit, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 2,
			}),
		),
	)
}
