// Package pdf implementa la generación del comprobante de recepción de una
// orden de compra usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Restaurante  │  N° Orden + Fecha                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: nombre + solicitante / aprobador                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Importe | Recibido       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DE LA ORDEN                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: receptor + fecha de recepción + observaciones      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa purchasing.ReceivingSlipGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateReceivingSlip genera el comprobante y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceivingSlip(
	_ context.Context,
	order *entity.PurchaseOrder,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Recepción", true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de ítems
	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(order.Items) {
		m.AddRows(r)
	}

	// Total
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(order))

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(order) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del comprobante (izq) y N° de orden + fecha (der).
func headerRow(order *entity.PurchaseOrder) core.Row {
	fecha := order.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("COMPROBANTE DE RECEPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Orden de compra de insumos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(order.OrderNo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// supplierRow: proveedor + responsables de la orden.
func supplierRow(order *entity.PurchaseOrder) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(order.SupplierName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Solicitó: %s   |   Aprobó: %s",
				nonEmpty(order.Creator, "—"),
				nonEmpty(order.Approver, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Importe", 2, align.Right),
		h("Recibido", 2, align.Center),
	)
}

// tableItemRows: una fila por ítem de la orden.
func tableItemRows(items []entity.PurchaseOrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		recibido := "Pendiente"
		if it.Received {
			recibido = "Sí"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.StringFixed(2),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.Price.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.Amount.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				recibido,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// totalRow: total de la orden alineado a la derecha.
func totalRow(order *entity.PurchaseOrder) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL DE LA ORDEN:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})),
		col.New(3).Add(text.New("$"+order.TotalAmount.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})),
	)
}

// footerRows: receptor, fecha de recepción y observaciones.
func footerRows(order *entity.PurchaseOrder) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("RECEPCIÓN EN ALMACÉN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	recibidoPor := nonEmpty(order.ReceivedBy, "—")
	fechaRecep := "—"
	if order.ReceivedAt != nil {
		fechaRecep = order.ReceivedAt.Format("02/01/2006 15:04")
	}
	rows = append(rows, row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Recibido por: %s   |   Fecha: %s", recibidoPor, fechaRecep),
			props.Text{Size: 8, Top: 1, Color: colorGray}),
	)))

	if order.Remark != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Observaciones: "+order.Remark, props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Las cantidades recibidas quedan registradas en el libro de movimientos "+
				"de inventario con referencia al número de orden.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
