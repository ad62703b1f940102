// Package pdf implementa la generación del PDF del reporte diario de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa  │  Fecha del reporte                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Conteos apertura / cierre por bucket                 │
//	│  TRANSACCIONES: altas, ventas, reparaciones, devoluciones    │
//	│  FLUJO DE CAJA: ventas / reparaciones / total                │
//	│  DISCREPANCIAS (si las hay)                                   │
//	│  TABLA: artículos vendidos del día                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/gadgetops/resale-api/internal/application/dailystock"
	"github.com/gadgetops/resale-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Asegura que el generador implementa el puerto del caso de uso.
var _ dailystock.PDFGenerator = (*DailyReportGenerator)(nil)

// DailyReportGenerator implementa dailystock.PDFGenerator usando Maroto v2.
type DailyReportGenerator struct{}

// NewDailyReportGenerator construye el generador.
func NewDailyReportGenerator() *DailyReportGenerator { return &DailyReportGenerator{} }

// GenerateDailyReport genera el PDF del reporte y devuelve sus bytes.
func (g *DailyReportGenerator) GenerateDailyReport(report *dailystock.DailyReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte diario de stock", true).
		WithAuthor(report.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(countsHeaderRow())
	m.AddRows(countsRow("Apertura", report.Session.OpeningCount))
	if report.Session.IsClosed() {
		m.AddRows(countsRow("Cierre", report.Session.ClosingCount))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(transactionsRow(report.Session.Transactions))
	m.AddRows(cashFlowRow(report.Session.CashFlow))

	if len(report.Session.Discrepancies) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(sectionTitleRow("Discrepancias"))
		for _, d := range report.Session.Discrepancies {
			m.AddRows(row.New(5).Add(
				col.New(12).Add(text.New(d.Description, props.Text{Size: 8})),
			))
		}
	}

	if len(report.SoldItems) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(sectionTitleRow("Artículos vendidos"))
		m.AddRows(soldHeaderRow())
		for _, item := range report.SoldItems {
			m.AddRows(soldItemRow(item))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: empresa (izq) y fecha del reporte (der).
func headerRow(report *dailystock.DailyReport) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New(report.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DIARIO DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(report.Date.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		})),
	)
}

func countsHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Top: 2}
	return row.New(7).Add(
		col.New(2).Add(text.New("", header)),
		col.New(2).Add(text.New("Disponible", header)),
		col.New(2).Add(text.New("En reparación", header)),
		col.New(2).Add(text.New("Reservado", header)),
		col.New(2).Add(text.New("Dañado", header)),
		col.New(2).Add(text.New("Total", header)),
	)
}

func countsRow(label string, c entity.StatusCounts) core.Row {
	cell := props.Text{Size: 8, Top: 1}
	return row.New(6).Add(
		col.New(2).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", c.Available), cell)),
		col.New(2).Add(text.New(fmt.Sprintf("%d", c.InRepair), cell)),
		col.New(2).Add(text.New(fmt.Sprintf("%d", c.Reserved), cell)),
		col.New(2).Add(text.New(fmt.Sprintf("%d", c.Damaged), cell)),
		col.New(2).Add(text.New(fmt.Sprintf("%d", c.Total()), cell)),
	)
}

func transactionsRow(tx entity.SessionTransactions) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("Transacciones del día", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
			text.New(fmt.Sprintf(
				"Altas: %d   Ventas: %d   A reparación: %d   Reparadas: %d   Devoluciones: %d",
				tx.NewAdditions, tx.Sales, tx.RepairsSent, tx.RepairsCompleted, tx.Returns,
			), props.Text{Size: 8, Top: 6}),
		),
	)
}

func cashFlowRow(cf entity.CashFlow) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("Flujo de caja", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
			text.New(fmt.Sprintf(
				"Ventas: %s   Reparaciones: %s   Total: %s",
				dailystock.FormatMoney(cf.Sales),
				dailystock.FormatMoney(cf.Repairs),
				dailystock.FormatMoney(cf.Total),
			), props.Text{Size: 8, Top: 6}),
		),
	)
}

func soldHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}
	return row.New(6).Add(
		col.New(3).Add(text.New("Serie", header)),
		col.New(4).Add(text.New("Artículo", header)),
		col.New(2).Add(text.New("Marca", header)),
		col.New(3).Add(text.New("Precio de venta", props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 1, Align: align.Right,
		})),
	)
}

func soldItemRow(item *entity.Item) core.Row {
	cell := props.Text{Size: 8, Top: 1}
	return row.New(5).Add(
		col.New(3).Add(text.New(item.SerialNumber, cell)),
		col.New(4).Add(text.New(item.Name, cell)),
		col.New(2).Add(text.New(item.Brand, cell)),
		col.New(3).Add(text.New(dailystock.FormatMoney(item.SellingPrice), props.Text{
			Size: 8, Top: 1, Align: align.Right,
		})),
	)
}
