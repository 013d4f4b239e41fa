// Package pdf implementa el informe PDF de préstamos del panel admin.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la biblioteca │ Fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Título | Lector | Prestado | Vence |        │
//	│         Estado | Multa                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total préstamos / activos / multas acumuladas      │
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Biblioteca-api/internal/application/lending"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ lending.LoanReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa lending.LoanReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	libraryName string
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator(libraryName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{libraryName: libraryName}
}

// GenerateLoanReport genera el PDF del listado de préstamos y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateLoanReport(_ context.Context, loans []*entity.LoanDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Informe de préstamos", true).
		WithAuthor(g.libraryName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.libraryName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, l := range loans {
		m.AddRows(loanRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(loans))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(libraryName string) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(libraryName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Informe de préstamos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(7).Add(
		header(1, "Código"),
		header(3, "Título"),
		header(3, "Lector"),
		header(1, "Prestado"),
		header(1, "Vence"),
		header(1, "Estado"),
		header(2, "Multa"),
	)
}

func loanRow(l *entity.LoanDetail) core.Row {
	cell := func(size int, value string) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Top: 1}))
	}
	return row.New(6).Add(
		cell(1, l.BookCode),
		cell(3, l.BookTitle),
		cell(3, l.ReaderName),
		cell(1, l.LoanDate.Format("02/01/2006")),
		cell(1, l.DueDate.Format("02/01/2006")),
		cell(1, l.Status),
		col.New(2).Add(text.New(l.FineAmount.StringFixed(2), props.Text{
			Size: 8, Top: 1, Align: align.Right,
		})),
	)
}

func summaryRow(loans []*entity.LoanDetail) core.Row {
	active := 0
	fines := decimal.Zero
	for _, l := range loans {
		if l.Status == entity.LoanStatusBorrowed {
			active++
		}
		fines = fines.Add(l.FineAmount)
	}
	summary := fmt.Sprintf("Préstamos: %d   Activos: %d   Multas acumuladas: %s",
		len(loans), active, fines.StringFixed(2))
	return row.New(8).Add(
		col.New(12).Add(text.New(summary, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Align: align.Right, Color: colorPrimary,
		})),
	)
}
