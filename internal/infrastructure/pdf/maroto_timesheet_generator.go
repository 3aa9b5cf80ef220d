// Package pdf genera la hoja de horas de una empresa en PDF.
//
// Layout de la página A4 (apaisada):
//
//	┌───────────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + periodo        │  Fecha de emisión + redondeo  │
//	│  ───────────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Usuario | Cliente | Proyecto | Descripción | Horas │
//	│  ───────────────────────────────────────────────────────────────  │
//	│  TOTAL HORAS                                                       │
//	└───────────────────────────────────────────────────────────────────┘
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
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/report"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ report.PDFGenerator = (*MarotoTimesheetGenerator)(nil)

// MarotoTimesheetGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoTimesheetGenerator struct {
	printer *message.Printer
	loc     *time.Location
	now     func() time.Time
}

// NewMarotoTimesheetGenerator construye el generador. locale es una etiqueta BCP 47 ("es-CO");
// si no se reconoce se usa español.
func NewMarotoTimesheetGenerator(locale string) *MarotoTimesheetGenerator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &MarotoTimesheetGenerator{
		printer: message.NewPrinter(tag),
		loc:     time.UTC,
		now:     time.Now,
	}
}

// GenerateTimesheetPDF genera el PDF y devuelve sus bytes.
func (g *MarotoTimesheetGenerator) GenerateTimesheetPDF(_ context.Context, rep *dto.ReportResponse, from, to string) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de horas", true).
		WithAuthor(rep.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(rep, from, to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableDetailRows(rep.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(rep.TotalHours))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: empresa + periodo (izq), emisión y política de redondeo (der).
func (g *MarotoTimesheetGenerator) headerRow(rep *dto.ReportResponse, from, to string) core.Row {
	rounding := "Duración exacta"
	if rep.Rounded {
		rounding = "Redondeo a bloques de 5 minutos"
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New(rep.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Periodo: "+period(from, to), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("HOJA DE HORAS", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitida: "+g.now().In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(rounding, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Inicio", 2, align.Left),
		h("Usuario", 1, align.Left),
		h("Cliente", 2, align.Left),
		h("Proyecto", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Horas", 1, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoTimesheetGenerator) tableDetailRows(lines []dto.ReportLine) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		hours := g.formatHours(l.Hours)
		if l.Running {
			hours += " *"
		}
		result = append(result, row.New(7).Add(
			cell(l.StartTime.In(g.loc).Format("02/01/2006 15:04"), 2, align.Left),
			cell(l.Username, 1, align.Left),
			cell(fmt.Sprintf("%d · %s", l.CustomerNumber, l.CustomerName), 2, align.Left),
			cell(fmt.Sprintf("%d · %s", l.ProjectNumber, l.ProjectName), 2, align.Left),
			cell(l.Description, 4, align.Left),
			cell(hours, 1, align.Right),
		))
	}
	if len(lines) == 0 {
		result = append(result, row.New(8).Add(col.New(12).Add(
			text.New("Sin registros en el periodo.", props.Text{Size: 8, Top: 2, Color: colorGray, Align: align.Center}),
		)))
	}
	return result
}

func (g *MarotoTimesheetGenerator) totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(9),
		col.New(2).Add(text.New("TOTAL HORAS:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(1).Add(text.New(g.formatHours(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// formatHours formatea con dos decimales y los separadores del locale ("12.345,50" en es-CO).
func (g *MarotoTimesheetGenerator) formatHours(h decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(h.Round(2).InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func period(from, to string) string {
	switch {
	case from != "" && to != "":
		return from + " a " + to
	case from != "":
		return "desde " + from
	case to != "":
		return "hasta " + to
	}
	return "todo"
}
