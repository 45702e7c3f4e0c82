// Package pdf genera el informe del directorio de escuelas (tenants) en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Plataforma + título   │  Fecha de emisión          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: escuelas por estado + mensualidades               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Escuela | Código | Estado | Mensualidad | Pagos     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/escolar/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// DirectoryReport genera el informe con Maroto v2.
type DirectoryReport struct {
	Platform string
	now      func() time.Time
}

// NewDirectoryReport construye el generador. platform se imprime en la cabecera.
func NewDirectoryReport(platform string) *DirectoryReport {
	return &DirectoryReport{Platform: platform, now: time.Now}
}

// Generate devuelve los bytes del PDF.
func (g *DirectoryReport) Generate(schools []entity.School) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Directorio de escuelas", true).
		WithAuthor(g.Platform, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.Platform, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(Summarize(schools)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, s := range schools {
		m.AddRows(schoolRow(s))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Las escuelas no se eliminan: una escuela dada de baja figura como Bloqueado.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// Summary totales del directorio.
type Summary struct {
	Total       int
	ByStatus    map[entity.SchoolStatus]int
	MonthlyFees decimal.Decimal // suma de mensualidades de escuelas no bloqueadas
}

// Summarize cuenta escuelas por estado y suma las mensualidades vigentes.
func Summarize(schools []entity.School) Summary {
	s := Summary{Total: len(schools), ByStatus: make(map[entity.SchoolStatus]int), MonthlyFees: decimal.Zero}
	for _, sc := range schools {
		status := sc.Status
		if status == "" {
			status = entity.SchoolActive
		}
		s.ByStatus[status]++
		if status != entity.SchoolBlocked {
			s.MonthlyFees = s.MonthlyFees.Add(sc.Subscription.MonthlyFee)
		}
	}
	return s
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(platform string, now time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(nonEmpty(platform, "escolar"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Directorio de escuelas", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s Summary) core.Row {
	parts := make([]string, 0, 4)
	for _, st := range []entity.SchoolStatus{entity.SchoolActive, entity.SchoolInDebt, entity.SchoolDemo, entity.SchoolBlocked} {
		parts = append(parts, fmt.Sprintf("%s: %d", st, s.ByStatus[st]))
	}
	return row.New(14).Add(
		col.New(8).Add(
			text.New(fmt.Sprintf("%d escuelas", s.Total), props.Text{Style: fontstyle.Bold, Size: 10, Top: 1}),
			text.New(strings.Join(parts, "   |   "), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Mensualidades vigentes", props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray}),
			text.New(FormatMoney(s.MonthlyFees), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6, Color: colorPrimary,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Escuela", 4, align.Left),
		h("Código", 2, align.Left),
		h("Estado", 2, align.Center),
		h("Mensualidad", 2, align.Right),
		h("Último pago / Vence", 2, align.Right),
	)
}

func schoolRow(s entity.School) core.Row {
	statusStyle := props.Text{Size: 8, Align: align.Center, Top: 1}
	if s.Status == entity.SchoolBlocked || s.Status == entity.SchoolInDebt {
		statusStyle.Color = colorDanger
		statusStyle.Style = fontstyle.Bold
	}
	return row.New(9).Add(
		col.New(4).Add(
			text.New(nonEmpty(s.Name, s.ID), props.Text{Size: 8, Top: 1, Left: 1}),
			text.New(nonEmpty(s.RepresentativeName, "—"), props.Text{Size: 6.5, Top: 5, Left: 1, Color: colorGray}),
		),
		col.New(2).Add(text.New(s.AccessCode, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(string(nonEmptyStatus(s.Status)), statusStyle)),
		col.New(2).Add(text.New(FormatMoney(s.Subscription.MonthlyFee), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(
			text.New(nonEmpty(s.Subscription.LastPaymentDate, "—"), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}),
			text.New(nonEmpty(s.Subscription.NextDueDate, "—"), props.Text{Size: 6.5, Align: align.Right, Top: 5, Right: 1, Color: colorGray}),
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

func nonEmptyStatus(s entity.SchoolStatus) entity.SchoolStatus {
	if s == "" {
		return entity.SchoolActive
	}
	return s
}

// FormatMoney dos decimales, puntos de miles y coma decimal: 1500.5 → "1.500,50".
func FormatMoney(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + string(buf) + "," + frac
}
