// Package pdf renders the store owner's rating report with Maroto v2.
//
// Page layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: store name + address  │  report title + date       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUMMARY: average │ total ratings │ contact email           │
//	│  DISTRIBUTION: one bar per star value 5..1                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Customer | Email | Rating | Date                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
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

	"github.com/jhoicas/storerating-api/internal/application/analytics"
	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
)

var _ analytics.ReportRenderer = (*StoreReportRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const barWidth = 40

// StoreReportRenderer renders analytics.ReportRenderer documents.
type StoreReportRenderer struct{}

// NewStoreReportRenderer builds the renderer.
func NewStoreReportRenderer() *StoreReportRenderer { return &StoreReportRenderer{} }

// RenderStoreReport returns the PDF bytes of the owner's dashboard.
func (g *StoreReportRenderer) RenderStoreReport(
	_ context.Context,
	report *dto.OwnerDashboard,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Store rating report", true).
		WithAuthor(report.Store.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report.Store, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(distributionRows(report.Statistics)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(customerRows(report.Customers)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate report: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(store dto.StoreRef, generatedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(store.Address, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RATING REPORT", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generated: "+generatedAt.Format("2006-01-02 15:04 MST"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(report *dto.OwnerDashboard) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Top: 6}),
		)
	}
	return row.New(16).Add(
		cell("AVERAGE RATING", formatAverage(report.Statistics.AverageRating)+" / 5"),
		cell("TOTAL RATINGS", fmt.Sprintf("%d", report.Statistics.TotalRatings)),
		cell("CONTACT", nonEmpty(report.Store.Email, "-")),
	)
}

// distributionRows draws one text bar per star value, highest first.
func distributionRows(stats dto.OwnerStatistics) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DISTRIBUTION", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for stars := entity.MaxRating; stars >= entity.MinRating; stars-- {
		count := stats.RatingDistribution[stars]
		rows = append(rows, row.New(5).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%d star", stars)+plural(stars), props.Text{Size: 8, Top: 0.5})),
			col.New(8).Add(text.New(bar(count, stats.TotalRatings), props.Text{Size: 8, Top: 0.5, Color: colorPrimary})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", count), props.Text{Size: 8, Align: align.Right, Top: 0.5})),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Customer", 4, align.Left),
		h("Email", 4, align.Left),
		h("Rating", 1, align.Center),
		h("Date", 3, align.Right),
	)
}

func customerRows(customers []dto.CustomerRating) []core.Row {
	if len(customers) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("No ratings yet", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
		))}
	}
	result := make([]core.Row, 0, len(customers))
	for _, c := range customers {
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(c.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(c.Email, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", c.Rating), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(c.RatedAt.Format("2006-01-02"), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func formatAverage(avg float64) string {
	return decimal.NewFromFloat(avg).StringFixed(1)
}

// bar renders count as a share of total, barWidth characters at 100%.
func bar(count, total int) string {
	if total == 0 || count == 0 {
		return ""
	}
	n := count * barWidth / total
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
