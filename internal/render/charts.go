package render

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"numus/internal/core"
)

// Chart sizes in pixels.
const (
	DonutSize   = 280
	TrendWidth  = 640
	TrendHeight = 300
)

// Chart kinds.
const (
	KindDonut = "donut"
	KindLine  = "line"
)

// LegendItem pairs a category with its slice colour.
type LegendItem struct {
	Label string
	Color string
}

// Chart is one rendered chart bound to a surface.
type Chart struct {
	Kind   string
	SVG    []byte
	Legend []LegendItem
	// Empty charts have no SVG; the page shows a placeholder instead.
	Empty bool

	destroyed bool
}

// Destroy releases the rendered output. A destroyed chart renders nothing.
func (c *Chart) Destroy() {
	c.SVG = nil
	c.Legend = nil
	c.destroyed = true
}

func (c *Chart) Destroyed() bool { return c.destroyed }

// EmptyChart is the placeholder used when a chart has nothing to show or
// could not be rendered.
func EmptyChart(kind string) *Chart {
	return &Chart{Kind: kind, Empty: true}
}

// CategoryChart renders the per-category donut with one palette colour
// per slice, in category order.
func CategoryChart(categories []core.CategoryAmount) (*Chart, error) {
	colors := Colors(len(categories))
	c := &Chart{Kind: KindDonut}

	var total int64
	values := make([]chart.Value, 0, len(categories))
	for i, cat := range categories {
		c.Legend = append(c.Legend, LegendItem{Label: cat.Name, Color: colors[i]})
		if cat.Amount.Cents <= 0 {
			continue
		}
		total += cat.Amount.Cents
		// Slice labels stay out of the SVG; the legend names categories.
		values = append(values, chart.Value{
			Value: cat.Amount.Units(),
			Style: chart.Style{
				FillColor:   hexColor(colors[i]),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontColor:   drawing.ColorTransparent,
			},
		})
	}
	if total == 0 {
		c.Empty = true
		return c, nil
	}

	donut := chart.DonutChart{
		Width:  DonutSize,
		Height: DonutSize,
		Values: values,
	}
	var buf bytes.Buffer
	if err := donut.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render category chart: %w", err)
	}
	c.SVG = buf.Bytes()
	return c, nil
}

// TrendChart renders one line per transaction type across months, with
// month labels and currency ticks from f.
func TrendChart(months []core.MonthBucket, f *Formatter) (*Chart, error) {
	c := &Chart{Kind: KindLine, Legend: []LegendItem{
		{Label: "Recebido", Color: ColorIncome},
		{Label: "Gasto", Color: ColorExpense},
		{Label: "Investido", Color: ColorInvest},
	}}
	if len(months) == 0 {
		c.Empty = true
		return c, nil
	}

	xs := make([]float64, len(months))
	income := make([]float64, len(months))
	expense := make([]float64, len(months))
	invest := make([]float64, len(months))
	ticks := make([]chart.Tick, len(months))
	maxY := 0.0
	for i, m := range months {
		xs[i] = float64(i)
		income[i] = m.Income.Units()
		expense[i] = m.Expense.Units()
		invest[i] = m.Invest.Units()
		ticks[i] = chart.Tick{Value: float64(i), Label: f.MonthLabel(m.Key)}
		for _, v := range []float64{income[i], expense[i], invest[i]} {
			if v > maxY {
				maxY = v
			}
		}
	}
	// go-chart needs two distinct x values per series: a single month
	// is drawn as a flat segment with its tick centred.
	maxX := float64(len(months) - 1)
	if len(months) == 1 {
		maxX = 1
		xs = []float64{0, 1}
		income = []float64{income[0], income[0]}
		expense = []float64{expense[0], expense[0]}
		invest = []float64{invest[0], invest[0]}
		ticks[0].Value = 0.5
	}
	if maxY <= 0 {
		maxY = 1
	}

	graph := chart.Chart{
		Width:  TrendWidth,
		Height: TrendHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxX},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
			ValueFormatter: func(v interface{}) string {
				if vf, ok := v.(float64); ok {
					return f.Currency(core.Money{Cents: int64(vf * 100)})
				}
				return ""
			},
		},
		Series: []chart.Series{
			series("Recebido", xs, income, ColorIncome),
			series("Gasto", xs, expense, ColorExpense),
			series("Investido", xs, invest, ColorInvest),
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	c.SVG = buf.Bytes()
	return c, nil
}

func series(name string, xs, ys []float64, color string) chart.ContinuousSeries {
	col := hexColor(color)
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: col,
			StrokeWidth: 2,
			FillColor:   col.WithAlpha(30),
		},
	}
}
