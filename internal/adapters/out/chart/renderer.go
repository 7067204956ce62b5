// Package chart renders the daily sales series as a PNG line chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"orderbot/internal/core/domain/services"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// FileName is the name under which the chart is delivered.
const FileName = "sales.png"

// ErrNotEnoughPoints is returned for series that cannot form a line.
var ErrNotEnoughPoints = errors.New("at least two days of sales are needed for a chart")

// Renderer draws sales charts with fixed labels.
type Renderer struct {
	title  string
	yLabel string
	width  int
	height int
}

// NewRenderer creates a renderer with the default labels and size.
func NewRenderer() *Renderer {
	return &Renderer{
		title:  "Sales by day",
		yLabel: "Sum, RUB",
		width:  1024,
		height: 512,
	}
}

// RenderPNG draws series, which must be sorted by day, and returns the PNG bytes.
func (r *Renderer) RenderPNG(series []services.DailyTotal) ([]byte, error) {
	if len(series) < 2 {
		return nil, ErrNotEnoughPoints
	}

	xs := make([]time.Time, 0, len(series))
	ys := make([]float64, 0, len(series))
	top := 0.0
	for _, p := range series {
		xs = append(xs, p.Day)
		ys = append(ys, p.Total)
		top = max(top, p.Total)
	}
	if top == 0 {
		top = 1
	}

	graph := gochart.Chart{
		Title:  r.title,
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeValueFormatterWithFormat(time.DateOnly),
		},
		YAxis: gochart.YAxis{
			Name:  r.yLabel,
			Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name: "Sales",
				Style: gochart.Style{
					StrokeWidth: 2,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render sales chart: %w", err)
	}
	return buf.Bytes(), nil
}
