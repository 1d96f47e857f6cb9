package plotter

import (
	"fmt"
	"math"
	"strings"
)

// Bar is one bar in a group chart: a mean with an optional error whisker.
// A NaN Std (single-sample group) draws no whisker.
type Bar struct {
	Label string
	Mean  float64
	Std   float64
	N     int
	Color string
}

// BarChart renders a bar chart of group means with error bars and n labels,
// one bar per treatment group.
type BarChart struct {
	Width  float64
	Height float64
	Title  string
	YLabel string
	Bars   []Bar
}

// NewBarChart creates a bar chart with the given dimensions.
func NewBarChart(width, height float64) *BarChart {
	return &BarChart{Width: width, Height: height}
}

// SetTitle sets the chart title.
func (c *BarChart) SetTitle(t string) *BarChart {
	c.Title = t
	return c
}

// SetYLabel sets the Y-axis label.
func (c *BarChart) SetYLabel(s string) *BarChart {
	c.YLabel = s
	return c
}

// AddBar appends one group bar. If color is empty a palette color is used.
func (c *BarChart) AddBar(label string, mean, std float64, n int, color string) *BarChart {
	if color == "" {
		colors := []string{"#2ecc71", "#3498db", "#e74c3c", "#f39c12", "#9b59b6"}
		color = colors[len(c.Bars)%len(colors)]
	}
	c.Bars = append(c.Bars, Bar{Label: label, Mean: mean, Std: std, N: n, Color: color})
	return c
}

// Render generates the SVG string.
func (c *BarChart) Render() string {
	margin := map[string]float64{"top": 40, "right": 20, "bottom": 50, "left": 60}
	pw := c.Width - margin["left"] - margin["right"]
	ph := c.Height - margin["top"] - margin["bottom"]

	// Y range covers mean+std with headroom; baseline at zero.
	ymax := 1.0
	for _, b := range c.Bars {
		top := b.Mean
		if !math.IsNaN(b.Std) {
			top += b.Std
		}
		if top > ymax {
			ymax = top
		}
	}
	ymax *= 1.15

	sy := func(y float64) float64 {
		return margin["top"] + ph - (y/ymax)*ph
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`,
		int(c.Width), int(c.Height)))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="#f8f9fa" rx="8"/>`,
		int(c.Width), int(c.Height)))

	if c.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" font-weight="bold">%s</text>`,
			c.Width/2, escape(c.Title)))
	}

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		margin["left"], margin["top"], margin["left"], margin["top"]+ph))
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		margin["left"], margin["top"]+ph, margin["left"]+pw, margin["top"]+ph))

	if c.YLabel != "" {
		sb.WriteString(fmt.Sprintf(`<text x="15" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" transform="rotate(-90, 15, %f)">%s</text>`,
			margin["top"]+ph/2, margin["top"]+ph/2, escape(c.YLabel)))
	}

	// Y ticks
	numTicks := 5
	for i := 0; i <= numTicks; i++ {
		y := ymax * float64(i) / float64(numTicks)
		py := sy(y)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1"/>`,
			margin["left"]-5, py, margin["left"], py))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="end" font-family="Arial, sans-serif" font-size="10">%.1f</text>`,
			margin["left"]-10, py+4, y))
	}

	if len(c.Bars) == 0 {
		sb.WriteString(`</svg>`)
		return sb.String()
	}

	slot := pw / float64(len(c.Bars))
	barWidth := slot * 0.6

	for i, b := range c.Bars {
		cx := margin["left"] + slot*(float64(i)+0.5)
		x := cx - barWidth/2
		top := sy(b.Mean)

		sb.WriteString(fmt.Sprintf(`<rect x="%f" y="%f" width="%f" height="%f" fill="%s" opacity="0.85" stroke="#333"/>`,
			x, top, barWidth, margin["top"]+ph-top, b.Color))

		// Error whisker
		if !math.IsNaN(b.Std) && b.Std > 0 {
			yHi := sy(b.Mean + b.Std)
			yLo := sy(math.Max(0, b.Mean-b.Std))
			sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1.5"/>`,
				cx, yHi, cx, yLo))
			sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1.5"/>`,
				cx-5, yHi, cx+5, yHi))
			sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1.5"/>`,
				cx-5, yLo, cx+5, yLo))
		}

		// n label above the whisker
		labelY := sy(b.Mean)
		if !math.IsNaN(b.Std) {
			labelY = sy(b.Mean + b.Std)
		}
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="10">n=%d</text>`,
			cx, labelY-6, b.N))

		// Group label
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12">%s</text>`,
			cx, margin["top"]+ph+20, escape(b.Label)))
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}
