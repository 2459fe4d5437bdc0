// Package svg renders a project's timeline to a standalone SVG using
// the same geometry the interactive view computes, so the exported
// picture matches what the TUI shows.
package svg

import (
	"fmt"
	"strings"
	"time"

	"github.com/ptarrant/phaseline/internal/timeline"
)

// Options controls rendering. Zero values fall back to defaults.
type Options struct {
	Title      string
	Now        time.Time // today marker; zero suppresses it
	BarHeight  int
	RowGap     int
	HeaderH    int
	FontFamily string
}

const (
	defaultBarHeight  = 28
	defaultRowGap     = 12
	defaultHeaderH    = 48
	defaultFontFamily = "Helvetica, Arial, sans-serif"
	marginLeft        = 16
	marginRight       = 16
	marginBottom      = 24
	labelPad          = 6
	defaultBarColor   = "#3b82f6"
)

func (o Options) withDefaults() Options {
	if o.BarHeight == 0 {
		o.BarHeight = defaultBarHeight
	}
	if o.RowGap == 0 {
		o.RowGap = defaultRowGap
	}
	if o.HeaderH == 0 {
		o.HeaderH = defaultHeaderH
	}
	if o.FontFamily == "" {
		o.FontFamily = defaultFontFamily
	}
	return o
}

// Render draws the items against the viewport, one row per item in
// start-date order, with grid lines and axis labels from the same grid
// generator the interactive view uses.
func Render(items []timeline.Item, vp timeline.Viewport, opts Options) (string, error) {
	if !vp.Valid() {
		return "", fmt.Errorf("invalid viewport")
	}
	opts = opts.withDefaults()

	rows := sortedByStart(items)
	width := int(vp.Width()) + marginLeft + marginRight
	chartTop := opts.HeaderH
	chartHeight := len(rows) * (opts.BarHeight + opts.RowGap)
	if chartHeight == 0 {
		chartHeight = opts.BarHeight
	}
	height := chartTop + chartHeight + marginBottom

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height)
	b.WriteString(`<defs><style>
.title { font-family: ` + opts.FontFamily + `; font-size: 16px; font-weight: bold; fill: #1f2937; }
.axis { font-family: ` + opts.FontFamily + `; font-size: 11px; fill: #6b7280; }
.bar-label { font-family: ` + opts.FontFamily + `; font-size: 12px; fill: #ffffff; }
.grid-minor { stroke: #e5e7eb; stroke-width: 1; }
.grid-major { stroke: #9ca3af; stroke-width: 1; }
.today { stroke: #ef4444; stroke-width: 2; stroke-dasharray: 4 3; }
</style></defs>` + "\n")
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")

	if opts.Title != "" {
		fmt.Fprintf(&b, `<text x="%d" y="24" class="title">%s</text>`+"\n", marginLeft, escape(opts.Title))
	}

	chartBottom := chartTop + chartHeight
	for _, gl := range timeline.GridLines(vp, nil) {
		x := marginLeft + int(gl.X)
		class := "grid-minor"
		if gl.Major {
			class = "grid-major"
		}
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" class="%s"/>`+"\n", x, chartTop, x, chartBottom, class)
		if gl.Label != "" {
			fmt.Fprintf(&b, `<text x="%d" y="%d" class="axis">%s</text>`+"\n", x+3, chartTop-6, escape(gl.Label))
		}
	}

	if !opts.Now.IsZero() {
		today := timeline.Midnight(opts.Now)
		if !today.Before(vp.Start) && !today.After(vp.End) {
			x := marginLeft + int(float64(timeline.DaysBetween(vp.Start, today))*vp.PixelsPerDay)
			fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" class="today"/>`+"\n", x, chartTop, x, chartBottom)
		}
	}

	for i, it := range rows {
		left, w := timeline.ItemPosition(it, vp)
		x := marginLeft + int(left)
		y := chartTop + i*(opts.BarHeight+opts.RowGap) + opts.RowGap/2
		color := it.Color
		if color == "" {
			color = defaultBarColor
		}
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s"/>`+"\n",
			x, y, int(w), opts.BarHeight, escape(color))
		fmt.Fprintf(&b, `<text x="%d" y="%d" class="bar-label">%s</text>`+"\n",
			x+labelPad, y+opts.BarHeight/2+4, escape(it.Name))
	}

	b.WriteString("</svg>\n")
	return b.String(), nil
}

func sortedByStart(items []timeline.Item) []timeline.Item {
	out := make([]timeline.Item, len(items))
	copy(out, items)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Start.Before(out[j-1].Start); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
