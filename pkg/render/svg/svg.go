package svg

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/schedule"
	"github.com/Bravo-Actual/timegrid/pkg/timeline"
)

const boxCSS = `
    .box { stroke: #ffffff; stroke-width: 1; transition: filter 0.15s ease; }
    .box:hover { filter: brightness(1.08); }
    .box.highlight { stroke: #1f2937; stroke-width: 2.5; }
    .label { font-family: -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif; fill: #ffffff; pointer-events: none; }
    .header { font-family: -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif; fill: #374151; }
    .grid { stroke: #e5e7eb; stroke-width: 1; }
    .grid-major { stroke: #d1d5db; stroke-width: 1; }`

const (
	headerHeight = 28.0
	gutterWidth  = 46.0
	labelSize    = 11.0
	smallSize    = 9.0
)

var defaultPalette = []string{
	"#4f6bed", "#2e9e6b", "#d97706", "#b5489b", "#0e8a8a", "#8a5cf6",
}

type Option func(*renderer)

type renderer struct {
	grid      bool
	headers   bool
	highlight map[string]bool
	palette   []string
	scale     float64
	loc       *time.Location
}

// WithGrid draws hour lines and day separators behind the boxes.
func WithGrid() Option { return func(r *renderer) { r.grid = true } }

// WithHeaders adds the column/day header row and the label gutter.
func WithHeaders() Option { return func(r *renderer) { r.headers = true } }

// WithHighlight outlines the given events.
func WithHighlight(ids ...string) Option {
	return func(r *renderer) {
		for _, id := range ids {
			r.highlight[id] = true
		}
	}
}

// WithPalette replaces the default box colors. Events with an explicit
// color metadata keep it regardless of the palette.
func WithPalette(colors ...string) Option {
	return func(r *renderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// WithScale multiplies all coordinates and font sizes.
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts ...Option) renderer {
	r := renderer{highlight: make(map[string]bool), palette: defaultPalette, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Render draws a composed layout as a standalone SVG document.
func Render(l schedule.Layout, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	if _, err := schedule.ParseView(string(l.View)); err != nil {
		return nil, err
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"scale must be a positive finite number, got %v", r.scale)
	}
	if loc, err := time.LoadLocation(l.Zone); err == nil {
		r.loc = loc
	} else {
		r.loc = time.UTC
	}

	offX, offY := 0.0, 0.0
	if r.headers {
		offX, offY = gutterWidth, headerHeight
	}
	width := l.Width*r.scale + offX
	height := l.Height*r.scale + offY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", boxCSS)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="#ffffff"/>`+"\n", width, height)

	if r.grid {
		if l.IsVertical() {
			r.renderColumnGrid(&buf, l, offX, offY)
		} else {
			r.renderTimelineGrid(&buf, l, offX, offY)
		}
	}
	for _, b := range l.Boxes {
		r.renderBox(&buf, l, b, offX, offY)
	}
	if r.headers {
		if l.IsVertical() {
			r.renderColumnHeaders(&buf, l)
		} else {
			r.renderTimelineHeaders(&buf, l)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r *renderer) renderBox(buf *bytes.Buffer, l schedule.Layout, b schedule.Box, offX, offY float64) {
	x := offX + b.X*r.scale
	y := offY + b.Y*r.scale
	w := b.W * r.scale
	h := b.H * r.scale

	class := "box"
	if r.highlight[b.ID] {
		class = "box highlight"
	}
	fill := b.Color
	if fill == "" {
		fill = r.palette[paletteIndex(b.ID, len(r.palette))]
	}

	// Zero-extent boxes (compressed or instant events) keep a 2px marker
	// so they stay visible.
	drawW, drawH := w, h
	if l.IsVertical() {
		drawH = math.Max(drawH, 2)
	} else {
		drawW = math.Max(drawW, 2)
	}

	fmt.Fprintf(buf, `  <g id="evt-%s">`+"\n", escapeXML(b.ID))
	fmt.Fprintf(buf, `    <title>%s %s</title>`+"\n",
		escapeXML(b.Label), r.timeRange(b))
	fmt.Fprintf(buf, `    <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s"/>`+"\n",
		class, x, y, drawW, drawH, escapeXML(fill))

	if l.IsVertical() {
		r.renderColumnLabel(buf, b, x, y, w, h)
	} else {
		r.renderBandLabel(buf, b, x, y, w, h)
	}
	buf.WriteString("  </g>\n")
}

func (r *renderer) renderColumnLabel(buf *bytes.Buffer, b schedule.Box, x, y, w, h float64) {
	size := labelSize * r.scale
	if h < size+4 {
		return
	}
	label := truncate(b.Label, size, w-8)
	if label == "" {
		return
	}
	fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`+"\n",
		x+4, y+size+2, size, escapeXML(label))

	small := smallSize * r.scale
	if h >= size+small+10 {
		fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.1f" opacity="0.85">%s</text>`+"\n",
			x+4, y+size+small+6, small, r.timeRange(b))
	}
}

func (r *renderer) renderBandLabel(buf *bytes.Buffer, b schedule.Box, x, y, w, h float64) {
	size := labelSize * r.scale
	label := truncate(b.Label, size, w-8)
	if label == "" {
		return
	}
	fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`+"\n",
		x+4, y+h/2+size*0.35, size, escapeXML(label))
}

func (r *renderer) renderColumnGrid(buf *bytes.Buffer, l schedule.Layout, offX, offY float64) {
	startH, endH := visibleRange(l.Geometry)
	right := offX + l.Width*r.scale
	bottom := offY + l.Height*r.scale

	for h := startH; h <= endH; h++ {
		y := offY + float64(h-startH)*l.Geometry.PixelsPerHour*r.scale
		fmt.Fprintf(buf, `  <line class="grid" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			offX, y, right, y)
	}
	for _, c := range l.Columns {
		x := offX + c.X*r.scale
		fmt.Fprintf(buf, `  <line class="grid-major" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			x, offY, x, bottom)
	}
	fmt.Fprintf(buf, `  <line class="grid-major" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		right, offY, right, bottom)
}

func (r *renderer) renderColumnHeaders(buf *bytes.Buffer, l schedule.Layout) {
	startH, endH := visibleRange(l.Geometry)
	for h := startH; h < endH; h++ {
		y := headerHeight + float64(h-startH)*l.Geometry.PixelsPerHour*r.scale
		fmt.Fprintf(buf, `  <text class="header" x="%.1f" y="%.1f" font-size="%.1f" text-anchor="end">%02d:00</text>`+"\n",
			gutterWidth-6, y+3, smallSize, h)
	}
	for _, c := range l.Columns {
		cx := gutterWidth + (c.X+c.Width/2)*r.scale
		fmt.Fprintf(buf, `  <text class="header" x="%.1f" y="18" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
			cx, labelSize, escapeXML(c.Label))
	}
}

func (r *renderer) renderTimelineGrid(buf *bytes.Buffer, l schedule.Layout, offX, offY float64) {
	dayW := l.Geometry.VisibleHours() * l.Geometry.PixelsPerHour * r.scale
	if dayW <= 0 {
		return
	}
	days := int(math.Round(l.Width * r.scale / dayW))
	bottom := offY + l.Height*r.scale
	for i := 0; i <= days; i++ {
		x := offX + float64(i)*dayW
		fmt.Fprintf(buf, `  <line class="grid-major" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			x, offY, x, bottom)
	}
}

func (r *renderer) renderTimelineHeaders(buf *bytes.Buffer, l schedule.Layout) {
	dayW := l.Geometry.VisibleHours() * l.Geometry.PixelsPerHour * r.scale
	if dayW > 0 {
		days := int(math.Round(l.Width * r.scale / dayW))
		for i := 0; i < days; i++ {
			label := l.From.AddDate(0, 0, i).Format("Mon 02")
			x := gutterWidth + (float64(i)+0.5)*dayW
			fmt.Fprintf(buf, `  <text class="header" x="%.1f" y="18" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
				x, labelSize, escapeXML(label))
		}
	}
	for _, band := range l.Bands {
		label := truncate(band.Label, smallSize, gutterWidth-8)
		if label == "" {
			continue
		}
		y := headerHeight + (band.Y+band.Height/2)*r.scale + 3
		fmt.Fprintf(buf, `  <text class="header" x="4" y="%.1f" font-size="%.1f">%s</text>`+"\n",
			y, smallSize, escapeXML(label))
	}
}

func (r *renderer) timeRange(b schedule.Box) string {
	return b.Start.In(r.loc).Format("15:04") + "-" + b.End.In(r.loc).Format("15:04")
}

func visibleRange(g timeline.Geometry) (int, int) {
	if g.Hours != nil {
		return g.Hours.Start, g.Hours.End
	}
	return 0, 24
}

func paletteIndex(id string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % uint32(n))
}
