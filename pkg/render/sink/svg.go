// Package sink renders computed piano-roll layouts into concrete artifacts.
//
// Three sinks are provided: SVG (vector), HTML (a standalone page embedding
// the SVG, optionally live-reloading) and PNG (raster, via fogleman/gg).
// Every sink draws the same primitives in the same order — pitch bands, bar
// bands, beat lines, note rectangles, labels, title — so the artifacts only
// differ in medium, never in content. Sinks never recompute musical
// arithmetic; everything they need is in the layout.
package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/pianoroll/pkg/layout"
	"github.com/matzehuels/pianoroll/pkg/preset"
)

// Option configures the render sinks.
type Option func(*options)

type options struct {
	preset     preset.Preset
	liveReload bool
	stopButton bool
	scale      float64
}

// WithPreset sets the sizing/typography preset (Default() when omitted).
func WithPreset(p preset.Preset) Option {
	return func(o *options) { o.preset = p }
}

// WithLiveReload makes the HTML sink inject the auto-refresh script.
func WithLiveReload() Option {
	return func(o *options) { o.liveReload = true }
}

// WithStopReloadButton adds a button that stops the live reload interval.
// Only meaningful together with WithLiveReload.
func WithStopReloadButton() Option {
	return func(o *options) { o.stopButton = true }
}

// WithScale sets the PNG supersampling factor (default 1.0).
func WithScale(s float64) Option {
	return func(o *options) { o.scale = s }
}

func newOptions(opts ...Option) options {
	o := options{preset: preset.Default(), scale: 1.0}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l *layout.Layout, opts ...Option) []byte {
	o := newOptions(opts...)
	f := newFrame(l, o.preset)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.width, f.height, f.width, f.height)
	fmt.Fprintf(&buf, `<rect width="%.1f" height="%.1f" fill="white"/>`+"\n", f.width, f.height)
	fmt.Fprintf(&buf, `<clipPath id="plot"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>`+"\n",
		f.left, f.top, f.right-f.left, f.bottom-f.top)

	renderPitchBands(&buf, l, f)
	renderGrid(&buf, l, f)
	renderNotes(&buf, l, f)
	renderLabels(&buf, l, f, o.preset)
	renderChrome(&buf, l, f, o.preset)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderPitchBands draws the horizontal row shading, the underlay layer.
func renderPitchBands(buf *bytes.Buffer, l *layout.Layout, f frame) {
	for _, b := range l.PitchBands {
		y := f.y(float64(b.Pitch) + 1)
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="gray" fill-opacity="%.2f" stroke="black" stroke-opacity="0.3" stroke-width="1"/>`+"\n",
			f.left, y, f.right-f.left, f.pxPerRow, b.FillAlpha)
	}
}

// renderGrid draws the vertical bar bands and beat lines.
func renderGrid(buf *bytes.Buffer, l *layout.Layout, f frame) {
	for _, b := range l.BarBands {
		x := f.x(b.Start)
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="gray" fill-opacity="%.2f" stroke="black" stroke-opacity="0.5" stroke-width="2"/>`+"\n",
			x, f.top, (b.End-b.Start)*f.pxPerSecond, f.bottom-f.top, b.FillAlpha)
	}
	for _, line := range l.BeatLines {
		x := f.x(line.Time)
		fmt.Fprintf(buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="black" stroke-opacity="0.4" stroke-width="1"/>`+"\n",
			x, f.top, x, f.bottom)
	}
}

// renderNotes draws the note rectangles, clipped to the plot area so notes
// outside the visible window do not leak into the margins.
func renderNotes(buf *bytes.Buffer, l *layout.Layout, f frame) {
	buf.WriteString(`<g clip-path="url(#plot)">` + "\n")
	for _, n := range l.Notes {
		x, y, w, h := f.noteBox(n)
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="black" stroke-width="1"><title>pitch %d, velocity %d, %.2fs-%.2fs</title></rect>`+"\n",
			x, y, w, h, n.Color, n.Meta.Pitch, n.Meta.Velocity, n.Left, n.Right)
	}
	buf.WriteString("</g>\n")
}

// renderLabels draws the per-row pitch numbers along the left edge.
func renderLabels(buf *bytes.Buffer, l *layout.Layout, f frame, p preset.Preset) {
	for _, b := range l.PitchBands {
		y := f.y(float64(b.Pitch)+0.5) + p.LabelFontSize/3
		fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" text-anchor="end" font-size="%.1f" font-family="sans-serif">%s</text>`+"\n",
			f.left-4, y, p.LabelFontSize, b.Label)
	}
}

// renderChrome draws the title, axis labels and the plot outline.
func renderChrome(buf *bytes.Buffer, l *layout.Layout, f frame, p preset.Preset) {
	fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" font-size="%.1f" font-family="sans-serif">%s</text>`+"\n",
		f.left, p.TitleFontSize+2, p.TitleFontSize, l.Title)
	fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" text-anchor="middle" font-size="%.1f" font-family="sans-serif">time (SEC)</text>`+"\n",
		(f.left+f.right)/2, f.height-4, p.AxisLabelFontSize)
	fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" text-anchor="middle" font-size="%.1f" font-family="sans-serif" transform="rotate(-90 %.2f %.2f)">pitch (MIDI)</text>`+"\n",
		p.AxisLabelFontSize, (f.top+f.bottom)/2, p.AxisLabelFontSize, p.AxisLabelFontSize, (f.top+f.bottom)/2)
	fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="black" stroke-width="1"/>`+"\n",
		f.left, f.top, f.right-f.left, f.bottom-f.top)
}
