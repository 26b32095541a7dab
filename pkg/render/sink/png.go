package sink

import (
	"bytes"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/pianoroll/pkg/errors"
	"github.com/matzehuels/pianoroll/pkg/layout"
)

// RenderPNG rasterizes the layout. WithScale supersamples the canvas for
// sharper output (2.0 doubles the pixel density).
func RenderPNG(l *layout.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	f := newFrame(l, o.preset)

	dc := gg.NewContext(int(f.width*o.scale), int(f.height*o.scale))
	dc.Scale(o.scale, o.scale)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	drawPitchBands(dc, l, f)
	drawGrid(dc, l, f)
	drawNotes(dc, l, f)
	if err := drawText(dc, l, f, o); err != nil {
		return nil, err
	}

	// Plot outline.
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(f.left, f.top, f.right-f.left, f.bottom-f.top)
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawPitchBands(dc *gg.Context, l *layout.Layout, f frame) {
	for _, b := range l.PitchBands {
		y := f.y(float64(b.Pitch) + 1)
		dc.DrawRectangle(f.left, y, f.right-f.left, f.pxPerRow)
		dc.SetRGBA(0.5, 0.5, 0.5, b.FillAlpha)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 0.3)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

func drawGrid(dc *gg.Context, l *layout.Layout, f frame) {
	for _, b := range l.BarBands {
		dc.DrawRectangle(f.x(b.Start), f.top, (b.End-b.Start)*f.pxPerSecond, f.bottom-f.top)
		dc.SetRGBA(0.5, 0.5, 0.5, b.FillAlpha)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 0.5)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
	for _, line := range l.BeatLines {
		x := f.x(line.Time)
		dc.SetRGBA(0, 0, 0, 0.4)
		dc.SetLineWidth(1)
		dc.DrawLine(x, f.top, x, f.bottom)
		dc.Stroke()
	}
}

func drawNotes(dc *gg.Context, l *layout.Layout, f frame) {
	// Clip so off-window notes stay out of the margins, mirroring the SVG
	// clip path.
	dc.Push()
	dc.DrawRectangle(f.left, f.top, f.right-f.left, f.bottom-f.top)
	dc.Clip()
	for _, n := range l.Notes {
		x, y, w, h := f.noteBox(n)
		dc.DrawRectangle(x, y, w, h)
		dc.SetHexColor(n.Color)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 1)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
	dc.ResetClip()
	dc.Pop()
}

func drawText(dc *gg.Context, l *layout.Layout, f frame, o options) error {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "parse embedded font")
	}
	face := func(size float64) font.Face {
		return truetype.NewFace(ttf, &truetype.Options{Size: size})
	}

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(face(o.preset.LabelFontSize))
	for _, b := range l.PitchBands {
		dc.DrawStringAnchored(b.Label, f.left-4, f.y(float64(b.Pitch)+0.5), 1, 0.35)
	}

	dc.SetFontFace(face(o.preset.TitleFontSize))
	dc.DrawString(l.Title, f.left, o.preset.TitleFontSize+2)

	dc.SetFontFace(face(o.preset.AxisLabelFontSize))
	dc.DrawStringAnchored("time (SEC)", (f.left+f.right)/2, f.height-4, 0.5, 0)
	return nil
}
