package sink

import (
	"github.com/matzehuels/pianoroll/pkg/layout"
	"github.com/matzehuels/pianoroll/pkg/preset"
)

// Plot area margins in pixels. The left margin leaves room for the pitch
// labels, the top for the title, the bottom for the time axis label.
const (
	marginRight = 50
)

// frame projects layout coordinates (seconds, pitch rows) onto pixels.
// The vertical axis is flipped: higher pitches sit higher on the canvas.
type frame struct {
	width  float64 // total canvas width
	height float64 // total canvas height

	left   float64 // plot area left edge
	top    float64 // plot area top edge
	right  float64 // plot area right edge
	bottom float64 // plot area bottom edge

	timeStart    float64
	pitchCeiling float64 // PitchMax + 1, the top row boundary

	pxPerSecond float64
	pxPerRow    float64
}

func newFrame(l *layout.Layout, p preset.Preset) frame {
	rows := l.Bounds.PitchMax + 1 - l.Bounds.PitchMin
	if rows < 1 {
		rows = 1
	}

	f := frame{
		width:  float64(p.Width),
		height: float64(p.PlotHeight(rows)),
	}
	f.left = 3*p.LabelFontSize + 10
	f.top = p.TitleFontSize + 12
	f.right = f.width - marginRight
	f.bottom = f.height - (p.AxisLabelFontSize + 16)

	span := l.Bounds.TimeEnd - l.Bounds.TimeStart
	if span <= 0 {
		span = 1
	}
	f.timeStart = l.Bounds.TimeStart
	f.pitchCeiling = float64(l.Bounds.PitchMax) + 1
	f.pxPerSecond = (f.right - f.left) / span
	f.pxPerRow = (f.bottom - f.top) / float64(rows)
	return f
}

// x projects a time in seconds onto the horizontal pixel axis.
func (f frame) x(t float64) float64 {
	return f.left + (t-f.timeStart)*f.pxPerSecond
}

// y projects a pitch-axis value onto the vertical pixel axis.
func (f frame) y(v float64) float64 {
	return f.top + (f.pitchCeiling-v)*f.pxPerRow
}

// noteBox returns the pixel rectangle of a note. Top/Bottom follow the
// inverted row convention of the layout, so the vertical extent is ordered
// here before projection.
func (f frame) noteBox(n layout.NoteRect) (x, y, w, h float64) {
	vLow, vHigh := n.Top, n.Bottom
	if vLow > vHigh {
		vLow, vHigh = vHigh, vLow
	}
	x = f.x(n.Left)
	y = f.y(vHigh)
	w = (n.Right - n.Left) * f.pxPerSecond
	h = (vHigh - vLow) * f.pxPerRow
	return x, y, w, h
}
