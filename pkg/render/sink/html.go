package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/pianoroll/pkg/layout"
)

// liveReloadScript periodically refreshes the page so an artifact that is
// being re-rendered on disk (or served by the preview server) stays current.
// The interval handle is a global on purpose: the stop button clears it.
const liveReloadScript = `<script type="text/javascript">
  var liveReloadInterval = window.setInterval(function () {
    location.reload();
  }, 2000);
</script>`

const stopReloadButton = `<button onclick="clearInterval(liveReloadInterval)">stop live reload</button>`

// RenderHTML renders the layout as a standalone HTML page embedding the SVG
// artifact. With WithLiveReload the page refreshes itself every two seconds;
// WithStopReloadButton adds a button that cancels the refresh interval.
func RenderHTML(l *layout.Layout, opts ...Option) []byte {
	o := newOptions(opts...)
	svg := RenderSVG(l, opts...)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&buf, "<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(l.Title))
	if o.liveReload {
		buf.WriteString(liveReloadScript)
		buf.WriteString("\n")
	}
	buf.WriteString("</head>\n<body>\n")
	if o.liveReload && o.stopButton {
		buf.WriteString(stopReloadButton)
		buf.WriteString("\n")
	}
	buf.Write(svg)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
