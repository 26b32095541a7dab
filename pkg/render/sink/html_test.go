package sink

import (
	"strings"
	"testing"
)

func TestRenderHTML(t *testing.T) {
	l := testLayout(t)
	out := string(RenderHTML(l))

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("output does not start with a doctype: %.60s", out)
	}
	if !strings.Contains(out, "<svg") {
		t.Error("output does not embed the svg artifact")
	}
	if !strings.Contains(out, "<title>"+l.Title+"</title>") {
		t.Error("output missing the page title")
	}
	if strings.Contains(out, "liveReloadInterval") {
		t.Error("live-reload script injected without WithLiveReload")
	}
}

func TestRenderHTMLEscapesTitle(t *testing.T) {
	l := testLayout(t)
	l.Title = `Piano Roll <&>`
	out := string(RenderHTML(l))
	if !strings.Contains(out, "<title>Piano Roll &lt;&amp;&gt;</title>") {
		t.Error("page title not escaped")
	}
}

func TestRenderHTMLLiveReload(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		wantScript bool
		wantButton bool
	}{
		{name: "plain", opts: nil},
		{name: "live reload", opts: []Option{WithLiveReload()}, wantScript: true},
		{
			name:       "live reload with stop button",
			opts:       []Option{WithLiveReload(), WithStopReloadButton()},
			wantScript: true,
			wantButton: true,
		},
		{name: "stop button alone does nothing", opts: []Option{WithStopReloadButton()}},
	}

	l := testLayout(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(RenderHTML(l, tt.opts...))
			if got := strings.Contains(out, "window.setInterval"); got != tt.wantScript {
				t.Errorf("script present = %v, want %v", got, tt.wantScript)
			}
			if got := strings.Contains(out, "<button"); got != tt.wantButton {
				t.Errorf("button present = %v, want %v", got, tt.wantButton)
			}
		})
	}
}
