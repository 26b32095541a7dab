package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

// Both commands expose the full layout configuration surface plus their
// rendering knobs, so switching between plot and serve never changes which
// flags apply.
func TestCommandFlagSurface(t *testing.T) {
	configNames := []string{
		"qpm",
		"pitch-range-start", "pitch-range-stop",
		"bar-range-start", "bar-range-stop",
		"time-range-start", "time-range-stop",
		"max-length-bars", "max-length-seconds",
		"time-scale", "coloring", "show-velocity", "time-signature",
		"bar-fill-alphas", "no-bar-grid", "no-beat-grid",
		"preset", "preset-file",
		"png-scale",
	}

	tests := []struct {
		name  string
		cmd   *cobra.Command
		extra []string
	}{
		{name: "plot", cmd: newPlotCmd(), extra: []string{"output", "format", "live-reload", "show"}},
		{name: "serve", cmd: newServeCmd(), extra: []string{"addr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range append(configNames, tt.extra...) {
				if tt.cmd.Flags().Lookup(name) == nil {
					t.Errorf("command %s missing flag --%s", tt.name, name)
				}
			}
		})
	}
}

// Optional overrides only become pointers when their flag was actually set,
// so a zero on the command line is distinguishable from an absent flag.
func TestConfigFlagsOverrides(t *testing.T) {
	var f configFlags
	cmd := &cobra.Command{}
	f.bind(cmd)

	if err := cmd.Flags().Set("pitch-range-start", "0"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("time-range-stop", "7.5"); err != nil {
		t.Fatal(err)
	}

	cfg, err := f.config(cmd)
	if err != nil {
		t.Fatalf("config() error = %v", err)
	}
	if cfg.PitchRangeStart == nil || *cfg.PitchRangeStart != 0 {
		t.Errorf("PitchRangeStart = %v, want explicit 0", cfg.PitchRangeStart)
	}
	if cfg.TimeRangeStop == nil || *cfg.TimeRangeStop != 7.5 {
		t.Errorf("TimeRangeStop = %v, want 7.5", cfg.TimeRangeStop)
	}
	if cfg.PitchRangeStop != nil || cfg.BarRangeStart != nil || cfg.TimeRangeStart != nil {
		t.Error("unset flags produced overrides")
	}
}
