package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/pianoroll/pkg/errors"
	"github.com/matzehuels/pianoroll/pkg/pipeline"
	"github.com/matzehuels/pianoroll/pkg/score"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configFlags
	addr     string
	pngScale float64
}

// newServeCmd creates the serve command: a local preview server that
// re-parses and re-renders the MIDI file on every request. Combined with the
// injected live-reload script the browser picks up file changes within a
// couple of seconds, which makes it useful while a file is being generated
// or edited.
func newServeCmd() *cobra.Command {
	opts := serveOpts{
		addr:     "localhost:8080",
		pngScale: pipeline.DefaultPNGScale,
	}

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live-reloading piano-roll preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args[0], &opts)
		},
	}

	opts.configFlags.bind(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "PNG supersampling factor")

	return cmd
}

func runServe(cmd *cobra.Command, file string, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}
	sizing, err := opts.sizing()
	if err != nil {
		return err
	}
	runner, err := pipeline.NewRunner(pipeline.Options{
		Config:     cfg,
		Preset:     sizing,
		LiveReload: true,
		PNGScale:   opts.pngScale,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	// Fail fast on unreadable input before binding the port. Layout
	// failures are NOT checked here: the file may legitimately become
	// valid later while being generated.
	if _, err := score.ReadFile(file); err != nil {
		return err
	}

	render := func(w http.ResponseWriter, format, contentType string) {
		sc, err := score.ReadFile(file)
		if err != nil {
			http.Error(w, apperrors.UserMessage(err), http.StatusUnprocessableEntity)
			return
		}
		l, err := runner.Plot(sc)
		if err != nil {
			http.Error(w, apperrors.UserMessage(err), http.StatusUnprocessableEntity)
			return
		}
		data, err := runner.Render(l, format)
		if err != nil {
			http.Error(w, apperrors.UserMessage(err), http.StatusInternalServerError)
			return
		}
		// Every response is a fresh render; the token lets clients and
		// proxies tell them apart.
		w.Header().Set("X-Render-ID", uuid.NewString())
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		render(w, pipeline.FormatHTML, "text/html; charset=utf-8")
	})
	r.Get("/roll.svg", func(w http.ResponseWriter, _ *http.Request) {
		render(w, pipeline.FormatSVG, "image/svg+xml")
	})
	r.Get("/roll.png", func(w http.ResponseWriter, _ *http.Request) {
		render(w, pipeline.FormatPNG, "image/png")
	})

	srv := &http.Server{Addr: opts.addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("serving preview", "file", file, "url", "http://"+opts.addr+"/")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
