package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/romangod6/gin-sitemap/internal/api"
)

const shutdownTimeout = 10 * time.Second

// doServe serves the application with the sitemap endpoint attached until ctx
// is cancelled by SIGINT or SIGTERM.
// Returns exit code (0 = success, 1 = error).
func doServe(ctx context.Context, args []string, _, stderr io.Writer) int {
	fs := newFlagSet("serve", stderr, "(--config PATH | --app NAME --base_url URL) [--port N] [options]")
	var flags appFlags
	flags.register(fs)
	port := fs.Int("port", 0, "Port to listen on (default: server.port from config, 8080)")

	if code, done := parseFlags(fs, expandMultiValue(args, "exclude-patterns"), stderr); done {
		return code
	}

	cfg, err := flags.resolveConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log, closeLog, err := newLogger(cfg.LogLevel, flags.logDir, "serve", stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	app, sm, cleanup, err := build(cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	if err := sm.Attach(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	server := api.NewServer(cfg.Server.Port, app, log)
	if err := runServer(ctx, server, log); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type runnable interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// runServer starts server and shuts it down gracefully once ctx is done.
func runServer(ctx context.Context, server runnable, log logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("Server shut down gracefully")
	return nil
}
