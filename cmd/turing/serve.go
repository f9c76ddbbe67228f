package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/turing/internal/presentation/tui"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the loaded machines over a JSON API. The stateless /simulate
routes pass the run state back and forth; /sessions keeps it server side,
in memory by default, in --session-dir, or in redis with --redis-addr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		stepLimit, _ := cmd.Flags().GetInt("step-limit")
		cfg := config(cmd)
		if v, _ := cmd.Flags().GetString("session-dir"); v != "" {
			cfg.SessionDir = v
		}
		if v, _ := cmd.Flags().GetString("redis-addr"); v != "" {
			cfg.RedisAddr = v
		}

		app, err := openApp(cmd, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		sessions, err := app.Sessions(ctx)
		if err != nil {
			return err
		}

		handler, err := httpAdapter.NewHandler(app.Sim,
			httpAdapter.WithSessions(sessions),
			httpAdapter.WithMetrics(app.Metrics.Handler()),
			httpAdapter.WithSampleDir(cfg.Dir),
			httpAdapter.WithLogger(app.Logger),
			httpAdapter.WithStepLimit(stepLimit),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		tui.PrintBanner(cmd.ErrOrStderr())

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			app.Logger.Info("Starting server", "addr", srv.Addr, "dir", cfg.Dir, "machines", len(app.Sim.Machines()))
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case sig := <-shutdown:
			app.Logger.Info("Shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				app.Logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			app.Logger.Info("Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Int("step-limit", httpAdapter.DefaultStepLimit, "Largest max_steps a run request may ask for")
	serveCmd.Flags().String("session-dir", "", "Persist sessions as JSON files in this directory")
	serveCmd.Flags().String("redis-addr", "", "Persist sessions in redis at this address (env TURING_REDIS_ADDR)")
}
