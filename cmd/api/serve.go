package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"horse-treatment-records/internal/router"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := a.openBlob(ctx)
	if err != nil {
		return err
	}

	if a.cfg.Auth.AdminPIN == "" {
		a.log.Warn("ADMIN_PIN is empty; admin login is disabled")
	}

	h, err := router.NewRouter(router.Options{
		DB:         db,
		Logger:     a.log,
		AdminPIN:   a.cfg.Auth.AdminPIN,
		AdminName:  a.cfg.Auth.AdminName,
		SessionTTL: a.cfg.Auth.SessionTTL,
		Blob:       store,
		Version:    version,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("db", a.cfg.DB.Driver),
			slog.String("blob", string(store.Driver())),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
