package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"horse-treatment-records/internal/adapters/storage/sqlstore"
	"horse-treatment-records/internal/domain/grid"
	"horse-treatment-records/internal/platform/httpclient"
	"horse-treatment-records/internal/ports/auth"
	"horse-treatment-records/internal/ports/blob"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := sqlstore.Migrate(a.dialect(), a.cfg.DB.DSN, nil); err != nil {
				return err
			}
			a.log.Info("migrations applied", slog.String("db", a.cfg.DB.Driver))
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Archive a CSV snapshot of the treatment grid to the blob store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			store, err := a.openBlob(ctx)
			if err != nil {
				return err
			}
			info, err := archiveGrid(ctx, db, store)
			if err != nil {
				return err
			}
			a.log.Info("grid archived",
				slog.String("key", info.Key),
				slog.Int64("bytes", info.Size),
				slog.String("blob", string(store.Driver())),
			)
			fmt.Fprintln(cmd.OutOrStdout(), info.Key)
			return nil
		},
	}
}

func archiveGrid(ctx context.Context, db *sqlstore.DB, store blob.Store) (blob.Info, error) {
	horsesRepo := sqlstore.NewHorsesRepo(db)
	svc := grid.NewService(horsesRepo, sqlstore.NewTreatmentTypesRepo(db), sqlstore.NewGridRepo(db), store, time.Now)
	return svc.Archive(ctx, auth.Identity{Role: auth.RoleAdmin, ID: "admin"})
}

func newHealthcheckCmd(a *app) *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe GET /health on a running instance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if baseURL == "" {
				baseURL = "http://localhost" + a.cfg.Server.Addr
			}
			c, err := httpclient.NewWithBaseURL(baseURL, 5*time.Second)
			if err != nil {
				return err
			}
			var out struct {
				Status   string `json:"status"`
				Database string `json:"database"`
			}
			if err := c.DoJSON(cmd.Context(), "GET", "/health", nil, &out); err != nil {
				return fmt.Errorf("healthcheck: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", out.Status, out.Database)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "base URL of the running instance (default http://localhost<HTTP_ADDR>)")
	return cmd
}
