package main

import (
	"context"
	"fmt"
	"log/slog"

	blobfs "horse-treatment-records/internal/adapters/blob/fs"
	blobs3 "horse-treatment-records/internal/adapters/blob/s3"
	"horse-treatment-records/internal/adapters/storage/sqlstore"
	"horse-treatment-records/internal/config"
	"horse-treatment-records/internal/platform/logger"
	"horse-treatment-records/internal/ports/blob"

	"github.com/spf13/cobra"
)

type app struct {
	envFile string
	cfg     *config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "horse-records",
		Short:         "Horse treatment records service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.log = logger.New(cfg.Env, cfg.Log.Level)
			slog.SetDefault(a.log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newExportCmd(a),
		newHealthcheckCmd(a),
	)
	return root
}

func (a *app) dialect() sqlstore.Dialect {
	return sqlstore.Dialect(a.cfg.DB.Driver)
}

// openDB migra el esquema y abre el pool.
func (a *app) openDB(ctx context.Context) (*sqlstore.DB, error) {
	if err := sqlstore.Migrate(a.dialect(), a.cfg.DB.DSN, nil); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := sqlstore.Open(ctx, a.dialect(), a.cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.cfg.DB.Driver, err)
	}
	return db, nil
}

func (a *app) openBlob(ctx context.Context) (blob.Store, error) {
	b := a.cfg.Blob
	switch b.Driver {
	case config.BlobS3:
		return blobs3.New(ctx, blobs3.Config{
			Bucket:          b.S3Bucket,
			Region:          b.S3Region,
			Endpoint:        b.S3Endpoint,
			PathStyle:       b.S3PathStyle,
			AccessKeyID:     b.S3AccessKey,
			SecretAccessKey: b.S3SecretKey,
		})
	default:
		return blobfs.New(b.FSRoot)
	}
}
