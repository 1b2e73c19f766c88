package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AppName = "horse-treatment-records"

	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	BlobFS = "fs"
	BlobS3 = "s3"
)

type Config struct {
	Env    string
	Server Server
	DB     DB
	Auth   Auth
	Log    Log
	Blob   Blob
}

type Server struct {
	Addr string
}

type DB struct {
	Driver string
	DSN    string
}

type Auth struct {
	AdminPIN   string
	AdminName  string
	SessionTTL time.Duration
}

type Log struct {
	Level string
}

type Blob struct {
	Driver      string
	FSRoot      string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	S3AccessKey string
	S3SecretKey string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_dsn", "data/horse-records.db")
	v.SetDefault("admin_name", "Administrator")
	v.SetDefault("session_ttl", 30*24*time.Hour)
	v.SetDefault("log_level", "")
	v.SetDefault("blob_driver", BlobFS)
	v.SetDefault("blob_fs_root", "data/exports")
	v.SetDefault("blob_s3_region", "us-east-1")
	v.SetDefault("blob_s3_path_style", false)
}

// Load carga envFile (si existe) en el entorno del proceso y luego resuelve cada
// ajuste desde el entorno con sus defaults. Con envFile vacío no se lee ningún .env.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Env:    strings.ToLower(v.GetString("app_env")),
		Server: Server{Addr: v.GetString("http_addr")},
		DB: DB{
			Driver: strings.ToLower(v.GetString("db_driver")),
			DSN:    v.GetString("db_dsn"),
		},
		Auth: Auth{
			AdminPIN:   v.GetString("admin_pin"),
			AdminName:  v.GetString("admin_name"),
			SessionTTL: v.GetDuration("session_ttl"),
		},
		Log: Log{Level: v.GetString("log_level")},
		Blob: Blob{
			Driver:      strings.ToLower(v.GetString("blob_driver")),
			FSRoot:      v.GetString("blob_fs_root"),
			S3Bucket:    v.GetString("blob_s3_bucket"),
			S3Region:    v.GetString("blob_s3_region"),
			S3Endpoint:  v.GetString("blob_s3_endpoint"),
			S3PathStyle: v.GetBool("blob_s3_path_style"),
			S3AccessKey: v.GetString("blob_s3_access_key_id"),
			S3SecretKey: v.GetString("blob_s3_secret_access_key"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("APP_ENV must be one of local, dev, prod (got %q)", c.Env)
	}
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres (got %q)", c.DB.Driver)
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		return errors.New("DB_DSN required")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	switch c.Blob.Driver {
	case BlobFS:
	case BlobS3:
		if c.Blob.S3Bucket == "" {
			return errors.New("BLOB_S3_BUCKET required for s3 blob driver")
		}
	default:
		return fmt.Errorf("BLOB_DRIVER must be fs or s3 (got %q)", c.Blob.Driver)
	}
	return nil
}
