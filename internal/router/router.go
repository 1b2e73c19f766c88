package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "horse-treatment-records/docs"
	"horse-treatment-records/internal/adapters/storage/sqlstore"
	"horse-treatment-records/internal/config"
	"horse-treatment-records/internal/domain/grid"
	"horse-treatment-records/internal/domain/horses"
	"horse-treatment-records/internal/domain/owners"
	"horse-treatment-records/internal/domain/sessions"
	"horse-treatment-records/internal/domain/stables"
	"horse-treatment-records/internal/domain/treatments"
	"horse-treatment-records/internal/domain/treatmenttypes"
	"horse-treatment-records/internal/domain/vets"
	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/httpjson"
	"horse-treatment-records/internal/ports/blob"
	"horse-treatment-records/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	DB     *sqlstore.DB
	Logger *slog.Logger

	AdminPIN   string
	AdminName  string
	SessionTTL time.Duration

	// Blob recibe los exports archivados; nil desactiva el archivado.
	Blob blob.Store

	// Registry por defecto es uno nuevo con collectors de Go, proceso y pool de DB.
	Registry *prometheus.Registry

	// Now por defecto es time.Now; los tests lo fijan.
	Now func() time.Time

	// Version etiqueta las URLs de assets estáticos.
	Version string
}

func NewRouter(opts Options) (http.Handler, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewDBStatsCollector(opts.DB.DB, string(opts.DB.Dialect)),
		)
	}

	// Repos
	db := opts.DB
	horsesRepo := sqlstore.NewHorsesRepo(db)
	typesRepo := sqlstore.NewTreatmentTypesRepo(db)

	// Servicios
	sessionsSvc := sessions.NewService(sqlstore.NewSessionsRepo(db), sessions.Options{
		AdminPIN:  opts.AdminPIN,
		AdminName: opts.AdminName,
		TTL:       opts.SessionTTL,
		Now:       opts.Now,
		Logger:    opts.Logger,
	})
	stablesSvc := stables.NewService(sqlstore.NewStablesRepo(db))
	vetsSvc := vets.NewService(sqlstore.NewVetsRepo(db))
	ownersSvc := owners.NewService(sqlstore.NewOwnersRepo(db))
	horsesSvc := horses.NewService(horsesRepo, opts.Now)
	typesSvc := treatmenttypes.NewService(typesRepo)
	treatmentsSvc := treatments.NewService(sqlstore.NewTreatmentsRepo(db), opts.Now)
	gridSvc := grid.NewService(horsesRepo, typesRepo, sqlstore.NewGridRepo(db), opts.Blob, opts.Now)

	page, err := web.New(config.AppName, opts.Version)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewMetrics(reg).Handler)

	r.Use(middleware.AuthContext(sessionsSvc))

	r.Get("/health", healthHandler(db))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	page.RegisterRoutes(r)

	sessions.RegisterRoutes(r, sessionsSvc)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth)

		stables.RegisterRoutes(pr, stablesSvc)
		vets.RegisterRoutes(pr, vetsSvc)
		owners.RegisterRoutes(pr, ownersSvc)
		horses.RegisterRoutes(pr, horsesSvc)
		treatmenttypes.RegisterRoutes(pr, typesSvc)
		treatments.RegisterRoutes(pr, treatmentsSvc)
		grid.RegisterRoutes(pr, gridSvc)
	})

	return r, nil
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// healthHandler godoc
// @Summary Liveness and database reachability
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func healthHandler(db *sqlstore.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			httpjson.Write(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unreachable"})
			return
		}
		httpjson.Write(w, http.StatusOK, healthResponse{Status: "ok", Database: string(db.Dialect)})
	}
}
