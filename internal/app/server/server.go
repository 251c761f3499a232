package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"workportal/internal/domain/attendance"
	"workportal/internal/domain/audit"
	"workportal/internal/domain/auth"
	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
	"workportal/internal/platform/config"
	"workportal/internal/platform/db"
	"workportal/internal/platform/jobs"
	"workportal/internal/platform/metrics"
	"workportal/internal/transport/http/api"
	attendancehandler "workportal/internal/transport/http/handlers/attendance"
	audithandler "workportal/internal/transport/http/handlers/audit"
	authhandler "workportal/internal/transport/http/handlers/auth"
	directoryhandler "workportal/internal/transport/http/handlers/directory"
	workreportshandler "workportal/internal/transport/http/handlers/workreports"
	"workportal/internal/transport/http/middleware"
)

type App struct {
	Config     config.Config
	DB         *db.Pool
	Router     http.Handler
	Jobs       *jobs.Service
	Metrics    *metrics.Collector
	Auth       *auth.Service
	Attendance *attendance.Service
}

type stores struct {
	auth      auth.StoreAPI
	directory directory.StoreAPI
	reports   workreports.StoreAPI
	audit     audit.StoreAPI
	runs      jobs.RunStore
}

// New wires the application. Without DATABASE_URL every store is kept in
// memory and the reference data is loaded from the built-in defaults.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	var st stores
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		app.DB = pool
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		if cfg.RunSeed {
			if err := db.Seed(ctx, pool, cfg); err != nil {
				pool.Close()
				return nil, fmt.Errorf("seed: %w", err)
			}
		}
		st = stores{
			auth:      auth.NewStore(pool),
			directory: directory.NewStore(pool),
			reports:   workreports.NewStore(pool),
			audit:     audit.NewStore(pool),
			runs:      jobs.NewStore(pool),
		}
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory stores")
		authStore := auth.NewMemoryStore()
		if cfg.RunSeed {
			if _, err := auth.SeedUsers(ctx, authStore, auth.PredefinedUsers, cfg.SeedUserPassword); err != nil {
				return nil, fmt.Errorf("seed users: %w", err)
			}
		}
		st = stores{
			auth:      authStore,
			directory: directory.NewMemoryStore(directory.DefaultSnapshot()),
			reports:   workreports.NewMemoryStore(),
			audit:     audit.NewMemoryStore(),
			runs:      jobs.NewMemoryStore(),
		}
	}

	loc := cfg.Location()
	authService := auth.NewService(st.auth, cfg.JWTSecret, cfg.TokenTTL, cfg.AllowSelfSignup)
	directoryService := directory.NewService(st.directory)
	reportService := workreports.NewService(st.reports, directoryService, loc)
	attendanceService := attendance.NewService(reportService, directoryService)
	auditService := audit.New(st.audit)
	perms := auth.StaticPermissions{}

	var collector *metrics.Collector
	var observer middleware.StatusObserver
	if cfg.MetricsEnabled {
		collector = metrics.New()
		observer = collector
	}
	app.Metrics = collector
	app.Auth = authService
	app.Attendance = attendanceService

	app.Jobs = jobs.New(st.runs, loc)
	if cfg.AttendanceSnapshotCron != "" {
		if err := app.Jobs.Schedule(cfg.AttendanceSnapshotCron, jobs.JobAttendanceSnapshot, app.attendanceSnapshot); err != nil {
			app.Close()
			return nil, err
		}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(observer))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, authService))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if app.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := app.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, map[string]string{
				"status":    "healthy",
				"timestamp": time.Now().In(loc).Format(time.RFC3339),
			})
		})

		authhandler.NewHandler(authService, collector).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryService).RegisterRoutes(r)
		workreportshandler.NewHandler(reportService, perms, auditService, collector).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, perms, collector).RegisterRoutes(r)
		audithandler.NewHandler(auditService, perms).RegisterRoutes(r)
	})

	if cfg.FrontendDir != "" {
		router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	}

	app.Router = router
	return app, nil
}

func (a *App) attendanceSnapshot(ctx context.Context) (any, error) {
	summary, err := a.Attendance.ForDate(ctx, "")
	if err != nil {
		return nil, err
	}
	totals := summary.Totals()
	return map[string]any{
		"date":            summary.Date,
		"total_resources": totals.TotalResources,
		"present":         totals.Present,
		"absent":          totals.Absent,
	}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()
	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown failed", "err", err)
		}
	}()

	log.Printf("work portal listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	index := filepath.Join(h.staticPath, h.indexPath)
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}
