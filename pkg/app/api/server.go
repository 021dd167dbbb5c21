// Package api wires the dashboard API server: config, storage,
// extractor, services and the chi route tree.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/internal/metrics"
	apphttp "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/http"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/auth"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/config"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/dashboard"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/extract"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/favorites"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/ingest"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/marketstore"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/pgutil"
	userservice "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/user/service"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/userstore"
)

// Server is the API server process.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewServer creates the API server runner.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Run connects dependencies, mounts routes and serves until a signal
// arrives.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pgutil.ConnectDB(&s.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	s.logger.Info("connected to database",
		zap.String("host", s.cfg.Database.Host),
		zap.String("database", s.cfg.Database.Database),
	)

	secret := os.Getenv(s.cfg.Auth.JWTSecretEnv)
	if secret == "" {
		return errors.New("jwt secret is not set: " + s.cfg.Auth.JWTSecretEnv)
	}
	tokens := auth.NewTokenManager([]byte(secret), s.cfg.Auth.Issuer, s.cfg.Auth.TokenTTL)
	authmw := auth.NewMiddleware(tokens, s.logger)

	extractor, err := extract.NewClient(&s.cfg.Extractor, s.logger)
	if err != nil {
		return err
	}

	store := marketstore.NewStore(db)
	ingestSvc := ingest.NewService(extractor, store, s.logger)
	dashSvc := dashboard.NewService(store, s.logger)

	accounts := userservice.NewService(userstore.NewStore(db), tokens, s.logger)
	adminPassword := os.Getenv(s.cfg.Auth.AdminPasswordEnv)
	if err := accounts.EnsureAdmin(ctx, s.cfg.Auth.AdminUsername, adminPassword); err != nil {
		return err
	}

	router := s.buildRouter(
		dashboard.NewHandler(dashSvc, ingestSvc),
		userservice.NewHandler(accounts),
		favorites.NewHandler(favorites.NewStore(db)),
		authmw,
	)

	return apphttp.ServeAndWait(ctx, router, s.logger, &s.cfg.Server)
}

func (s *Server) buildRouter(
	dash *dashboard.Handler,
	users *userservice.Handler,
	favs *favorites.Handler,
	authmw *auth.Middleware,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.WriteTimeout))
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	dash.RegisterRoutes(r, authmw.RequireAuth, authmw.RequireAdmin)
	users.RegisterRoutes(r, authmw.RequireAuth)
	favs.RegisterRoutes(r)

	return r
}
