package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/domain/company"
	"planilla/internal/domain/concept"
	"planilla/internal/domain/loan"
	"planilla/internal/domain/params"
	"planilla/internal/domain/payrollrun"
	"planilla/internal/domain/period"
	"planilla/internal/domain/worker"
	"planilla/internal/platform/config"
	"planilla/internal/platform/crypto"
	audithandler "planilla/internal/transport/http/handlers/audit"
	authhandler "planilla/internal/transport/http/handlers/auth"
	companyhandler "planilla/internal/transport/http/handlers/company"
	concepthandler "planilla/internal/transport/http/handlers/concept"
	exporthandler "planilla/internal/transport/http/handlers/export"
	loanhandler "planilla/internal/transport/http/handlers/loan"
	paramshandler "planilla/internal/transport/http/handlers/params"
	periodhandler "planilla/internal/transport/http/handlers/period"
	runhandler "planilla/internal/transport/http/handlers/run"
	workerhandler "planilla/internal/transport/http/handlers/worker"
	"planilla/internal/transport/http/middleware"
)

// New wires every store, service and handler onto a chi router. The pool is
// shared; each domain package owns its own queries.
func New(cfg config.Config, pool *pgxpool.Pool) (http.Handler, error) {
	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret)
	auditService := audit.New(pool)
	companyService := company.NewService(company.NewStore(pool))
	workerService := worker.NewService(worker.NewStore(pool), cipher)
	conceptService := concept.NewService(concept.NewStore(pool))
	paramsService := params.NewService(params.NewStore(pool))
	periodService := period.NewService(period.NewStore(pool))
	loanStore := loan.NewStore(pool)
	loanService := loan.NewService(loanStore)
	runService := payrollrun.NewService(payrollrun.NewStore(pool), periodService,
		paramsService, workerService, conceptService, loanStore, companyService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService).RegisterRoutes(r)
		companyhandler.NewHandler(companyService, auditService).RegisterRoutes(r)
		workerhandler.NewHandler(workerService, auditService).RegisterRoutes(r)
		concepthandler.NewHandler(conceptService, auditService).RegisterRoutes(r)
		paramshandler.NewHandler(paramsService, auditService).RegisterRoutes(r)
		periodhandler.NewHandler(periodService, auditService).RegisterRoutes(r)
		loanhandler.NewHandler(loanService, auditService).RegisterRoutes(r)
		runhandler.NewHandler(runService, auditService, middleware.NewIdempotencyStore(pool)).RegisterRoutes(r)
		exporthandler.NewHandler(runService, workerService, companyService).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)
	})

	return router, nil
}
