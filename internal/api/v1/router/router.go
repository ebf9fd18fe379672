package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"krolist/internal/api/v1/handler"
	"krolist/internal/config"
	"krolist/internal/currency"
	"krolist/internal/middleware"
	"krolist/internal/repository"
	"krolist/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New builds the HTTP handler and everything behind it: the connection pool,
// repositories, services and middleware. The returned rate-sync service is
// started by the caller so its lifecycle is tied to the process context.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, *service.RateSyncService, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	// In a development environment, ensure SSL is disabled for local testing.
	// In production, the connection string carries the correct SSL settings.
	dsn := cfg.DBConnectionString
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := " "
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			if strings.Contains(dsn, "?") {
				separator = "&"
			} else {
				separator = "?"
			}
		}
		dsn += separator + "sslmode=disable"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	validate := validator.New(validator.WithRequiredStructEnabled())

	// Repositories & services & handlers
	productRepo := repository.NewProductRepo(pool)
	historyRepo := repository.NewHistoryRepo(pool)
	refreshLogRepo := repository.NewRefreshLogRepo(pool)
	rateRepo := repository.NewRateRepo(pool)

	currencySvc := currency.NewService(rateRepo, logger)
	refreshSvc := service.NewRefreshService(productRepo, historyRepo, refreshLogRepo, service.NewPlaceholderPriceSource(), logger)
	rateSyncSvc := service.NewRateSyncService(rateRepo, cfg.ExchangeRateAPIURL, time.Duration(cfg.RateSyncIntervalMin)*time.Minute, logger)

	refreshHandler := handler.NewRefreshHandler(refreshSvc, logger)
	productHandler := handler.NewProductHandler(productRepo, historyRepo, currencySvc, validate, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	// API v1 routes under /v1
	apiV1Mux := http.NewServeMux()
	refreshHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	productHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return middleware.LoggerMiddleware(logger)(corsHandler().Handler(mux)), pool, rateSyncSvc, nil
}

// corsHandler allows any origin without credentials. Auth is carried in
// the Authorization header, not cookies; browsers refuse the wildcard
// origin when combined with credentialed requests.
func corsHandler() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
}
