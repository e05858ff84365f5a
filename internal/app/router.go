package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/saral-hq/saral/internal/auth"
	"github.com/saral-hq/saral/internal/blog"
	"github.com/saral-hq/saral/internal/masterdata/catalog"
	"github.com/saral-hq/saral/internal/masterdata/customers"
	"github.com/saral-hq/saral/internal/masterdata/stores"
	"github.com/saral-hq/saral/internal/masterdata/suppliers"
	"github.com/saral-hq/saral/internal/org"
	"github.com/saral-hq/saral/internal/platform/httpx"
	"github.com/saral-hq/saral/internal/purchase"
	"github.com/saral-hq/saral/internal/rbac"
	"github.com/saral-hq/saral/internal/shared"
	"github.com/saral-hq/saral/internal/stock"
	"github.com/saral-hq/saral/internal/users"
	"github.com/saral-hq/saral/jobs"
)

// NewRouter assembles every module behind the shared middleware stack.
func NewRouter(cfg Config, logger *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, mail *jobs.Client) http.Handler {
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	refresh := auth.NewRefreshStore(rdb, cfg.RefreshTokenTTL)

	rbacService := rbac.NewService(rbac.NewRepository(pool))
	gate := rbac.NewMiddleware(rbacService, logger)
	audit := shared.NewAuditLogger(pool)

	userService := users.NewService(logger, users.NewRepository(pool), mail)
	authService := auth.NewService(userService, issuer, refresh)

	orgService := org.NewService(org.NewRepository(pool))
	blogService := blog.NewService(blog.NewRepository(pool))
	supplierService := suppliers.NewService(suppliers.NewRepository(pool))
	customerService := customers.NewService(customers.NewRepository(pool))
	catalogService := catalog.NewService(catalog.NewRepository(pool))

	purchaseService := purchase.NewService(logger,
		purchase.NewRepository(pool), orgService, stock.NewLedger(), audit)

	authHandler := auth.NewHandler(logger, authService)
	userHandler := users.NewHandler(logger, userService, gate)
	rbacHandler := rbac.NewHandler(logger, rbacService, gate)
	orgHandler := org.NewHandler(logger, orgService, gate)
	blogHandler := blog.NewHandler(logger, blogService, gate)
	supplierHandler := suppliers.NewHandler(logger, supplierService, gate)
	customerHandler := customers.NewHandler(logger, customerService, gate)
	catalogHandler := catalog.NewHandler(logger, catalogService, gate)
	storeHandler := stores.NewHandler(logger, stores.NewRepository(pool), gate)
	purchaseHandler := purchase.NewHandler(logger, purchaseService, gate)
	stockHandler := stock.NewHandler(logger, stock.NewRepository(pool), gate)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secureHeaders(cfg))
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	r.Use(auth.Bearer(issuer))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "database unreachable")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		authHandler.MountRoutes(r)
		userHandler.MountRoutes(r)
		rbacHandler.MountRoutes(r)
		orgHandler.MountRoutes(r)
		blogHandler.MountRoutes(r)
		supplierHandler.MountRoutes(r)
		customerHandler.MountRoutes(r)
		catalogHandler.MountRoutes(r)
		storeHandler.MountRoutes(r)
		purchaseHandler.MountRoutes(r)
		r.Route("/stock", stockHandler.MountRoutes)

		r.Route("/public", func(r chi.Router) {
			userHandler.MountPublicRoutes(r)
			blogHandler.MountPublicRoutes(r)
		})
	})

	return r
}
