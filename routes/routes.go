package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/yoruwear-api/auth"
	"github.com/junaidrashid-git/yoruwear-api/cache"
	"github.com/junaidrashid-git/yoruwear-api/config"
	adminController "github.com/junaidrashid-git/yoruwear-api/controllers/admin"
	orderControllers "github.com/junaidrashid-git/yoruwear-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/yoruwear-api/controllers/product"
	"github.com/junaidrashid-git/yoruwear-api/database"
	"github.com/junaidrashid-git/yoruwear-api/metrics"
	"github.com/junaidrashid-git/yoruwear-api/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const Version = "2.1.0"

// Deps carries everything the route groups need.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Catalog
	Log         *logrus.Logger
	Users       auth.UserStore
	Tokens      *auth.TokenIssuer
	Auth        *auth.Service
	Catalog     *productcontroller.Catalog
	Feed        *orderControllers.Feed
	Orders      *orderControllers.Service
	Reports     *adminController.Reports
	AuthLimiter *middleware.RateLimiter
}

// NewDeps builds the services on top of an open database and cache.
func NewDeps(cfg *config.Config, db *gorm.DB, catalogCache *cache.Catalog, log *logrus.Logger) *Deps {
	users := auth.NewUserStore(db)
	tokens := auth.NewTokenIssuer(cfg.JWT)
	feed := orderControllers.NewFeed(log)

	return &Deps{
		Config:  cfg,
		DB:      db,
		Cache:   catalogCache,
		Log:     log,
		Users:   users,
		Tokens:  tokens,
		Auth:    auth.NewService(users, tokens, log),
		Catalog: productcontroller.NewCatalog(db, catalogCache, log),
		Feed:    feed,
		Orders: orderControllers.NewService(orderControllers.NewStore(db), feed,
			orderControllers.Options{DecrementStock: cfg.DecrementStock, StockCache: catalogCache}, log),
		Reports: adminController.NewReports(db),
		// AUTH_RATE_LIMIT is requests per second per client IP.
		AuthLimiter: middleware.NewRateLimiter(float64(cfg.AuthRateLimit), cfg.AuthRateBurst, log),
	}
}

func (d *Deps) vatRate() decimal.Decimal {
	return decimal.NewFromFloat(d.Config.VATRate)
}

// NewRouter returns the engine with global middleware and every route group.
func NewRouter(d *Deps) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Metrics())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	SetupRoutes(r, d)
	return r
}

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, d *Deps) {
	SetupSystemRoutes(r, d)

	api := r.Group("/api")

	// Public auth routes, rate limited
	SetupAuthRoutes(api, d)

	// Storefront browsing and cart quotes
	SetupCatalogRoutes(api, d)

	// Checkout and order lookup
	SetupOrderRoutes(api, d)

	// Admin routes (admin token or API key)
	SetupAdminRoutes(api, d)
}

// SetupSystemRoutes registers the banner, health and metrics endpoints.
func SetupSystemRoutes(r *gin.Engine, d *Deps) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":     "YoruWear API is running!",
			"version":     Version,
			"environment": d.Config.Environment,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/health", healthHandler(d))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func healthHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		db := "up"
		if err := database.Ping(d.DB); err != nil {
			d.Log.WithError(err).Warn("health: database unreachable")
			db = "down"
			status = http.StatusServiceUnavailable
		}

		// A broken cache degrades to database reads, so it never fails the check.
		redis := "disabled"
		if d.Cache.Enabled() {
			redis = "up"
			if err := d.Cache.Ping(ctx); err != nil {
				d.Log.WithError(err).Warn("health: redis unreachable")
				redis = "down"
			}
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "unavailable"
		}
		c.JSON(status, gin.H{
			"status":    overall,
			"database":  db,
			"cache":     redis,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
