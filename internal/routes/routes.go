package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/accounts"
	"github.com/zefast/zefast_web/internal/auth"
	"github.com/zefast/zefast_web/internal/catalog"
	"github.com/zefast/zefast_web/internal/config"
	"github.com/zefast/zefast_web/internal/dashboard"
	"github.com/zefast/zefast_web/internal/history"
	"github.com/zefast/zefast_web/internal/journal"
	"github.com/zefast/zefast_web/internal/middleware"
	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/notification"
	"github.com/zefast/zefast_web/internal/session"
	"github.com/zefast/zefast_web/internal/wizard"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Metrics())
	// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	backend := mobcash.NewClient(d.Cfg.MobcashBaseURL, d.Cfg.MobcashTimeout, d.Logger)

	var (
		sessionStore session.Store
		flashes      notification.FlashStore
		cooldown     auth.Cooldown
		wizardStore  wizard.Store
		catalogCache *catalog.Cache
		submissions  journal.Repository
	)
	if d.Cache != nil {
		sessionStore = session.NewRedisStore(d.Cache, d.Cfg.SessionTTL)
		flashes = notification.NewRedisFlashStore(d.Cache, d.Cfg.SessionTTL)
		cooldown = auth.NewRedisCooldown(d.Cache)
		wizardStore = wizard.NewRedisStore(d.Cache, d.Cfg.WizardTTL)
		catalogCache = catalog.NewCache(d.Cache, d.Cfg.CatalogCacheTTL)
	} else {
		d.Logger.Warn("redis not configured, using in-memory sessions")
		sessionStore = session.NewMemoryStore(d.Cfg.SessionTTL)
		flashes = notification.NewMemoryFlashStore()
		cooldown = auth.NewMemoryCooldown()
		wizardStore = wizard.NewMemoryStore(d.Cfg.WizardTTL)
	}
	if d.DB != nil {
		repo := journal.NewPostgresRepository(d.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("journal schema: %w", err)
		}
		submissions = repo
	} else {
		submissions = journal.NewInMemory()
	}

	sessions := session.NewManager(sessionStore, session.NewSigner(d.Cfg.SessionSecret), d.Cfg.SessionTTL, d.Cfg.CookieSecure)
	notifier := notification.NewNotifier(backend, flashes, d.Logger)
	catalogSvc := catalog.NewService(backend, catalogCache, d.Logger)
	accountSvc := accounts.NewService(backend, catalogSvc, d.Logger)
	historySvc := history.NewService(backend, d.Logger)
	dashboardSvc := dashboard.NewService(backend, catalogSvc, historySvc, d.Logger)
	authSvc := auth.NewService(backend, cooldown, d.Cfg.OTPResendCooldown, d.Logger)
	wizardSvc := wizard.NewService(wizardStore, catalogSvc, accountSvc, backend, submissions, d.Logger)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	authHandler := auth.NewHandler(authSvc, sessions, notifier)
	loginLimiter := middleware.RateLimit(d.Cache, "login", d.Cfg.LoginMaxPerMinute, d.Logger, "email_or_phone")
	otpLimiter := middleware.RateLimit(d.Cache, "otp", d.Cfg.LoginMaxPerMinute, d.Logger, "email")
	RegisterAuthRoutes(api, authHandler, loginLimiter, otpLimiter)

	// Protected routes; registered last since the group middleware applies to every later route.
	protected := api.Group("", middleware.RequireSession(sessions, d.Logger))
	RegisterProfileRoutes(protected, authHandler)
	RegisterDashboardRoutes(protected, dashboard.NewHandler(dashboardSvc))
	RegisterCatalogRoutes(protected, catalog.NewHandler(catalogSvc))
	RegisterAccountRoutes(protected, accounts.NewHandler(accountSvc, notifier))
	RegisterWizardRoutes(protected, wizard.NewHandler(wizardSvc, notifier),
		middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	RegisterTransactionRoutes(protected, history.NewHandler(historySvc, notifier), journal.NewHandler(submissions))
	RegisterNotificationRoutes(protected, notification.NewHandler(notifier))

	return nil
}
