package app

import (
	"errors"
	"fmt"

	"dispatchhub_backend/database"
	"dispatchhub_backend/internal/config"
	"dispatchhub_backend/internal/email"
	"dispatchhub_backend/internal/handlers"
	"dispatchhub_backend/internal/i18n"
	"dispatchhub_backend/internal/logger"
	"dispatchhub_backend/internal/middleware"
	"dispatchhub_backend/internal/models"
	"dispatchhub_backend/internal/repositories"
	"dispatchhub_backend/internal/routes"
	"dispatchhub_backend/internal/services"
	"dispatchhub_backend/internal/services/billing"
	"dispatchhub_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Run boots the service: config, logging, database, schema, seed data,
// background workers and the HTTP server.
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedDefaultPlans(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed billing plans", "error", err)
	}

	router, worker := SetupRouter(cfg, gormDB)

	if err := worker.Start(); err != nil {
		logger.Fatal("Failed to start billing worker", "error", err)
	}
	defer worker.Stop()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the gin engine and the background worker without
// starting either. Split out so tests can exercise the full HTTP surface.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *workers.BillingWorker) {
	table, err := i18n.Load(cfg.I18n.Path, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Fatal("Failed to load translations", "error", err)
	}
	logger.Info("Translations loaded", "languages", table.Languages())

	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := handlers.NewAppHandlers(serviceContainer, table)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())

	routes.RegisterRoutes(router, appHandlers)

	worker := workers.NewBillingWorker(serviceContainer.Billing, cfg.Billing.ExpirySweepEvery)
	return router, worker
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	profileRepo := repositories.NewProfileRepository(gormDB)
	jobRepo := repositories.NewJobRepository(gormDB)
	billingRepo := repositories.NewBillingRepository(gormDB)

	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		emailProvider = email.NewSMTPProvider(cfg)
	} else {
		logger.Warn("SMTP not configured, outbound email disabled")
	}

	gateway := billing.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.BaseURL)

	return &services.ServiceContainer{
		Auth:     services.NewAuthService(userRepo, profileRepo, emailProvider),
		Profile:  services.NewProfileService(profileRepo),
		Job:      services.NewJobService(jobRepo, profileRepo),
		Earnings: services.NewEarningsService(jobRepo, cfg.Billing.Currency),
		Billing: services.NewBillingService(
			billingRepo, profileRepo, gateway, emailProvider,
			cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL,
		),
	}
}

// seedDefaultPlans makes sure the premium and boost plans exist with the
// configured prices. Existing rows keep their id; price and duration follow
// the config on every boot.
func seedDefaultPlans(db *gorm.DB, cfg *config.Config) error {
	plans := []models.SubscriptionPlan{
		{
			Code:         models.PlanPremium,
			Name:         "Premium",
			Price:        cfg.Billing.PremiumPrice,
			Currency:     cfg.Billing.Currency,
			DurationDays: cfg.Billing.PremiumDays,
			IsActive:     true,
		},
		{
			Code:         models.PlanBoost,
			Name:         "Boost",
			Price:        cfg.Billing.BoostPrice,
			Currency:     cfg.Billing.Currency,
			DurationDays: cfg.Billing.BoostDays,
			IsActive:     true,
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range plans {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "price", "currency", "duration_days", "is_active",
				}),
			}).Create(&plans[i]).Error
			if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
		}
		return nil
	})
}
