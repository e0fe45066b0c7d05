package app

import (
	"fmt"

	"github.com/contentdee/contentdee/internal/config"
	"github.com/contentdee/contentdee/internal/db"
	"github.com/contentdee/contentdee/internal/metrics"
	"github.com/contentdee/contentdee/internal/repository"
	"github.com/contentdee/contentdee/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	UserRepository repository.UserRepository
	AuthService    *service.AuthService
	OAuthService   *service.OAuthService
	ContentService *service.ContentService
	EmailService   *service.EmailService
	Metrics        *metrics.Collector
	Registry       *prometheus.Registry
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	contentRepository := repository.NewContentRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.AppURL,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		sessionRepository,
		emailService,
		cfg.IsProduction(),
		cfg.SessionExpiry,
	)
	oauthService := service.NewOAuthService(userRepository, authService)
	generator := service.NewOpenAIGenerator(cfg.OpenAIAPIKey)
	contentService := service.NewContentService(contentRepository, generator)

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	return &App{
		Cfg:            cfg,
		DB:             database,
		UserRepository: userRepository,
		AuthService:    authService,
		OAuthService:   oauthService,
		ContentService: contentService,
		EmailService:   emailService,
		Metrics:        collector,
		Registry:       registry,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
