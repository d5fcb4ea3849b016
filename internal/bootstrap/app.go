// Package bootstrap wires configuration, storage, clients, services, and
// handlers into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/artifacts"
	localstore "medgateway-backend/internal/artifacts/local"
	s3store "medgateway-backend/internal/artifacts/s3"
	"medgateway-backend/internal/history"
	"medgateway-backend/internal/mail"
	"medgateway-backend/internal/predictions"
	"medgateway-backend/internal/products"
	"medgateway-backend/internal/shared/config"
	"medgateway-backend/internal/shared/server"
	"medgateway-backend/internal/shared/storage/db"
	"medgateway-backend/internal/upstream"
	"medgateway-backend/internal/users"
	"medgateway-backend/internal/verification"
)

// App is the assembled application.
type App struct {
	Router *gin.Engine
	DB     *sql.DB
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a != nil && a.DB != nil {
		a.DB.Close()
	}
}

// Build assembles the application from configuration. Outside production
// a missing or unreachable database degrades to in-memory repositories
// so the service stays runnable for local development.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, err := connectDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildArtifactStore(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		return nil, err
	}

	mailer := buildMailer(cfg)
	caller := upstream.NewClient(time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second)

	var (
		userRepo    users.Repo
		productRepo products.Repo
		historyRepo history.Repo
		verifyRepo  verification.Repo
	)
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		productRepo = &products.PGRepo{DB: sqlDB}
		historyRepo = &history.PGRepo{DB: sqlDB}
		verifyRepo = &verification.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		productRepo = products.NewMemoryRepo()
		historyRepo = history.NewMemoryRepo()
		verifyRepo = verification.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo)
	productSvc := products.NewService(productRepo)
	historySvc := history.NewService(historyRepo)
	verifySvc := verification.NewService(verifyRepo, userSvc, mailer, cfg.GatewayBaseURL)
	predictSvc := &predictions.Service{
		Products:          productSvc,
		History:           historySvc,
		Upstream:          caller,
		Artifacts:         store,
		ConverterURL:      cfg.ConverterURL,
		ConverterTokenKey: cfg.ConverterTokenKey,
	}

	router := server.NewRouter(cfg, server.Handlers{
		Users:        users.NewHandler(userSvc, verifySvc),
		Verification: verification.NewHandler(verifySvc),
		Products:     products.NewHandler(productSvc),
		History:      history.NewHandler(historySvc, productSvc),
		Predictions:  predictions.NewHandler(predictSvc),
	})

	return &App{Router: router, DB: sqlDB}, nil
}

func connectDatabase(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		log.Printf("no DATABASE_URL configured, using in-memory repositories")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		log.Printf("failed to connect database, falling back to memory: %v", err)
		return nil, nil
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if cfg.Env == "production" {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Printf("failed to run migrations, falling back to memory: %v", err)
		return nil, nil
	}
	return sqlDB, nil
}

func buildArtifactStore(ctx context.Context, cfg config.Config) (artifacts.Store, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("build s3 artifact store: %w", err)
		}
		return store, nil
	}
	return localstore.New(cfg.LocalStoreDir, cfg.LocalStoreURL), nil
}

func buildMailer(cfg config.Config) mail.Sender {
	if cfg.MailAPIKey == "" {
		log.Printf("no MAIL_API_KEY configured, verification emails are disabled")
		return mail.NoopSender{}
	}
	client, err := mail.NewClient(mail.Config{
		APIKey:    cfg.MailAPIKey,
		BaseURL:   cfg.MailBaseURL,
		FromEmail: cfg.MailFromEmail,
		FromName:  cfg.MailFromName,
	})
	if err != nil {
		log.Printf("mail client misconfigured, verification emails are disabled: %v", err)
		return mail.NoopSender{}
	}
	return client
}
