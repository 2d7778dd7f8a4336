package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/meeplemeet/meeplemeet/internal/auth"
	"github.com/meeplemeet/meeplemeet/internal/config"
	"github.com/meeplemeet/meeplemeet/internal/db"
	"github.com/meeplemeet/meeplemeet/internal/repository"
	"github.com/meeplemeet/meeplemeet/internal/service"
)

type App struct {
	Cfg    *config.Config
	DB     *sqlx.DB
	Signer *auth.TokenSigner

	UserRepository    repository.UserRepository
	EventRepository   repository.EventRepository
	CommentRepository repository.CommentRepository
	TagRepository     repository.TagRepository

	AuthService  *service.AuthService
	EmailService *service.EmailService
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
	resetTokenRepository := repository.NewResetTokenRepository(database)
	eventRepository := repository.NewEventRepository(database)
	commentRepository := repository.NewCommentRepository(database)
	tagRepository := repository.NewTagRepository(database)

	// Credential components
	hasher := auth.NewPasswordHasher()
	signer := auth.NewTokenSigner(cfg.JWTSecret, cfg.JWTExpiry)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	resetTokenService := service.NewResetTokenService(resetTokenRepository, cfg.ResetTokenExpiry)
	authService := service.NewAuthService(
		userRepository,
		resetTokenService,
		emailService,
		hasher,
		signer,
		cfg.FrontendURL,
		cfg.PasswordMinLength,
	)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Signer:            signer,
		UserRepository:    userRepository,
		EventRepository:   eventRepository,
		CommentRepository: commentRepository,
		TagRepository:     tagRepository,
		AuthService:       authService,
		EmailService:      emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
