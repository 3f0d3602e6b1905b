package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/benjamintzh/KNY/internal/config"
	"github.com/benjamintzh/KNY/internal/handler"
	"github.com/benjamintzh/KNY/internal/handler/middleware"
	"github.com/benjamintzh/KNY/internal/oauth"
	"github.com/benjamintzh/KNY/internal/repository/postgres"
	"github.com/benjamintzh/KNY/internal/service"
	"github.com/benjamintzh/KNY/internal/session"
	"github.com/benjamintzh/KNY/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()
	log.Println("✓ Database connection established")

	sessionStore, stopSweeper, err := initSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	if stopSweeper != nil {
		defer stopSweeper()
	}
	log.Printf("✓ Session store initialized (%s)", cfg.Session.Backend)

	validate := validator.NewValidator()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	forumRepo := postgres.NewForumRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, sessionStore)
	forumService := service.NewForumService(forumRepo)
	commentService := service.NewCommentService(commentRepo, forumRepo)

	// External identity provider
	googleResolver := oauth.NewGoogleResolver(oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		CallbackURL:  cfg.Google.CallbackURL,
	})
	stateManager := oauth.NewStateManager([]byte(cfg.Google.StateSecret), 10*time.Minute)

	cookie := handler.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Server.IsProduction(),
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validate, cookie)
	userHandler := handler.NewUserHandler(authService, validate)
	oauthHandler := handler.NewOAuthHandler(authService, googleResolver, stateManager, cookie, cfg.Frontend.AuthCallbackURL)
	forumHandler := handler.NewForumHandler(forumService, validate)
	commentHandler := handler.NewCommentHandler(commentService, validate)
	healthHandler := handler.NewHealthHandler()

	app := fiber.New(fiber.Config{
		AppName:      "KYN Forum Service v1.0",
		ErrorHandler: handler.ErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CORSMiddleware(cfg.Frontend.Origin))
	app.Use(middleware.Authorizer(sessionStore, cfg.Session.CookieName))

	handler.SetupRoutes(
		app,
		authHandler,
		userHandler,
		oauthHandler,
		forumHandler,
		commentHandler,
		healthHandler,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server starting on http://localhost%s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		if err := app.Listen(addr); err != nil {
			log.Printf("❌ Server failed to start: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("⏳ Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✓ Server stopped")
}

// initDB initializes the PostgreSQL connection with retry logic
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Error closing database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// initSessionStore builds the configured session backend. The memory store
// gets a background sweeper; the redis store relies on key TTLs.
func initSessionStore(cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 5,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			if closeErr := client.Close(); closeErr != nil {
				log.Printf("Error closing Redis after ping failure: %v", closeErr)
			}
			return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
		}

		store := session.NewRedisStore(client, cfg.Session.IdleTimeout)
		closer := func() {
			if err := client.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}
		return store, closer, nil

	case "memory":
		store := session.NewMemoryStore(cfg.Session.IdleTimeout)
		stop := store.StartSweeper(cfg.Session.SweepInterval)
		return store, stop, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend: %q", cfg.Session.Backend)
	}
}
