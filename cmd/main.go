package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/jonahkingcs/game-api-with-clerk/internal/config"
	"github.com/jonahkingcs/game-api-with-clerk/internal/database/mongo"
	"github.com/jonahkingcs/game-api-with-clerk/internal/database/redis"
	"github.com/jonahkingcs/game-api-with-clerk/internal/event"
	"github.com/jonahkingcs/game-api-with-clerk/internal/handlers"
	"github.com/jonahkingcs/game-api-with-clerk/internal/repository"
	"github.com/jonahkingcs/game-api-with-clerk/internal/service"
	"github.com/jonahkingcs/game-api-with-clerk/internal/webhook"
	"github.com/jonahkingcs/game-api-with-clerk/pkg/discovery"
)

func setupLogging() (*os.File, error) {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	cfg := config.Load()

	verifier, err := webhook.NewVerifier(cfg.Webhook.SigningSecret)
	if err != nil {
		log.Fatalf("CLERK_WEBHOOK_SIGNING_SECRET is required: %v", err)
	}

	mongoClient, db, err := mongo.Connect(cfg.MongoDB)
	if err != nil {
		log.Fatalf("Fatal error connecting to MongoDB: %v", err)
	}
	defer mongo.Disconnect(mongoClient)

	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := userRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create user indexes: %v", err)
	}
	if err := gameRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create game indexes: %v", err)
	}
	cancel()

	var catalogCache service.CatalogCache
	var eventCache service.EventCache
	var invalidator event.SnapshotInvalidator
	if redisClient := redis.Connect(cfg.Redis); redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient)
		catalogCache = cacheRepo
		eventCache = cacheRepo
		invalidator = cacheRepo
	}

	var publisher event.Publisher
	eventPublisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
	} else {
		publisher = eventPublisher
	}

	eventConsumer, err := event.NewEventConsumer(cfg.RabbitMQ.URI, invalidator)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			defer eventConsumer.Close()
		}
	}

	userService := service.NewUserService(userRepo, eventCache, publisher)
	catalogService := service.NewCatalogService(gameRepo, catalogCache)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	handlers.NewGameHandler(catalogService).RegisterRoutes(app)
	handlers.NewWebhookHandler(verifier, userService).RegisterRoutes(app)

	registry, err := discovery.NewServiceRegistry(cfg)
	if err != nil {
		log.Printf("Warning: Failed to create service registry: %v", err)
	} else if registry != nil {
		if err := registry.Register(); err != nil {
			log.Printf("Warning: Failed to register with Consul: %v", err)
		}
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
