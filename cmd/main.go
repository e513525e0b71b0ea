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
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/lewybagz/photoBomb/internal/api/handlers"
	"github.com/lewybagz/photoBomb/internal/config"
	"github.com/lewybagz/photoBomb/internal/database/minio"
	"github.com/lewybagz/photoBomb/internal/database/mongo"
	"github.com/lewybagz/photoBomb/internal/database/redis"
	"github.com/lewybagz/photoBomb/internal/events"
	"github.com/lewybagz/photoBomb/internal/middleware"
	"github.com/lewybagz/photoBomb/internal/models"
	"github.com/lewybagz/photoBomb/internal/repository"
	"github.com/lewybagz/photoBomb/internal/service"
	"github.com/lewybagz/photoBomb/internal/store"
	"github.com/lewybagz/photoBomb/pkg/discovery"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/photobomb", "log")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	cfg := config.Load()

	logFile, err := setupLogging()
	if err != nil {
		log.Printf("Warning: Failed to set up logging: %v", err)
	} else {
		defer logFile.Close()
	}

	// Initialize MongoDB
	if err := mongo.InitMongoDB(&cfg.MongoDB); err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer mongo.CloseDB()

	// Initialize MinIO client
	if err := minio.InitMinioClient(&cfg.MinIO); err != nil {
		log.Fatalf("Failed to initialize MinIO client: %v", err)
	}

	// Initialize Redis
	if err := redis.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer redis.CloseRedis()

	// Initialize repositories
	photoRepository := repository.NewPhotoRepository()
	albumRepository := repository.NewAlbumRepository()
	userRepository := repository.NewUserRepository()
	commentRepository := repository.NewCommentRepository()
	cacheRepository := repository.NewCacheRepository()
	blobRepository := repository.NewBlobRepository(&cfg.MinIO)

	// Initialize event publisher
	var eventPublisher events.Publisher
	publisher, err := events.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
	} else {
		eventPublisher = publisher
		defer publisher.Close()
	}

	// Initialize services
	jwtService := service.NewJWTService(&cfg.Auth)
	statsService := service.NewStatsService(
		photoRepository,
		albumRepository,
		commentRepository,
		userRepository,
		blobRepository,
	)

	// Initialize stores
	galleryStore := store.NewGalleryStore(photoRepository, cacheRepository)
	favoritesStore := store.NewFavoritesStore(userRepository, cacheRepository)
	albumsStore := store.NewAlbumsStore(albumRepository, photoRepository, cacheRepository, eventPublisher)
	commentsStore := store.NewCommentsStore(commentRepository, photoRepository, eventPublisher)
	sessionStore := store.NewSessionStore(userRepository, cacheRepository, jwtService, cfg.Auth.FamilyPasscode, eventPublisher)
	uploadPipeline := store.NewUploadPipeline(blobRepository, photoRepository, galleryStore, eventPublisher)
	deleter := store.NewDeleter(photoRepository, commentRepository, userRepository, blobRepository, albumsStore, galleryStore, eventPublisher)

	// Reset per-member favorites when the signed-in identity changes
	var lastMemberID string
	sessionStore.Subscribe(func(member *models.FamilyMember) {
		if lastMemberID != "" {
			favoritesStore.Reset(lastMemberID)
		}
		lastMemberID = ""
		if member != nil {
			lastMemberID = member.ID.Hex()
		}
	})

	// Initialize service discovery
	serviceRegistry, err := discovery.NewServiceRegistry(
		cfg.Consul.Address,
		cfg.Server.ServiceName,
		cfg.Server.ServiceID,
		cfg.Server.Port,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize service discovery: %v", err)
	} else {
		if err := serviceRegistry.Register(); err != nil {
			log.Printf("Warning: Failed to register with Consul: %v", err)
		} else {
			log.Println("Successfully registered with Consul")
			defer serviceRegistry.Deregister()
		}
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    100 * 1024 * 1024,
	})

	app.Get("/public/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Photo Bomb is healthy")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Everything under /protected requires a valid session
	app.Use("/protected", middleware.RequireAuth(jwtService, sessionStore))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessionStore)
	galleryHandler := handlers.NewGalleryHandler(galleryStore, deleter, blobRepository)
	uploadHandler := handlers.NewUploadHandler(uploadPipeline)
	albumHandler := handlers.NewAlbumHandler(albumsStore, galleryStore)
	favoriteHandler := handlers.NewFavoriteHandler(favoritesStore)
	commentHandler := handlers.NewCommentHandler(commentsStore)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Register routes
	authHandler.RegisterRoutes(app)
	galleryHandler.RegisterRoutes(app)
	uploadHandler.RegisterRoutes(app)
	albumHandler.RegisterRoutes(app)
	favoriteHandler.RegisterRoutes(app)
	commentHandler.RegisterRoutes(app)
	statsHandler.RegisterRoutes(app)

	// Setup graceful shutdown
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

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	<-doneChan
	log.Println("Server exited, goodbye!")
}
