package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/wearvirtually/wearvirtually-api/internal/config"
	"github.com/wearvirtually/wearvirtually-api/internal/database"
	"github.com/wearvirtually/wearvirtually-api/internal/handler"
	"github.com/wearvirtually/wearvirtually-api/internal/middleware"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
	"github.com/wearvirtually/wearvirtually-api/internal/router"
	"github.com/wearvirtually/wearvirtually-api/internal/service"
	cloud "github.com/wearvirtually/wearvirtually-api/pkg/cloudinary"
	"github.com/wearvirtually/wearvirtually-api/pkg/imagegen"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Friendship{},
		&models.Product{},
		&models.TryOnResult{},
		&models.Order{},
		&models.OrderItem{},
		&models.Conversation{},
		&models.ConversationUnread{},
		&models.Message{},
		&models.Notification{},
		&models.Post{},
		&models.PostLike{},
		&models.PostComment{},
		&models.MediaAsset{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, outbound event publishing disabled")
	}

	storage, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	renderer, err := imagegen.New(imagegen.Config{
		APIKey: cfg.OpenAIAPIKey,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create image renderer: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	shopRepo := repository.NewShopRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	productRepo := repository.NewProductRepository(db)
	tryOnRepo := repository.NewTryOnRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	postRepo := repository.NewPostRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	realtimeService := service.NewRealtimeService(logger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, shopRepo, realtimeService, natsConn, cfg.EventSubjectBase, validate, logger)
	chatService := service.NewChatService(conversationRepo, realtimeService, redisClient, cfg.CacheKeyBase, validate, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, notificationService, realtimeService, validate, logger)
	friendService := service.NewFriendService(friendshipRepo, userRepo, notificationService, validate, logger)
	postService := service.NewPostService(postRepo, notificationService, validate, logger)
	catalogService := service.NewCatalogService(productRepo, shopRepo, validate, logger)
	tryOnService := service.NewTryOnService(tryOnRepo, productRepo, renderer, storage, validate, logger)
	uploadService := service.NewUploadService(storage, mediaRepo, cfg.UploadMaxSizeMB, logger)

	deps := router.Dependencies{
		RealtimeHandler:     handler.NewRealtimeHandler(realtimeService, logger),
		ChatHandler:         handler.NewChatHandler(chatService, validate, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		OrderHandler:        handler.NewOrderHandler(orderService, logger),
		FriendHandler:       handler.NewFriendHandler(friendService, logger),
		PostHandler:         handler.NewPostHandler(postService, logger),
		CatalogHandler:      handler.NewCatalogHandler(catalogService, logger),
		TryOnHandler:        handler.NewTryOnHandler(tryOnService, logger),
		UploadHandler:       handler.NewUploadHandler(uploadService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
