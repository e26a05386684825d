package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/adapters/event"
	httpAdapter "github.com/khoahotran/devlinks/adapters/http"
	"github.com/khoahotran/devlinks/adapters/inmem"
	"github.com/khoahotran/devlinks/adapters/media_storage"
	"github.com/khoahotran/devlinks/adapters/persistence"
	"github.com/khoahotran/devlinks/adapters/web"
	"github.com/khoahotran/devlinks/internal/application/service"
	analyticsUC "github.com/khoahotran/devlinks/internal/application/usecase/analytics"
	authUC "github.com/khoahotran/devlinks/internal/application/usecase/auth"
	linkUC "github.com/khoahotran/devlinks/internal/application/usecase/link"
	profileUC "github.com/khoahotran/devlinks/internal/application/usecase/profile"
	"github.com/khoahotran/devlinks/internal/config"
	"github.com/khoahotran/devlinks/internal/domain/user"
	"github.com/khoahotran/devlinks/pkg/auth"
	"github.com/khoahotran/devlinks/pkg/logger"
	"github.com/khoahotran/devlinks/pkg/tracing"
)

// backends are the adapters chosen by storage.driver.
type backends struct {
	documents   service.DocumentStore
	blobs       service.BlobStore
	users       user.Repository
	revocations authUC.SessionRevocations
	views       service.ViewCounter
	events      service.EventPublisher
	blobHandler *httpAdapter.BlobHandler
	closers     []func()
}

func main() {
	fmt.Println("Start devlinks server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "devlinks-server")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Failed to shutdown tracer", err)
		}
	}()

	// Initialize dependencies
	var b *backends
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		b = memoryBackends(cfg, appLogger)
	default:
		b, err = postgresBackends(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize backends", err)
		}
	}
	defer func() {
		for i := len(b.closers) - 1; i >= 0; i-- {
			b.closers[i]()
		}
	}()

	// Repositories
	profileRepo := persistence.NewDocumentProfileRepo(b.documents, appLogger)
	linkRepo := persistence.NewDocumentLinkRepo(b.documents, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	sessionSvc := authUC.NewSessionService(jwtSvc, b.revocations, appLogger)
	theme := web.DefaultTheme()

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(b.users, jwtSvc, appLogger)
	signupUseCase := authUC.NewSignupUseCase(b.users, jwtSvc, appLogger)
	loadProfileUseCase := profileUC.NewLoadProfileUseCase(profileRepo, linkRepo, appLogger)
	saveProfileUseCase := profileUC.NewSaveProfileUseCase(profileRepo, b.blobs, b.events, appLogger)
	linkUseCase := linkUC.NewLinkUseCase(linkRepo, appLogger)
	viewCountUseCase := analyticsUC.NewViewCountUseCase(b.views)

	// HTTP Handlers
	session := httpAdapter.SessionOptions{
		RestoreTimeout: cfg.Auth.RestoreTimeout,
		CookieSecure:   cfg.Auth.CookieSecure,
		TokenLifespan:  cfg.Auth.TokenLifespan,
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Logger:   appLogger,
		Restorer: sessionSvc,
		Session:  session,
		Auth:     httpAdapter.NewAuthHandler(loginUseCase, signupUseCase, session, theme, appLogger),
		Profile:  httpAdapter.NewProfileHandler(loadProfileUseCase, saveProfileUseCase, appLogger),
		Links:    httpAdapter.NewLinkHandler(linkUseCase, appLogger),
		Editor:   httpAdapter.NewEditorHandler(loadProfileUseCase, saveProfileUseCase, linkUseCase, viewCountUseCase, theme, cfg.App.BaseURL, appLogger),
		Preview:  httpAdapter.NewPreviewHandler(loadProfileUseCase, b.events, theme, cfg.App.BaseURL, appLogger),
		Blobs:    b.blobHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}

func postgresBackends(cfg config.Config, log logger.Logger) (*backends, error) {
	b := &backends{}

	dbPool, err := persistence.NewPostgresPool(context.Background(), cfg, log)
	if err != nil {
		return nil, fmt.Errorf("cannot connect Postgres: %w", err)
	}
	b.closers = append(b.closers, dbPool.Close)

	redisClient, err := persistence.NewRedisClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("cannot connect Redis: %w", err)
	}
	b.closers = append(b.closers, func() { _ = redisClient.Close() })

	kafkaClient, err := event.NewKafkaProducerClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("cannot init Kafka: %w", err)
	}
	b.closers = append(b.closers, kafkaClient.Close)

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize uploader: %w", err)
	}

	b.documents = persistence.NewCachedDocumentStore(persistence.NewPostgresDocumentStore(dbPool, log), redisClient, cfg.Redis.CacheTTL, log)
	b.users = persistence.NewPostgresUserRepo(dbPool, log)
	b.blobs = uploader
	b.revocations = persistence.NewRedisSessionStore(redisClient)
	b.views = persistence.NewRedisViewCounter(redisClient)
	b.events = kafkaClient
	return b, nil
}

func memoryBackends(cfg config.Config, log logger.Logger) *backends {
	log.Warn("Using in-memory storage, data is lost on restart")
	blobs := inmem.NewBlobStore(cfg.App.BaseURL + "/blobs")
	return &backends{
		documents:   inmem.NewDocumentStore(),
		blobs:       blobs,
		users:       inmem.NewUserRepo(),
		revocations: inmem.NewSessionStore(),
		views:       inmem.NewViewCounter(),
		events:      service.NopPublisher{},
		blobHandler: httpAdapter.NewBlobHandler(blobs),
	}
}
