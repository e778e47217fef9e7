package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"vv-api/internal/config"
	"vv-api/internal/handler"
	"vv-api/internal/hub"
	"vv-api/internal/middleware"
	"vv-api/internal/repository"
	"vv-api/internal/service"
	"vv-api/internal/ws"
	"vv-api/pkg/database"
	"vv-api/pkg/logger"
	"vv-api/pkg/redis"
)

const engagementFlushInterval = 30 * time.Second

// Resources holds all resources that need cleanup
type Resources struct {
	db          *database.PostgresDB
	redisClient *redis.Client
	server      *http.Server
	stopWorkers context.CancelFunc
	log         *logger.Logger
	mu          sync.Mutex
	closed      bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	// Stop the hub and the engagement flusher
	if r.stopWorkers != nil {
		r.stopWorkers()
	}

	if r.redisClient != nil {
		r.log.Info("Closing Redis connection...")
		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errs = append(errs, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	if r.db != nil {
		r.log.Info("Closing database connection pool...")
		r.db.Close()
		r.log.Info("Database connection pool closed successfully")
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting vv-api server")

	ctx := context.Background()

	// Initialize database connection
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Initialize Redis connection
	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	battleRepo := repository.NewBattleRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// The AI judge is optional; without a key the moderation queue
	// works unannotated and the /api/ai endpoints answer 502
	var judgeService service.JudgeService
	if cfg.GeminiAPIKey != "" {
		judgeService, err = service.NewJudgeService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to create AI judge")
		}
	} else {
		log.Warn("GEMINI_API_KEY not set, AI endpoints disabled")
	}

	// Initialize services
	workerCtx, stopWorkers := context.WithCancel(ctx)
	eventHub := hub.New(log)
	go eventHub.Run(workerCtx)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, log)
	moderationService := service.NewModerationService(moderationRepo, mediaRepo, judgeService, log)
	battleService := service.NewBattleService(battleRepo, chatRepo, redisClient, eventHub, moderationService, log)
	mediaService := service.NewMediaService(mediaRepo, redisClient, moderationService, log)

	// Fold buffered engagement counters into Postgres periodically
	go func() {
		ticker := time.NewTicker(engagementFlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				flushCtx, cancel := context.WithTimeout(workerCtx, 20*time.Second)
				if err := mediaService.FlushEngagement(flushCtx); err != nil {
					log.WithError(err).Warn("Engagement flush failed")
				}
				cancel()
			}
		}
	}()

	// Setup router
	router := setupRouter(cfg, log, db, redisClient, eventHub,
		authService, battleService, mediaService, moderationService, judgeService)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		db:          db,
		redisClient: redisClient,
		server:      server,
		stopWorkers: stopWorkers,
		log:         log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(
	cfg *config.Config,
	log *logger.Logger,
	db *database.PostgresDB,
	redisClient *redis.Client,
	eventHub *hub.Hub,
	authService service.AuthService,
	battleService service.BattleService,
	mediaService service.MediaService,
	moderationService service.ModerationService,
	judgeService service.JudgeService,
) *chi.Mux {
	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, cfg.IsProduction(), log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Rate limit classes, one Redis window each
	authRL := middleware.RateLimit(redisClient, middleware.AuthClass(cfg.AuthRateLimit), log)
	apiRL := middleware.RateLimit(redisClient, middleware.APIClass(cfg.APIRateLimit), log)
	uploadRL := middleware.RateLimit(redisClient, middleware.UploadClass(cfg.UploadRateLimit), log)

	requireAuth := middleware.Auth(authService, log)
	optionalAuth := middleware.OptionalAuth(authService, log)

	// Create handlers
	healthHandler := handler.NewHealthHandler(db, redisClient, log)
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction(), log)
	battleHandler := handler.NewBattleHandler(battleService, log)
	mediaHandler := handler.NewMediaHandler(mediaService, log)
	moderationHandler := handler.NewModerationHandler(moderationService, log)
	aiHandler := handler.NewAIHandler(judgeService, log)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRL)
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/signout", authHandler.SignOut)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(apiRL)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Put("/me", authHandler.UpdateMe)
			})
			r.Get("/{username}", authHandler.Profile)
		})

		r.Route("/battles", func(r chi.Router) {
			r.Use(apiRL)

			r.Get("/", battleHandler.List)
			r.Get("/{battleId}", battleHandler.Get)
			r.Get("/{battleId}/chat", battleHandler.ListChat)
			r.Get("/{battleId}/ws", ws.Handler(eventHub, battleService, log))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", battleHandler.Create)
				r.Post("/{battleId}/join", battleHandler.Join)
				r.Post("/{battleId}/performance", battleHandler.SubmitPerformance)
				r.Post("/{battleId}/votes", battleHandler.CastVote)
				r.Post("/{battleId}/finalize", battleHandler.Finalize)
				r.Post("/{battleId}/chat", battleHandler.PostChat)
			})
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(apiRL)

			r.Group(func(r chi.Router) {
				r.Use(optionalAuth)
				r.Get("/", mediaHandler.Feed)
				r.Get("/{mediaId}", mediaHandler.Get)
				r.Post("/{mediaId}/view", mediaHandler.View)
				r.Post("/{mediaId}/like", mediaHandler.Like)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, uploadRL)
				r.Post("/", mediaHandler.Upload)
			})
		})

		r.Route("/moderation", func(r chi.Router) {
			r.Use(apiRL, requireAuth)
			r.Get("/", moderationHandler.Queue)
			r.Post("/{itemId}/review", moderationHandler.Review)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(apiRL, requireAuth)
			r.Post("/judge", aiHandler.Judge)
			r.Post("/analyze", aiHandler.Analyze)
			r.Post("/cypher", aiHandler.Cypher)
			r.Post("/beats", aiHandler.Beats)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
