// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creditpix-back/internal/auth"
	"creditpix-back/internal/billing"
	"creditpix-back/internal/config"
	"creditpix-back/internal/database"
	"creditpix-back/internal/handlers"
	"creditpix-back/internal/imageproc"
	"creditpix-back/internal/middleware"
	"creditpix-back/internal/session"
	"creditpix-back/internal/storage"
	"creditpix-back/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateDB(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var objects storage.ObjectStore
	switch cfg.Storage.Backend {
	case "memory":
		objects = storage.NewMemoryStore()
		logger.Info("using in-memory object storage (dev mode)")
	default:
		objects, err = storage.NewMinIOStore(ctx, cfg.Minio)
		if err != nil {
			logger.Error("failed to initialize MinIO", "error", err)
			os.Exit(1)
		}
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	sessions := session.NewService(session.NewGormUserRepo(db), tokens, cfg.Auth.SignupCredits, logger)

	recordStore := imageproc.NewStore()
	intake := imageproc.NewIntake(cfg.Upload.MaxSizeBytes, "")
	images := imageproc.NewService(recordStore, objects, cfg.Processing.SimulatedLatency, logger)
	defer images.Close()
	watcher := imageproc.NewWatcher(recordStore, cfg.Processing.PollInterval)

	orchestrator := upload.NewOrchestrator(images, sessions, cfg.Upload.UploadCost, logger)
	bill := billing.NewService(sessions, cfg.Billing.PaymentDelay, logger)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", handlers.Register(sessions, cfg.Auth.CookieDomain))
		public.POST("/login", handlers.Login(sessions, cfg.Auth.CookieDomain))
		public.POST("/logout", handlers.Logout(cfg.Auth.CookieDomain))
		public.GET("/bundles", handlers.ListBundles())
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.GET("/profile", handlers.GetProfile(sessions))
		protected.GET("/dashboard", handlers.Dashboard(sessions, images))
		protected.POST("/upload", handlers.UploadImage(orchestrator, intake, sessions, logger))
		protected.GET("/images", handlers.GetHistory(images, objects, logger))
		protected.GET("/images/:id", handlers.GetImage(images, objects, logger))
		protected.GET("/images/:id/wait", handlers.WaitImage(watcher, images, objects, logger))
		protected.DELETE("/images/:id", handlers.DeleteImage(images))
		protected.POST("/credits/purchase", handlers.PurchaseCredits(bill))
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", "error", err)
	}
}
