package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/config"
	"github.com/plzfm/song-request-kiosk/internal/database"
	"github.com/plzfm/song-request-kiosk/internal/handler"
	"github.com/plzfm/song-request-kiosk/internal/middleware"
	"github.com/plzfm/song-request-kiosk/internal/queue"
	"github.com/plzfm/song-request-kiosk/internal/repository"
	"github.com/plzfm/song-request-kiosk/internal/router"
	"github.com/plzfm/song-request-kiosk/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema setup failed: %v", err)
	}
	cancel()

	// Redis backs the response cache and the kiosk rate limiter. A nil
	// client disables both; the service still works without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	showRepo := repository.NewShowRepo(db)
	crateRepo := repository.NewCrateRepo(db)
	artistRepo := repository.NewArtistRepo(db)
	songRepo := repository.NewSongRepo(db)
	blockRepo := repository.NewBlocklistRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	credRepo := repository.NewCredentialRepo(db)

	broker := queue.NewBroker()
	engine := service.NewIngestEngine(blockRepo, songRepo, ticketRepo, broker)
	dispatcher := service.NewDispatcher(ticketRepo, broker)

	go func() {
		if err := queue.StartPrintFeedConsumer(); err != nil {
			log.Printf("print feed consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, credRepo)
	publicH := handler.NewPublicHandler(showRepo, songRepo)
	requestH := handler.NewRequestHandler(showRepo, engine)
	staffH := handler.NewStaffHandler(showRepo, crateRepo, artistRepo, songRepo, blockRepo, ticketRepo, dispatcher)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterPublic(e, publicH, requestH, cacheMW, limitMW)
	router.RegisterStaff(e, staffH, authH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
