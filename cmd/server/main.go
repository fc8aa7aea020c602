package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/jmfreeston/events-directory-api/internal/config"
	"github.com/jmfreeston/events-directory-api/internal/database"
	"github.com/jmfreeston/events-directory-api/internal/handler"
	"github.com/jmfreeston/events-directory-api/internal/middleware"
	"github.com/jmfreeston/events-directory-api/internal/queue"
	"github.com/jmfreeston/events-directory-api/internal/repository"
	"github.com/jmfreeston/events-directory-api/internal/router"
	queuepub "github.com/jmfreeston/events-directory-api/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single pooled *sql.DB.
	regionRepo := repository.NewRegionRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	organizerRepo := repository.NewOrganizerRepo(db)
	eventRepo := repository.NewEventRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminHandler := handler.NewAdminHandler(regionRepo, organizerRepo, locationRepo, eventRepo, categoryRepo)
	organizerHandler := handler.NewOrganizerHandler(regionRepo, organizerRepo, locationRepo, eventRepo, categoryRepo)
	publicHandler := handler.NewPublicHandler(regionRepo, locationRepo, eventRepo, categoryRepo)

	// Activity messages are fire-and-forget; a broker outage must not
	// fail the request that triggered the message.
	organizerHandler.Publish = func(msg queue.ActivityMessage) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := queuepub.PublishActivity(ctx, msg); err != nil {
				log.Printf("publish activity: %v", err)
			}
		}()
	}

	// Redis backs the public response cache and the per-IP rate
	// limiter; both fail open when Redis is down.
	rdb := config.NewRedisClient()
	var publicMws []echo.MiddlewareFunc
	if rl := config.LoadRateLimitConfig(); rl.Enabled && rdb != nil {
		publicMws = append(publicMws, middleware.NewRateLimiter(rl, rdb))
	}
	if cc := config.LoadCacheConfig(); cc.Enabled && rdb != nil {
		publicMws = append(publicMws, middleware.NewRedisCache(cc, rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterOrganizer(e, organizerHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, publicMws...)

	// The activity consumer keeps its own connection and reconnect
	// loop; it runs for the life of the process.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	// Expired refresh tokens accumulate forever otherwise.
	go func() {
		for {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := tokenRepo.PurgeExpired(ctx, time.Now()); err != nil {
				log.Printf("purge refresh tokens: %v", err)
			} else if n > 0 {
				log.Printf("purged %d expired refresh tokens", n)
			}
			cancel()
			time.Sleep(12 * time.Hour)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
