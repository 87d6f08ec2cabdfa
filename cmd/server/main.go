package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/config"
	"github.com/iliyamo/wardrobe-designer/internal/database"
	"github.com/iliyamo/wardrobe-designer/internal/handler"
	"github.com/iliyamo/wardrobe-designer/internal/middleware"
	"github.com/iliyamo/wardrobe-designer/internal/queue"
	"github.com/iliyamo/wardrobe-designer/internal/repository"
	"github.com/iliyamo/wardrobe-designer/internal/router"
	queue_publisher "github.com/iliyamo/wardrobe-designer/internal/service"
	"github.com/iliyamo/wardrobe-designer/internal/session"
	"github.com/iliyamo/wardrobe-designer/internal/template"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dotenv: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	templates := loadTemplates(ctx, cfg)

	registry := session.NewRegistry(cat, cfg.SessionTTL)
	go sweepSessions(ctx, registry, cfg.SweepEvery)

	var publisher handler.ExportPublisher
	if cfg.ExportEvents {
		publisher = queue_publisher.New(cfg.AMQPURL)
		go func() {
			if err := queue.StartExportConsumer(ctx, cfg.AMQPURL, cfg.ExportLog); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("export-consumer: stopped: %v", err)
			}
		}()
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Format: "${time_rfc3339} ${id} ${method} ${uri} ${status} ${latency_human}\n",
	}))
	e.Use(echomw.BodyLimit("2M"))

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, handler.NewCatalogHandler(cat, templates), cache, limit)
	router.RegisterDesign(e,
		handler.NewDesignHandler(registry, cat, templates, publisher, cfg.JWTSecret, cfg.SessionTTL),
		cfg.JWTSecret, limit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// loadTemplates returns the embedded templates, fronted by the MySQL store
// when one is configured.  The database is seeded with the embedded set on
// first use.
func loadTemplates(ctx context.Context, cfg config.Config) template.Source {
	builtin, err := template.Builtin()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	if !cfg.TemplateStoreEnabled() {
		return builtin
	}

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Printf("templates: database unavailable, using built-in set: %v", err)
		return builtin
	}
	repo := repository.NewTemplateRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("templates: %v; using built-in set", err)
		return builtin
	}
	existing, err := repo.List(ctx)
	if err == nil && len(existing) == 0 {
		items, _ := builtin.List(ctx)
		if err := repo.Seed(ctx, items); err != nil {
			log.Printf("templates: seed: %v", err)
		}
	}
	return template.Chain{repo, builtin}
}

// sweepSessions evicts idle sessions every interval until ctx ends.
func sweepSessions(ctx context.Context, reg *session.Registry, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := reg.Sweep(); n > 0 {
				log.Printf("sessions: evicted %d idle, %d live", n, reg.Len())
			}
		}
	}
}
