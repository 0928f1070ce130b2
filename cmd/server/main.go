package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-inventory/internal/cache"
	"github.com/skyfare/flight-inventory/internal/config"
	"github.com/skyfare/flight-inventory/internal/database"
	"github.com/skyfare/flight-inventory/internal/engine"
	"github.com/skyfare/flight-inventory/internal/handler"
	"github.com/skyfare/flight-inventory/internal/queue"
	"github.com/skyfare/flight-inventory/internal/router"
	"github.com/skyfare/flight-inventory/internal/store/mysql"
)

func main() {
	// Load variables from a local .env when present; in production the
	// environment is provided by the deployment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(database.Options{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		PingTimeout:     cfg.DBPingTimeout,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Redis is optional. Without it the availability cache and the rate
	// limiter are simply disabled and every read hits MySQL.
	rdb := config.NewRedisClient()

	st := mysql.New(db)

	var invCache engine.Cache
	if c := cache.New(rdb, cfg.CacheTTL, cfg.CachePrefix); c != nil {
		invCache = c
	}

	events := queue.NewPublisher(cfg.AMQPURL)

	eng := engine.New(st, invCache, events, engine.Config{
		HoldTTL:     cfg.HoldTTL,
		LockTimeout: cfg.LockTimeout,
	})

	// Background expiry sweeper reconciles lapsed holds on an interval.
	go engine.NewSweeper(eng, cfg.SweepInterval).Run(ctx)

	// Consume inventory events into the local audit trail log file.
	go func() {
		if err := queue.StartConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	router.RegisterRoutes(e)
	router.RegisterAPI(e, &cfg, rdb,
		handler.NewTokenHandler(&cfg),
		handler.NewInventoryHandler(eng),
		handler.NewReservationHandler(eng))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
