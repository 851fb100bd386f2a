package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/afero"

	"icp-hunter/internal/adapters/exports"
	"icp-hunter/internal/adapters/payment"
	"icp-hunter/internal/adapters/store"
	"icp-hunter/internal/adapters/web"
	"icp-hunter/internal/config"
	"icp-hunter/internal/generator"
	"icp-hunter/internal/simulator"
	"icp-hunter/internal/trophy"
	"icp-hunter/internal/usecases"
	"icp-hunter/pkg/log"
	"icp-hunter/pkg/log/transporters"
)

func main() {
	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		// No logger yet.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	log.SetDefault(logger)

	if err := run(cfg); err != nil {
		log.GlobalError("server stopped", "error", err)
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}

func newLogger(cfg config.LogConfig) *log.Logger {
	outputs := []log.Transporter{transporters.NewStdout()}
	if cfg.File != "" {
		outputs = append(outputs, transporters.NewFile(transporters.FileOptions{
			Path:       cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}))
	}
	return log.New(cfg.Level, outputs...).With("service", "icp-hunter")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := cfg.Hunt.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	gen := generator.NewSeeded(seed)

	// Hunts are cancelled when they expire and when the server stops.
	hunts := store.NewMemory[*usecases.Session](cfg.Hunt.TTL, time.Minute,
		store.WithEvictHook(func(id string, s *usecases.Session) {
			s.Stop()
			log.GlobalDebug("hunt evicted", "hunt_id", id)
		}))
	defer hunts.Close()

	exportStore, err := exports.NewStore(afero.NewOsFs(), cfg.Export.Dir, cfg.Export.TTL)
	if err != nil {
		return err
	}
	go purgeExports(ctx, exportStore)

	trophies := usecases.NewTrophyRoomUseCase(trophy.NewRoom())
	if err := trophies.Seed(ctx, gen, cfg.Hunt.TrophySeedCount); err != nil {
		return err
	}

	huntService := usecases.NewHuntService(ctx, usecases.HuntDeps{
		Hunts:     hunts,
		Generator: gen,
		Clock:     simulator.RealClock{},
		Payments:  payment.NewMockGateway(cfg.Checkout.Delay, cfg.Checkout.FailureRate),
		Exports:   exportStore,
		Trophies:  trophies,
	}, usecases.WithGlitchChance(cfg.Hunt.GlitchChance, rand.Float64))

	rateLimiter := web.NewRateLimiter(cfg.Server.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Close()

	app := fiber.New(fiber.Config{
		AppName:      "ICP Hunter",
		ErrorHandler: web.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestIDToContextMiddleware())
	app.Use(web.RequestLoggerMiddleware())

	web.SetupRoutes(app, web.NewHandlers(huntService, trophies), rateLimiter)

	errc := make(chan error, 1)
	go func() {
		log.GlobalInfo("starting ICP Hunter", "port", cfg.Server.Port)
		errc <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.GlobalInfo("shutting down")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func purgeExports(ctx context.Context, s *exports.Store) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.Purge(); n > 0 {
				log.GlobalInfo("expired exports removed", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
