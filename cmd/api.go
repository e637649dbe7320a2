package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/agrotrack/services/fleet/config"
	"example.com/agrotrack/services/fleet/internal/api"
	"example.com/agrotrack/services/fleet/internal/allocator"
	"example.com/agrotrack/services/fleet/internal/cache"
	"example.com/agrotrack/services/fleet/internal/database"
	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/localstore"
	"example.com/agrotrack/services/fleet/internal/messaging"
	"example.com/agrotrack/services/fleet/internal/metrics"
	"example.com/agrotrack/services/fleet/internal/search"
	"example.com/agrotrack/services/fleet/internal/service"
	"example.com/agrotrack/services/fleet/internal/state"
	"example.com/agrotrack/services/fleet/internal/tracing"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server exposing the fleet session`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	fleet, gw, tracer, cleanup, err := buildFleetService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// A corrupted session purges the snapshots and stops the process;
	// the next start runs against a clean slate.
	if err := fleet.Bootstrap(ctx); err != nil {
		return err
	}

	scheduler, err := startSnapshotFlusher(cfg, fleet)
	if err != nil {
		return err
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("Scheduler shutdown error")
		}
	}()

	server := api.NewServer(cfg, fleet, gw, tracer)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	fleet.FlushSnapshot()

	log.Info().Msg("Shutting down API server")
	return nil
}

// buildFleetService wires the service from configuration. Degraded
// dependencies (cache, search, messaging, tracing) log a warning and
// the session runs without them.
func buildFleetService(cfg config.Config) (*service.FleetService, gateway.Gateway, tracing.Tracer, func(), error) {
	db, err := database.Connect(cfg.DB)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "failed to run migrations")
	}
	gormDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
	}

	bus, err := messaging.NewServiceBusClient(cfg.Azure)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Service Bus publisher, continuing without events")
		bus = nil
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}

	storage := gateway.NewFilesystemStorage(cfg.Storage.Dir, cfg.Storage.BaseURL)
	gw := gateway.New(gormDB, redisCache, storage)

	store := localstore.New(cfg.Local.Dir, cfg.Local.Prefix)
	st := state.New(store)
	alloc := allocator.New(gw, st, cfg.Allocator.RemoteTimeout)

	fleet := service.NewFleetService(gw, st, store, alloc, elasticClient, bus, metrics.NewMetrics(), tracer)

	cleanup := func() {
		if bus != nil {
			if err := bus.Close(); err != nil {
				log.Warn().Err(err).Msg("Service Bus close error")
			}
		}
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("Database close error")
		}
	}
	return fleet, gw, tracer, cleanup, nil
}

// startSnapshotFlusher schedules the periodic local snapshot flush.
func startSnapshotFlusher(cfg config.Config, fleet *service.FleetService) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	interval := cfg.Local.FlushInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fleet.FlushSnapshot),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	return scheduler, nil
}
