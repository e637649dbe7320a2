package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/agrotrack/services/fleet/config"
	"example.com/agrotrack/services/fleet/internal/realtime"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker consuming realtime incident and fuel-load streams`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
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

	g, ctx := errgroup.WithContext(ctx)

	fleet, _, _, cleanup, err := buildFleetService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := fleet.Bootstrap(ctx); err != nil {
		return err
	}

	listener, err := realtime.NewListener(cfg.Azure, fleet.State(), fleet.Metrics())
	if err != nil {
		return err
	}
	defer func() {
		if err := listener.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Listener close error")
		}
	}()

	g.Go(func() error {
		log.Info().
			Str("incident_queue", cfg.Azure.IncidentQueue).
			Str("fuel_queue", cfg.Azure.FuelQueue).
			Msg("Starting realtime listener")
		return listener.Run(ctx)
	})

	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		interval := cfg.Local.FlushInterval
		if interval <= 0 {
			interval = 30 * time.Second
		}
		if _, err := scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(fleet.FlushSnapshot),
		); err != nil {
			return err
		}

		// Planned orders past their window move to retrasada.
		if _, err := scheduler.NewJob(
			gocron.DurationJob(10*time.Minute),
			gocron.NewTask(func() {
				if delayed := fleet.MarkDelayedWorkOrders(ctx); len(delayed) > 0 {
					log.Info().Strs("ids", delayed).Msg("Marked work orders as delayed")
				}
			}),
		); err != nil {
			return err
		}

		scheduler.Start()
		<-ctx.Done()
		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	fleet.FlushSnapshot()
	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
