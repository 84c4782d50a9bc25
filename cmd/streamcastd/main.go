package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/streamcast/core/broadcast"
	"github.com/dmitrymomot/streamcast/core/config"
	"github.com/dmitrymomot/streamcast/core/counter"
	"github.com/dmitrymomot/streamcast/core/logger"
	"github.com/dmitrymomot/streamcast/core/notification"
	"github.com/dmitrymomot/streamcast/core/overlay"
	"github.com/dmitrymomot/streamcast/core/server"
	"github.com/dmitrymomot/streamcast/core/speech"
	"github.com/dmitrymomot/streamcast/core/static"
)

// Config aggregates every component's environment configuration.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"streamcastd"`

	Server   server.Config
	Notifier notification.Config
	Overlay  overlay.Config
	Counter  counter.Config
	Speech   speech.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg) // panic on error

	log := logger.New(logger.WithDevelopment(cfg.AppName))
	logger.SetAsDefault(log)

	mainHub := broadcast.NewHub(log)
	counterHub := broadcast.NewHub(log.With(logger.Key("channel", "counter")))
	buffer := broadcast.NewAudioBuffer()

	orchOpts := []notification.Option{
		notification.WithLogger(log),
		notification.WithAudioBuffer(buffer),
	}

	if cfg.Speech.APIKey != "" {
		synth, err := speech.NewFromConfig(cfg.Speech)
		if err != nil {
			log.Error("Failed to create speech synthesizer", logger.Component("speech"), logger.Error(err))
			os.Exit(1)
		}
		orchOpts = append(orchOpts, notification.WithSynthesizer(synth))
	} else {
		log.Warn("No speech API key configured, text-to-speech disabled", logger.Component("speech"))
	}

	// One catalog scan serves both the operator's asset lookups and the
	// orchestrator's pre-flight existence checks.
	if catalog, err := static.ScanCatalog(cfg.Overlay.ResourceDir); err != nil {
		log.Warn("Resource catalog unavailable",
			logger.Component("catalog"),
			logger.Path(cfg.Overlay.ResourceDir),
			logger.Error(err))
	} else {
		log.Info("Resource catalog scanned",
			logger.Component("catalog"),
			logger.Count("sounds", len(catalog.Sounds())),
			logger.Count("videos", len(catalog.Videos())))
		orchOpts = append(orchOpts, notification.WithAssetCheck(catalog.Has))
	}

	orch := notification.New(mainHub, cfg.Notifier, orchOpts...)

	counterSvc := counter.New(
		counter.NewSet(cfg.Counter.SetName),
		counterHub,
		counter.WithLogger(log),
		counter.WithInterval(cfg.Counter.Interval),
	)

	overlaySvc := overlay.New(cfg.Overlay, mainHub, counterSvc, buffer,
		overlay.WithLogger(log))

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.Run(ctx, overlaySvc.Handler()))
	eg.Go(func() error { return orch.Run(ctx) })
	eg.Go(func() error { return counterSvc.Run(ctx) })

	log.Info("Overlay available", logger.Key("addr", cfg.Server.Addr))

	err = eg.Wait()

	mainHub.Close()
	counterHub.Close()

	if err != nil {
		log.Error("Exited with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Shutdown complete")
}
