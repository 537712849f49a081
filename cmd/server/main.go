// Command server runs the authoritative grid skirmish game server: it
// seats exactly two websocket players, drives the turn schedule and
// broadcasts the outcome.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/config"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/logger"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/server"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/session"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/pkg/skirmish"
)

func main() {
	cmd := &cli.Command{
		Name:  "skirmishd",
		Usage: "two-player grid skirmish game server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the config file (YAML or JSON)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "listen port, overrides the config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "zerolog level (trace..panic)",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	godotenv.Load()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	logger.Init(cfg.LogLevel)

	log.Info().
		Int("port", cfg.Port).
		Int("protocolVersion", cfg.ProtocolVersion).
		Dur("turnTimeLimit", cfg.TurnTimeLimit).
		Float64("foodScarcity", cfg.FoodScarcity).
		Bool("fogOfWar", cfg.FogOfWar).
		Msg("Config loaded")

	engine := skirmish.NewEngine(cfg.Seed)
	events := make(chan session.Event, 64)
	registry := session.NewRegistry(events)
	orch := session.NewOrchestrator(registry, engine, cfg.Settings(), events)
	orch.SetStallRounds(cfg.StallRounds)
	srv := server.New(cfg.Port, registry, events)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Once the game is over the process has no further purpose: the
	// orchestrator asks the transport to drain and close.
	orch.SetShutdownFunc(func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	})

	orchDone := make(chan struct{})
	go func() {
		orch.Run(runCtx)
		close(orchDone)
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		<-orchDone
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel() // orchestrator broadcasts a best-effort END_GAME, then closes the transport
		select {
		case <-orchDone:
		case <-time.After(5 * time.Second):
			log.Warn().Msg("Driver did not stop in time")
		}
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info().Msg("Server stopped")
		return nil
	}
}
