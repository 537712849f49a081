// Command bot runs one or two strategy-driven websocket players against a
// running game server. With --seats 2 it plays a full match against itself,
// which is handy for smoke-testing a server end to end.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/bot"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/logger"
)

func main() {
	cmd := &cli.Command{
		Name:  "bot",
		Usage: "websocket player bot for the grid skirmish server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "ws://localhost:8009/ws",
				Usage: "server websocket endpoint",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Value: "greedy",
				Usage: "strategy to play: greedy or random",
			},
			&cli.IntFlag{
				Name:  "seats",
				Value: 1,
				Usage: "number of bot players to connect (1 or 2)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "zerolog level (trace..panic)",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Bot exited")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	godotenv.Load()
	logger.Init(cmd.String("log-level"))

	seats := int(cmd.Int("seats"))
	if seats < 1 || seats > 2 {
		return fmt.Errorf("seats must be 1 or 2, got %d", seats)
	}
	url := cmd.String("url")
	strategy := bot.StrategyByName(cmd.String("strategy"))
	log.Info().Str("url", url).Str("strategy", strategy.Name()).Int("seats", seats).Msg("Connecting")

	var wg sync.WaitGroup
	errs := make([]error, seats)
	results := make([]*bot.Result, seats)
	for i := 0; i < seats; i++ {
		// Stagger the second connection so seat order is deterministic.
		if i > 0 {
			time.Sleep(200 * time.Millisecond)
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = bot.NewClient(strategy).Play(ctx, url)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("bot %d: %w", i+1, err)
		}
	}
	for _, r := range results {
		log.Info().Str("playerId", r.PlayerID).
			Str("winnerId", r.WinnerID).
			Bool("won", r.Won).
			Int("turns", r.Turns).
			Msg("Match finished")
	}
	return nil
}
