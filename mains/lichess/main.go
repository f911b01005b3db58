package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Tomyyy-1337/LichessBot/bot"
	"github.com/Tomyyy-1337/LichessBot/config"
	"github.com/Tomyyy-1337/LichessBot/engine"
	"github.com/Tomyyy-1337/LichessBot/lichess"
)

func main() {
	cfg := &config.Config{}
	err := cfg.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	cfg.SetupLogging()

	if cfg.APIKey == "" {
		log.Fatal().Msg("Lichess-Bot requires a Lichess API key in order to run, set --api-key or LICHESS_API_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := lichess.NewClient(cfg.APIKey, cfg.ClientOptions()...)

	botName := cfg.BotName
	if botName == "" {
		account, err := client.GetAccount(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("get-account-failed")
		}
		if !account.IsBot() {
			log.Warn().Str("account", account.Username).Msg("account-is-not-a-bot-account")
		}
		botName = account.Username
	}

	var tablebase bot.Tablebase
	if cfg.UseTablebase {
		tablebase = client
	}
	e := engine.NewEngine(cfg.EngineConfig())
	state := bot.NewState(client, bot.NewMoveSource(e, tablebase, cfg.TablebasePieces), botName)

	if cfg.ChallengeAI {
		gameID, err := client.ChallengeAI(ctx, cfg.AIChallenge())
		if err != nil {
			log.Fatal().Err(err).Msg("ai-challenge-failed")
		}
		log.Info().Str("game", gameID).Int("level", cfg.AILevel).Msg("challenged-ai")
		state.PushGame(&bot.Game{ID: gameID})
	}

	log.Info().Str("bot", botName).Dur("think-time", cfg.ThinkTime).Int("workers", e.Config().Workers).Msg("lichess-bot-starting")
	state.Run(ctx)
	log.Info().Msg("lichess-bot-stopped")
}
